// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/replenwise/replenish/internal/domain"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Archive  ArchiveConfig
	Policy   PolicyConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	PlanTTLSecond int
}

// ArchiveConfig points at the S3-compatible bucket simulation runs are
// archived to.
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// PolicyConfig carries the default replenishment policy. Per-request query
// parameters override individual fields.
type PolicyConfig struct {
	SafetyStockMonths int
	CycleMonths       int
	LeadTimeDays      int
	MinOrderQty       int
	OrderUnit         int
	RatioAdjustPct    float64

	BenchmarkType   string
	YoYYears        int
	YoYSplit1       float64
	YoYSplit2       float64
	MoMWindowMonths int
	MoMCut1Pct      float64
	MoMCut2Pct      float64
	MoMRecentWeight float64
	MoMMidWeight    float64
	MoMFarWeight    float64
}

// Params converts the configured defaults into engine policy parameters.
func (d PolicyConfig) Params() domain.PolicyParams {
	return domain.PolicyParams{
		SafetyStockMonths: d.SafetyStockMonths,
		CycleMonths:       d.CycleMonths,
		LeadTimeDays:      d.LeadTimeDays,
		MinOrderQty:       d.MinOrderQty,
		OrderUnit:         d.OrderUnit,
		RatioAdjustPct:    d.RatioAdjustPct,
		Benchmark: domain.BenchmarkConfig{
			Type:            domain.BenchmarkType(d.BenchmarkType),
			YoYYears:        d.YoYYears,
			YoYSplit1:       d.YoYSplit1,
			YoYSplit2:       d.YoYSplit2,
			MoMWindowMonths: d.MoMWindowMonths,
			MoMCut1Pct:      d.MoMCut1Pct,
			MoMCut2Pct:      d.MoMCut2Pct,
			MoMRecentWeight: d.MoMRecentWeight,
			MoMMidWeight:    d.MoMMidWeight,
			MoMFarWeight:    d.MoMFarWeight,
		},
	}.Normalized()
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "replenish")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PLAN_TTL_SECONDS", 300)
		viper.SetDefault("ARCHIVE_ENABLED", false)
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_BUCKET", "replenish-runs")
		viper.SetDefault("ARCHIVE_REGION", "us-east-1")
		viper.SetDefault("ARCHIVE_USE_SSL", true)
		viper.SetDefault("POLICY_SAFETY_STOCK_MONTHS", 1)
		viper.SetDefault("POLICY_CYCLE_MONTHS", 1)
		viper.SetDefault("POLICY_LEAD_TIME_DAYS", 14)
		viper.SetDefault("POLICY_MIN_ORDER_QTY", 0)
		viper.SetDefault("POLICY_ORDER_UNIT", 1)
		viper.SetDefault("POLICY_RATIO_ADJUST_PCT", 0.0)
		viper.SetDefault("POLICY_BENCHMARK_TYPE", "mom")
		viper.SetDefault("POLICY_YOY_YEARS", 1)
		viper.SetDefault("POLICY_YOY_SPLIT1", 50.0)
		viper.SetDefault("POLICY_YOY_SPLIT2", 80.0)
		viper.SetDefault("POLICY_MOM_WINDOW_MONTHS", 6)
		viper.SetDefault("POLICY_MOM_CUT1_PCT", 33.0)
		viper.SetDefault("POLICY_MOM_CUT2_PCT", 66.0)
		viper.SetDefault("POLICY_MOM_RECENT_WEIGHT", 0.5)
		viper.SetDefault("POLICY_MOM_MID_WEIGHT", 0.3)
		viper.SetDefault("POLICY_MOM_FAR_WEIGHT", 0.2)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				PlanTTLSecond: viper.GetInt("CACHE_PLAN_TTL_SECONDS"),
			},
			Archive: ArchiveConfig{
				Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				Region:    viper.GetString("ARCHIVE_REGION"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
			Policy: PolicyConfig{
				SafetyStockMonths: viper.GetInt("POLICY_SAFETY_STOCK_MONTHS"),
				CycleMonths:       viper.GetInt("POLICY_CYCLE_MONTHS"),
				LeadTimeDays:      viper.GetInt("POLICY_LEAD_TIME_DAYS"),
				MinOrderQty:       viper.GetInt("POLICY_MIN_ORDER_QTY"),
				OrderUnit:         viper.GetInt("POLICY_ORDER_UNIT"),
				RatioAdjustPct:    viper.GetFloat64("POLICY_RATIO_ADJUST_PCT"),
				BenchmarkType:     viper.GetString("POLICY_BENCHMARK_TYPE"),
				YoYYears:          viper.GetInt("POLICY_YOY_YEARS"),
				YoYSplit1:         viper.GetFloat64("POLICY_YOY_SPLIT1"),
				YoYSplit2:         viper.GetFloat64("POLICY_YOY_SPLIT2"),
				MoMWindowMonths:   viper.GetInt("POLICY_MOM_WINDOW_MONTHS"),
				MoMCut1Pct:        viper.GetFloat64("POLICY_MOM_CUT1_PCT"),
				MoMCut2Pct:        viper.GetFloat64("POLICY_MOM_CUT2_PCT"),
				MoMRecentWeight:   viper.GetFloat64("POLICY_MOM_RECENT_WEIGHT"),
				MoMMidWeight:      viper.GetFloat64("POLICY_MOM_MID_WEIGHT"),
				MoMFarWeight:      viper.GetFloat64("POLICY_MOM_FAR_WEIGHT"),
			},
		}
	})

	return instance
}
