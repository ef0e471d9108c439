package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/replenwise/replenish/internal/config"
	"github.com/replenwise/replenish/internal/domain"
)

const (
	planKeyPrefix     = "replenish:plan"
	planScanBatchSize = 100
)

// PlanKey identifies a cached planning result. Two requests share an
// entry only when the SKU, reference date and the full policy agree.
type PlanKey struct {
	SKU    string
	Today  string
	Policy domain.PolicyParams
}

type PlanCache interface {
	GetAdvice(ctx context.Context, key PlanKey) (*domain.ReorderAdvice, bool, error)
	SetAdvice(ctx context.Context, key PlanKey, advice *domain.ReorderAdvice) error
	GetSimulation(ctx context.Context, key PlanKey) ([]domain.DaySnapshot, bool, error)
	SetSimulation(ctx context.Context, key PlanKey, days []domain.DaySnapshot) error
	InvalidateAll(ctx context.Context) error
}

type redisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPlanCache struct{}

func NewPlanCache(cfg config.CacheConfig) (PlanCache, error) {
	if !cfg.Enabled {
		return &noopPlanCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPlanCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopPlanCache() PlanCache {
	return &noopPlanCache{}
}

func (c *redisPlanCache) GetAdvice(ctx context.Context, key PlanKey) (*domain.ReorderAdvice, bool, error) {
	payload, err := c.client.Get(ctx, buildPlanKey("advice", key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var advice domain.ReorderAdvice
	if err := json.Unmarshal(payload, &advice); err != nil {
		return nil, false, fmt.Errorf("decode advice cache: %w", err)
	}

	return &advice, true, nil
}

func (c *redisPlanCache) SetAdvice(ctx context.Context, key PlanKey, advice *domain.ReorderAdvice) error {
	payload, err := json.Marshal(advice)
	if err != nil {
		return fmt.Errorf("encode advice cache: %w", err)
	}

	if err := c.client.Set(ctx, buildPlanKey("advice", key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPlanCache) GetSimulation(ctx context.Context, key PlanKey) ([]domain.DaySnapshot, bool, error) {
	payload, err := c.client.Get(ctx, buildPlanKey("simulation", key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var days []domain.DaySnapshot
	if err := json.Unmarshal(payload, &days); err != nil {
		return nil, false, fmt.Errorf("decode simulation cache: %w", err)
	}

	return days, true, nil
}

func (c *redisPlanCache) SetSimulation(ctx context.Context, key PlanKey, days []domain.DaySnapshot) error {
	payload, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("encode simulation cache: %w", err)
	}

	if err := c.client.Set(ctx, buildPlanKey("simulation", key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPlanCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, planKeyPrefix, planScanBatchSize)
}

func (n *noopPlanCache) GetAdvice(ctx context.Context, key PlanKey) (*domain.ReorderAdvice, bool, error) {
	return nil, false, nil
}

func (n *noopPlanCache) SetAdvice(ctx context.Context, key PlanKey, advice *domain.ReorderAdvice) error {
	return nil
}

func (n *noopPlanCache) GetSimulation(ctx context.Context, key PlanKey) ([]domain.DaySnapshot, bool, error) {
	return nil, false, nil
}

func (n *noopPlanCache) SetSimulation(ctx context.Context, key PlanKey, days []domain.DaySnapshot) error {
	return nil
}

func (n *noopPlanCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildPlanKey(kind string, key PlanKey) string {
	return fmt.Sprintf("%s:%s:%s", planKeyPrefix, kind, planKeyHash(key))
}

func planKeyHash(key PlanKey) string {
	p := key.Policy
	raw := fmt.Sprintf("sku=%s|today=%s|ss=%d|cycle=%d|lead=%d|moq=%d|unit=%d|ratio=%.2f|bench=%s|yoy=%d,%.2f,%.2f|mom=%d,%.2f,%.2f,%.3f,%.3f,%.3f",
		key.SKU, key.Today,
		p.SafetyStockMonths, p.CycleMonths, p.LeadTimeDays, p.MinOrderQty, p.OrderUnit, p.RatioAdjustPct,
		p.Benchmark.Type,
		p.Benchmark.YoYYears, p.Benchmark.YoYSplit1, p.Benchmark.YoYSplit2,
		p.Benchmark.MoMWindowMonths, p.Benchmark.MoMCut1Pct, p.Benchmark.MoMCut2Pct,
		p.Benchmark.MoMRecentWeight, p.Benchmark.MoMMidWeight, p.Benchmark.MoMFarWeight)
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
