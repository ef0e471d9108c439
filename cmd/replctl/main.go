package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/replenwise/replenish/internal/batch"
	"github.com/replenwise/replenish/internal/cache"
	"github.com/replenwise/replenish/internal/config"
	"github.com/replenwise/replenish/internal/domain"
	"github.com/replenwise/replenish/internal/repository/postgres"
	"github.com/replenwise/replenish/internal/service"
	"github.com/replenwise/replenish/internal/storage"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newSKUFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "sku",
		Usage:    "SKU to plan for",
		Required: true,
	}
}

func newTodayFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "today",
		Usage: "Reference date (YYYY-MM-DD, defaults to the current date)",
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "replctl",
		Usage: "Replenishment planning from the command line",
		Commands: []*cli.Command{
			{
				Name:  "advice",
				Usage: "Print the reorder advice for a SKU",
				Flags: []cli.Flag{newDBURLFlag(), newSKUFlag(), newTodayFlag()},
				Action: func(c *cli.Context) error {
					svc, today, cleanup, err := setup(c)
					if err != nil {
						return err
					}
					defer cleanup()

					advice, err := svc.Advice(c.Context, c.String("sku"), today, defaultPolicy())
					if err != nil {
						return err
					}
					return printJSON(advice)
				},
			},
			{
				Name:  "grid",
				Usage: "Print the per-day demand grid for a SKU",
				Flags: []cli.Flag{
					newDBURLFlag(), newSKUFlag(), newTodayFlag(),
					&cli.IntFlag{
						Name:  "months",
						Usage: "Number of months to include",
						Value: 12,
					},
				},
				Action: func(c *cli.Context) error {
					svc, today, cleanup, err := setup(c)
					if err != nil {
						return err
					}
					defer cleanup()

					grid, err := svc.Grid(c.Context, c.String("sku"), today, defaultPolicy(), c.Int("months"))
					if err != nil {
						return err
					}
					return printJSON(grid)
				},
			},
			{
				Name:  "simulate",
				Usage: "Run the one-year rolling simulation for a SKU",
				Flags: []cli.Flag{
					newDBURLFlag(), newSKUFlag(), newTodayFlag(),
					&cli.BoolFlag{
						Name:  "archive",
						Usage: "Store the finished run in the object archive",
					},
				},
				Action: func(c *cli.Context) error {
					svc, today, cleanup, err := setup(c)
					if err != nil {
						return err
					}
					defer cleanup()

					sku := c.String("sku")
					days, err := svc.Simulate(c.Context, sku, today, defaultPolicy())
					if err != nil {
						return err
					}

					if c.Bool("archive") {
						key, err := svc.ArchiveSimulation(c.Context, sku, today, days)
						if err != nil {
							return fmt.Errorf("archive failed: %w", err)
						}
						log.Printf("run archived as %s", key)
					}

					return printJSON(days)
				},
			},
			{
				Name:  "batch",
				Usage: "Compute reorder advice for many SKUs at once",
				Flags: []cli.Flag{
					newDBURLFlag(), newTodayFlag(),
					&cli.StringFlag{
						Name:  "skus",
						Usage: "Comma-separated SKU list",
					},
					&cli.StringFlag{
						Name:  "skus-file",
						Usage: "File with one SKU per line",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent workers",
						Value: 4,
					},
				},
				Action: func(c *cli.Context) error {
					skus, err := collectSKUs(c)
					if err != nil {
						return err
					}
					if len(skus) == 0 {
						return fmt.Errorf("no SKUs given, use --skus or --skus-file")
					}

					svc, today, cleanup, err := setup(c)
					if err != nil {
						return err
					}
					defer cleanup()

					runner := batch.NewRunner(svc, c.Int("workers"))
					return printJSON(runner.Run(c.Context, skus, today, defaultPolicy()))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) (*service.PlanService, time.Time, func(), error) {
	db, err := sqlx.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, time.Time{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, time.Time{}, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	today := domain.Day(time.Now())
	if raw := c.String("today"); raw != "" {
		parsed, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			db.Close()
			return nil, time.Time{}, nil, fmt.Errorf("invalid today date %q: %w", raw, err)
		}
		today = parsed
	}

	cfg := config.Load()

	var archive storage.RunArchive
	if cfg.Archive.Enabled {
		archive, err = storage.NewMinioArchive(cfg.Archive)
		if err != nil {
			db.Close()
			return nil, time.Time{}, nil, err
		}
	}

	svc := service.NewPlanService(postgres.NewDemandRepository(db), cache.NewNoopPlanCache(), archive)
	return svc, today, func() { db.Close() }, nil
}

func defaultPolicy() domain.PolicyParams {
	return config.Load().Policy.Params()
}

func collectSKUs(c *cli.Context) ([]string, error) {
	var skus []string
	for _, part := range strings.Split(c.String("skus"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			skus = append(skus, part)
		}
	}

	if path := c.String("skus-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read skus file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				skus = append(skus, line)
			}
		}
	}

	return skus, nil
}

func printJSON(v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}
