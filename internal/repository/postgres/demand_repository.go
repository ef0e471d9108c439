package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/replenwise/replenish/internal/domain"
	"github.com/replenwise/replenish/internal/repository"
)

type demandRepository struct {
	db *sqlx.DB
}

// NewDemandRepository returns the Postgres-backed demand data loader.
func NewDemandRepository(db *sqlx.DB) repository.DemandRepository {
	return &demandRepository{db: db}
}

func (r *demandRepository) GetDailyActuals(ctx context.Context, sku string) (map[string]int, error) {
	query := `
		SELECT sales_date, qty
		FROM daily_sales
		WHERE sku = $1
		ORDER BY sales_date
	`

	rows := []struct {
		SalesDate time.Time `db:"sales_date"`
		Qty       int       `db:"qty"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, sku); err != nil {
		return nil, fmt.Errorf("error getting daily actuals: %w", err)
	}

	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[domain.Day(row.SalesDate).Format(domain.DateLayout)] = row.Qty
	}
	return result, nil
}

func (r *demandRepository) GetMonthlyActuals(ctx context.Context, sku string) (map[domain.YearMonth]int, error) {
	return r.monthlyTotals(ctx, sku, `
		SELECT month_start, qty
		FROM monthly_sales
		WHERE sku = $1
	`)
}

func (r *demandRepository) GetForecastOverrides(ctx context.Context, sku string) (map[domain.YearMonth]int, error) {
	return r.monthlyTotals(ctx, sku, `
		SELECT month_start, qty
		FROM forecast_overrides
		WHERE sku = $1
	`)
}

func (r *demandRepository) monthlyTotals(ctx context.Context, sku, query string) (map[domain.YearMonth]int, error) {
	rows := []struct {
		MonthStart time.Time `db:"month_start"`
		Qty        int       `db:"qty"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, sku); err != nil {
		return nil, fmt.Errorf("error getting monthly totals: %w", err)
	}

	result := make(map[domain.YearMonth]int, len(rows))
	for _, row := range rows {
		result[domain.YearMonthOf(row.MonthStart)] = row.Qty
	}
	return result, nil
}

func (r *demandRepository) GetWeekdayFactors(ctx context.Context, sku string) ([]float64, error) {
	query := `
		SELECT factor
		FROM weekday_factors
		WHERE sku = $1
		ORDER BY position
	`

	var factors []float64
	if err := r.db.SelectContext(ctx, &factors, query, sku); err != nil {
		return nil, fmt.Errorf("error getting weekday factors: %w", err)
	}

	if len(factors) == 0 {
		return nil, nil
	}
	return factors, nil
}

func (r *demandRepository) GetSupplierTiers(ctx context.Context, sku string) ([]domain.SupplierTier, error) {
	query := `
		SELECT id, supplier_name, min_qty, unit_price, lead_time_days, is_selected
		FROM supplier_tiers
		WHERE sku = $1
		ORDER BY min_qty
	`

	var tiers []domain.SupplierTier
	if err := r.db.SelectContext(ctx, &tiers, query, sku); err != nil {
		return nil, fmt.Errorf("error getting supplier tiers: %w", err)
	}

	return tiers, nil
}

func (r *demandRepository) GetKPISnapshot(ctx context.Context, sku string) (*domain.KPISnapshot, error) {
	query := `
		SELECT as_of, on_hand, backlog
		FROM kpi_snapshots
		WHERE sku = $1
		ORDER BY as_of DESC
		LIMIT 1
	`

	snapshot := struct {
		AsOf    time.Time `db:"as_of"`
		OnHand  int       `db:"on_hand"`
		Backlog int       `db:"backlog"`
	}{}
	err := r.db.GetContext(ctx, &snapshot, query, sku)
	if errors.Is(err, sql.ErrNoRows) {
		// No snapshot yet: an empty position, never a failure.
		return &domain.KPISnapshot{SKU: sku}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting kpi snapshot: %w", err)
	}

	batchQuery := `
		SELECT arrival_date, qty, overdue
		FROM inbound_batches
		WHERE sku = $1 AND consumed = FALSE
		ORDER BY arrival_date
	`

	var batches []domain.InboundBatch
	if err := r.db.SelectContext(ctx, &batches, batchQuery, sku); err != nil {
		return nil, fmt.Errorf("error getting inbound batches: %w", err)
	}

	total := 0
	for _, b := range batches {
		total += b.Qty
	}

	return &domain.KPISnapshot{
		SKU:            sku,
		AsOf:           snapshot.AsOf,
		OnHand:         snapshot.OnHand,
		Backlog:        snapshot.Backlog,
		InTransitTotal: total,
		Inbound:        batches,
	}, nil
}
