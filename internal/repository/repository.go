package repository

import (
	"context"

	"github.com/replenwise/replenish/internal/domain"
)

// DemandRepository loads the read-only inputs the planning engine works
// from. Every lookup is scoped to one SKU; the engine never writes back.
type DemandRepository interface {
	// GetDailyActuals returns recorded daily sales keyed by date string
	// (domain.DateLayout). Sparse: missing days carry no information.
	GetDailyActuals(ctx context.Context, sku string) (map[string]int, error)

	// GetMonthlyActuals returns the independent monthly totals, which may
	// disagree with the daily records when detail is incomplete.
	GetMonthlyActuals(ctx context.Context, sku string) (map[domain.YearMonth]int, error)

	// GetForecastOverrides returns the manual monthly forecast overrides.
	GetForecastOverrides(ctx context.Context, sku string) (map[domain.YearMonth]int, error)

	// GetWeekdayFactors returns the 7-entry Monday-first factor vector, or
	// nil when none is configured for the SKU.
	GetWeekdayFactors(ctx context.Context, sku string) ([]float64, error)

	// GetSupplierTiers returns the supplier price tiers; the selected one
	// carries the lead time used for calculations.
	GetSupplierTiers(ctx context.Context, sku string) ([]domain.SupplierTier, error)

	// GetKPISnapshot returns the current stock position including inbound
	// batches. A missing snapshot comes back as an empty position, not an
	// error.
	GetKPISnapshot(ctx context.Context, sku string) (*domain.KPISnapshot, error)
}
