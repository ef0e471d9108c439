package service

import (
	"context"
	"testing"
	"time"

	"github.com/replenwise/replenish/internal/cache"
	"github.com/replenwise/replenish/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDemandRepo struct {
	daily     map[string]int
	monthly   map[domain.YearMonth]int
	overrides map[domain.YearMonth]int
	factors   []float64
	tiers     []domain.SupplierTier
	kpi       *domain.KPISnapshot
}

func (f *fakeDemandRepo) GetDailyActuals(ctx context.Context, sku string) (map[string]int, error) {
	return f.daily, nil
}

func (f *fakeDemandRepo) GetMonthlyActuals(ctx context.Context, sku string) (map[domain.YearMonth]int, error) {
	return f.monthly, nil
}

func (f *fakeDemandRepo) GetForecastOverrides(ctx context.Context, sku string) (map[domain.YearMonth]int, error) {
	return f.overrides, nil
}

func (f *fakeDemandRepo) GetWeekdayFactors(ctx context.Context, sku string) ([]float64, error) {
	return f.factors, nil
}

func (f *fakeDemandRepo) GetSupplierTiers(ctx context.Context, sku string) ([]domain.SupplierTier, error) {
	return f.tiers, nil
}

func (f *fakeDemandRepo) GetKPISnapshot(ctx context.Context, sku string) (*domain.KPISnapshot, error) {
	if f.kpi != nil {
		return f.kpi, nil
	}
	return &domain.KPISnapshot{SKU: sku}, nil
}

// flat 10 units/day via overrides, June 2025 through August 2026
func newFakeRepo() *fakeDemandRepo {
	overrides := map[domain.YearMonth]int{}
	start := domain.YearMonth{Year: 2025, Month: time.June}
	for i := 0; i < 15; i++ {
		m := start.AddMonths(i)
		overrides[m] = 10 * m.Days()
	}
	return &fakeDemandRepo{overrides: overrides}
}

func testPolicy() domain.PolicyParams {
	return domain.PolicyParams{
		SafetyStockMonths: 1,
		CycleMonths:       1,
		LeadTimeDays:      14,
		OrderUnit:         1,
	}.Normalized()
}

func testToday() time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

func TestAdviceUsesSelectedTierLeadTime(t *testing.T) {
	repo := newFakeRepo()
	repo.tiers = []domain.SupplierTier{
		{SupplierName: "bulk", LeadTimeDays: 30, IsSelected: false},
		{SupplierName: "express", LeadTimeDays: 5, IsSelected: true},
	}
	repo.kpi = &domain.KPISnapshot{SKU: "SKU-1", OnHand: 1000}

	svc := NewPlanService(repo, cache.NewNoopPlanCache(), nil)

	advice, err := svc.Advice(context.Background(), "SKU-1", testToday(), testPolicy())
	require.NoError(t, err)

	// The selected tier's 5-day lead wins over the configured 14.
	assert.Equal(t, 5, advice.Trace.LeadWindow.Days)
	assert.Equal(t, 300, advice.SafetyStock)
	assert.Equal(t, 350, advice.ReorderPoint)
	assert.Equal(t, 300, advice.TargetCycleDemand)
	assert.Equal(t, 0, advice.RestockQty)
	assert.Equal(t, "SKU-1", advice.SKU)
}

func TestAdviceTriggersOnEmptyPosition(t *testing.T) {
	repo := newFakeRepo()
	repo.kpi = &domain.KPISnapshot{SKU: "SKU-1"}

	svc := NewPlanService(repo, nil, nil)

	p := testPolicy()
	p.LeadTimeDays = 5
	advice, err := svc.Advice(context.Background(), "SKU-1", testToday(), p)
	require.NoError(t, err)

	assert.True(t, advice.Trace.Triggered)
	assert.Equal(t, 650, advice.RestockQty)
}

func TestGridMonthShape(t *testing.T) {
	svc := NewPlanService(newFakeRepo(), nil, nil)

	grid, err := svc.Grid(context.Background(), "SKU-1", testToday(), testPolicy(), 2)
	require.NoError(t, err)

	require.Len(t, grid.Months, 2)
	assert.Equal(t, domain.YearMonth{Year: 2025, Month: time.June}, grid.Months[0].Month)
	assert.Len(t, grid.Months[0].Days, 30)
	assert.Len(t, grid.Months[1].Days, 31)
	assert.Equal(t, 300.0, grid.Months[0].Total.Value)
	assert.Equal(t, "override", grid.Months[0].Total.Trace)

	for _, dv := range grid.Months[1].Days {
		assert.Equal(t, domain.ProvenanceForecast, dv.Provenance)
		assert.Equal(t, 10, dv.Value)
	}
}

func TestMonthTotalsSkipsDays(t *testing.T) {
	svc := NewPlanService(newFakeRepo(), nil, nil)

	totals, err := svc.MonthTotals(context.Background(), "SKU-1", testToday(), testPolicy(), 3)
	require.NoError(t, err)

	require.Len(t, totals, 3)
	for _, mt := range totals {
		assert.Empty(t, mt.Days)
		assert.Equal(t, "override", mt.Total.Trace)
	}
	assert.Equal(t, 310.0, totals[1].Total.Value)
}

func TestSimulateFullHorizon(t *testing.T) {
	repo := newFakeRepo()
	repo.kpi = &domain.KPISnapshot{SKU: "SKU-1", OnHand: 1000}

	svc := NewPlanService(repo, nil, nil)

	days, err := svc.Simulate(context.Background(), "SKU-1", testToday(), testPolicy())
	require.NoError(t, err)

	require.Len(t, days, 365)
	for _, day := range days {
		assert.GreaterOrEqual(t, day.Stock, 0)
		assert.GreaterOrEqual(t, day.Backlog, 0)
	}
}

// stubPlanCache serves a canned advice for every key.
type stubPlanCache struct {
	cache.PlanCache
	advice *domain.ReorderAdvice
}

func (s *stubPlanCache) GetAdvice(ctx context.Context, key cache.PlanKey) (*domain.ReorderAdvice, bool, error) {
	return s.advice, true, nil
}

func TestAdviceServedFromCache(t *testing.T) {
	canned := &domain.ReorderAdvice{SKU: "SKU-1", ReorderPoint: 42}
	svc := NewPlanService(newFakeRepo(), &stubPlanCache{PlanCache: cache.NewNoopPlanCache(), advice: canned}, nil)

	advice, err := svc.Advice(context.Background(), "SKU-1", testToday(), testPolicy())
	require.NoError(t, err)
	assert.Equal(t, canned, advice)
}
