package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/replenwise/replenish/internal/cache"
	"github.com/replenwise/replenish/internal/domain"
	"github.com/replenwise/replenish/internal/engine"
	"github.com/replenwise/replenish/internal/repository"
	"github.com/replenwise/replenish/internal/storage"
	"github.com/rs/zerolog/log"
)

// PlanService assembles engine inputs from the repository and serves the
// planning views: reorder advice, the demand grid and the rolling simulation.
type PlanService struct {
	repo    repository.DemandRepository
	cache   cache.PlanCache
	archive storage.RunArchive
}

func NewPlanService(repo repository.DemandRepository, cacheImpl cache.PlanCache, archive storage.RunArchive) *PlanService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPlanCache()
	}
	return &PlanService{repo: repo, cache: cacheImpl, archive: archive}
}

// ResolvePolicy merges the supplier tier lead time into the policy. The
// selected tier wins; the configured lead time is only the fallback.
func (s *PlanService) ResolvePolicy(ctx context.Context, sku string, p domain.PolicyParams) (domain.PolicyParams, error) {
	tiers, err := s.repo.GetSupplierTiers(ctx, sku)
	if err != nil {
		return p, err
	}
	p.LeadTimeDays = domain.LeadTimeFromTiers(tiers, p.LeadTimeDays)
	return p.Normalized(), nil
}

func (s *PlanService) buildResolver(ctx context.Context, sku string, today time.Time, p domain.PolicyParams) (*engine.Resolver, error) {
	daily, err := s.repo.GetDailyActuals(ctx, sku)
	if err != nil {
		return nil, err
	}
	monthly, err := s.repo.GetMonthlyActuals(ctx, sku)
	if err != nil {
		return nil, err
	}
	overrides, err := s.repo.GetForecastOverrides(ctx, sku)
	if err != nil {
		return nil, err
	}
	factors, err := s.repo.GetWeekdayFactors(ctx, sku)
	if err != nil {
		return nil, err
	}

	return engine.NewResolver(today, engine.Inputs{
		DailyActuals:   daily,
		MonthlyActuals: monthly,
		Overrides:      overrides,
		WeekdayFactors: factors,
		Benchmark:      p.Benchmark,
		RatioAdjustPct: p.RatioAdjustPct,
	}), nil
}

// Advice returns the reorder recommendation for one SKU at the given
// reference date.
func (s *PlanService) Advice(ctx context.Context, sku string, today time.Time, p domain.PolicyParams) (*domain.ReorderAdvice, error) {
	p, err := s.ResolvePolicy(ctx, sku, p)
	if err != nil {
		return nil, err
	}

	key := planKey(sku, today, p)
	if advice, ok, err := s.cache.GetAdvice(ctx, key); err == nil && ok {
		return advice, nil
	} else if err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("plan: cache get advice failed")
	}

	resolver, err := s.buildResolver(ctx, sku, today, p)
	if err != nil {
		return nil, err
	}

	kpi, err := s.repo.GetKPISnapshot(ctx, sku)
	if err != nil {
		return nil, err
	}

	advice := engine.EvaluateReorder(resolver, today, p, engine.StockPosition{
		OnHand:    kpi.OnHand,
		InTransit: kpi.InTransitTotal,
		Backlog:   kpi.Backlog,
	})
	advice.SKU = sku

	if err := s.cache.SetAdvice(ctx, key, &advice); err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("plan: cache set advice failed")
	}

	return &advice, nil
}

// Grid returns the per-day demand grid over the given number of months,
// starting with the reference month.
func (s *PlanService) Grid(ctx context.Context, sku string, today time.Time, p domain.PolicyParams, months int) (*domain.DemandGrid, error) {
	if months <= 0 {
		months = 12
	}

	p, err := s.ResolvePolicy(ctx, sku, p)
	if err != nil {
		return nil, err
	}

	resolver, err := s.buildResolver(ctx, sku, today, p)
	if err != nil {
		return nil, err
	}

	grid := &domain.DemandGrid{
		SKU:    sku,
		AsOf:   resolver.Today(),
		Months: make([]domain.GridMonth, 0, months),
	}

	month := domain.YearMonthOf(resolver.Today())
	for i := 0; i < months; i++ {
		m := month.AddMonths(i)
		gm := domain.GridMonth{
			Month: m,
			Total: resolver.MonthTotal(m),
			Days:  make([]domain.DayValue, 0, m.Days()),
		}
		for d := m.First(); domain.YearMonthOf(d) == m; d = d.AddDate(0, 0, 1) {
			gm.Days = append(gm.Days, resolver.DayValue(d))
		}
		grid.Months = append(grid.Months, gm)
	}

	return grid, nil
}

// MonthTotals returns only the selected monthly totals with their traces,
// without the per-day breakdown.
func (s *PlanService) MonthTotals(ctx context.Context, sku string, today time.Time, p domain.PolicyParams, months int) ([]domain.GridMonth, error) {
	if months <= 0 {
		months = 12
	}

	p, err := s.ResolvePolicy(ctx, sku, p)
	if err != nil {
		return nil, err
	}

	resolver, err := s.buildResolver(ctx, sku, today, p)
	if err != nil {
		return nil, err
	}

	month := domain.YearMonthOf(resolver.Today())
	totals := make([]domain.GridMonth, 0, months)
	for i := 0; i < months; i++ {
		m := month.AddMonths(i)
		totals = append(totals, domain.GridMonth{
			Month: m,
			Total: resolver.MonthTotal(m),
		})
	}

	return totals, nil
}

// Simulate runs the one-year rolling projection for one SKU.
func (s *PlanService) Simulate(ctx context.Context, sku string, today time.Time, p domain.PolicyParams) ([]domain.DaySnapshot, error) {
	p, err := s.ResolvePolicy(ctx, sku, p)
	if err != nil {
		return nil, err
	}

	key := planKey(sku, today, p)
	if days, ok, err := s.cache.GetSimulation(ctx, key); err == nil && ok {
		return days, nil
	} else if err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("plan: cache get simulation failed")
	}

	resolver, err := s.buildResolver(ctx, sku, today, p)
	if err != nil {
		return nil, err
	}

	kpi, err := s.repo.GetKPISnapshot(ctx, sku)
	if err != nil {
		return nil, err
	}

	days := engine.NewSimulator(resolver, p).Run(*kpi)

	if err := s.cache.SetSimulation(ctx, key, days); err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("plan: cache set simulation failed")
	}

	return days, nil
}

// ArchiveSimulation stores a finished run in the object archive under
// runs/<sku>/<date>.json and returns the object key.
func (s *PlanService) ArchiveSimulation(ctx context.Context, sku string, today time.Time, days []domain.DaySnapshot) (string, error) {
	if s.archive == nil {
		return "", fmt.Errorf("run archive is not configured")
	}

	payload, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encode simulation run: %w", err)
	}

	key := fmt.Sprintf("runs/%s/%s.json", sku, domain.Day(today).Format(domain.DateLayout))
	if err := s.archive.PutRun(ctx, key, payload); err != nil {
		return "", err
	}

	log.Info().Str("sku", sku).Str("key", key).Msg("plan: simulation run archived")
	return key, nil
}

func planKey(sku string, today time.Time, p domain.PolicyParams) cache.PlanKey {
	return cache.PlanKey{
		SKU:    sku,
		Today:  domain.Day(today).Format(domain.DateLayout),
		Policy: p,
	}
}
