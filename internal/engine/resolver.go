package engine

import (
	"math"
	"time"

	"github.com/replenwise/replenish/internal/domain"
)

// Inputs is the read-only data a planning run works from. Everything is
// supplied up front; the engine never reads the clock or touches I/O.
type Inputs struct {
	DailyActuals   map[string]int // keyed by domain.DateLayout
	MonthlyActuals map[domain.YearMonth]int
	Overrides      map[domain.YearMonth]int
	WeekdayFactors []float64
	Benchmark      domain.BenchmarkConfig
	RatioAdjustPct float64
}

// Resolver turns a calendar date into an effective demand quantity with its
// provenance, blending recorded actuals with forecast totals split by the
// weekday table. One resolver serves the grid, the advice calculation and
// the simulation for the same reference date, so the three views agree.
type Resolver struct {
	today     time.Time
	daily     map[string]int
	monthly   map[domain.YearMonth]int
	selector  *TotalSelector
	factors   WeekdayFactors
	hasDetail map[domain.YearMonth]bool
	weights   map[domain.YearMonth]float64
	totals    map[domain.YearMonth]domain.MonthTotal
}

// NewResolver builds a resolver anchored on an explicit reference date.
func NewResolver(today time.Time, in Inputs) *Resolver {
	daily := in.DailyActuals
	if daily == nil {
		daily = map[string]int{}
	}
	monthly := in.MonthlyActuals
	if monthly == nil {
		monthly = map[domain.YearMonth]int{}
	}

	hasDetail := make(map[domain.YearMonth]bool, len(daily)/20+1)
	for key := range daily {
		if t, err := time.Parse(domain.DateLayout, key); err == nil {
			hasDetail[domain.YearMonthOf(t)] = true
		}
	}

	return &Resolver{
		today:     domain.Day(today),
		daily:     daily,
		monthly:   monthly,
		selector:  NewTotalSelector(today, monthly, in.Overrides, in.Benchmark, in.RatioAdjustPct),
		factors:   NormalizeWeekdayFactors(in.WeekdayFactors),
		hasDetail: hasDetail,
		weights:   map[domain.YearMonth]float64{},
		totals:    map[domain.YearMonth]domain.MonthTotal{},
	}
}

// Today returns the resolver's reference date.
func (r *Resolver) Today() time.Time { return r.today }

// MonthTotal returns the selected forecast total for a month with its trace.
func (r *Resolver) MonthTotal(m domain.YearMonth) domain.MonthTotal {
	if t, ok := r.totals[m]; ok {
		return t
	}
	t := r.selector.Total(m)
	r.totals[m] = t
	return t
}

func (r *Resolver) monthWeight(m domain.YearMonth) float64 {
	if w, ok := r.weights[m]; ok {
		return w
	}
	w := r.factors.MonthWeight(m)
	r.weights[m] = w
	return w
}

// DayValue resolves one calendar day.
//
// History days use the recorded actual when one exists. A month with no
// daily detail at all reconstructs each day's share from the monthly actual
// total; a month with partial detail returns 0 for its missing days so days
// that do have records are not double counted. Future days use the weekday
// split of the forecast total, and the reference day itself is the larger of
// actual-so-far and forecast.
func (r *Resolver) DayValue(date time.Time) domain.DayValue {
	date = domain.Day(date)
	m := domain.YearMonthOf(date)
	weight := r.factors.For(date)
	totalWeights := r.monthWeight(m)
	monthTotal := r.MonthTotal(m)

	forecast := splitShare(monthTotal.Value, weight, totalWeights, m.Days())

	dv := domain.DayValue{
		Date:         date,
		MonthTotal:   monthTotal.Value,
		Weight:       weight,
		TotalWeights: totalWeights,
	}

	actual, hasActual := r.daily[date.Format(domain.DateLayout)]

	switch {
	case date.Before(r.today):
		dv.Provenance = domain.ProvenanceActual
		switch {
		case hasActual:
			dv.Value = actual
		case !r.hasDetail[m]:
			if act := r.monthly[m]; act != 0 {
				dv.Value = splitShare(float64(act), weight, totalWeights, m.Days())
			}
		}
	case date.After(r.today):
		dv.Provenance = domain.ProvenanceForecast
		dv.Value = forecast
	default:
		dv.Provenance = domain.ProvenanceMix
		dv.Value = max(actual, forecast)
	}

	return dv
}

// splitShare apportions a monthly total to one day by weekday weight,
// falling back to an even split when the weight table sums to zero.
func splitShare(total, weight, totalWeights float64, daysInMonth int) int {
	if totalWeights > 0 {
		return int(math.Round(total * weight / totalWeights))
	}
	if daysInMonth <= 0 {
		return 0
	}
	return int(math.Round(total / float64(daysInMonth)))
}

// SumRange aggregates resolved day values over [start, end) in date order.
// A degenerate range sums to zero.
func (r *Resolver) SumRange(start, end time.Time) int {
	total := 0
	for d := domain.Day(start); d.Before(domain.Day(end)); d = d.AddDate(0, 0, 1) {
		total += r.DayValue(d).Value
	}
	return total
}
