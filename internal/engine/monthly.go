package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/replenwise/replenish/internal/domain"
)

// TotalSelector picks the authoritative forecast total for a month. The
// precedence is fixed: manual override, then the benchmark-calculated value,
// then the fallback. Every result carries a derivation trace so the UI can
// explain where a number came from.
type TotalSelector struct {
	today     time.Time
	actuals   map[domain.YearMonth]int
	overrides map[domain.YearMonth]int
	cfg       domain.BenchmarkConfig
	ratioPct  float64
}

// NewTotalSelector builds a selector over read-only monthly data. The ratio
// adjustment applies to computed values only, never to overrides.
func NewTotalSelector(today time.Time, actuals, overrides map[domain.YearMonth]int, cfg domain.BenchmarkConfig, ratioPct float64) *TotalSelector {
	if actuals == nil {
		actuals = map[domain.YearMonth]int{}
	}
	if overrides == nil {
		overrides = map[domain.YearMonth]int{}
	}
	return &TotalSelector{
		today:     domain.Day(today),
		actuals:   actuals,
		overrides: overrides,
		cfg:       cfg,
		ratioPct:  ratioPct,
	}
}

// Total returns the selected monthly total and its trace.
func (s *TotalSelector) Total(m domain.YearMonth) domain.MonthTotal {
	if v, ok := s.overrides[m]; ok {
		return domain.MonthTotal{Value: float64(v), Trace: "override"}
	}

	if v, trace, ok := s.benchmark(m); ok {
		return s.adjusted(v, trace)
	}

	if v, ok := s.actuals[m]; ok {
		return s.adjusted(float64(v), fmt.Sprintf("actual total %d", v))
	}

	rate := s.recentDailyRate()
	return s.adjusted(rate*float64(m.Days()), fmt.Sprintf("fallback %.2f/day x %d days", rate, m.Days()))
}

func (s *TotalSelector) adjusted(v float64, trace string) domain.MonthTotal {
	if s.ratioPct != 0 {
		v *= 1 + s.ratioPct/100
		trace += fmt.Sprintf(", ratio %+.1f%%", s.ratioPct)
	}
	return domain.MonthTotal{Value: v, Trace: trace}
}

func (s *TotalSelector) benchmark(m domain.YearMonth) (float64, string, bool) {
	switch s.cfg.Type {
	case domain.BenchmarkYearOverYear:
		return s.yearOverYear(m)
	case domain.BenchmarkMonthOverMonth:
		return s.monthOverMonth()
	}
	return 0, "", false
}

// yearOverYear blends the same calendar month of 1-3 prior years. Prior
// years with no recorded total simply do not contribute; when none of them
// have data the benchmark yields nothing and selection falls through.
func (s *TotalSelector) yearOverYear(m domain.YearMonth) (float64, string, bool) {
	weights := yoyWeights(s.cfg)

	value := 0.0
	parts := make([]string, 0, len(weights))
	for i, w := range weights {
		prior := domain.YearMonth{Year: m.Year - (i + 1), Month: m.Month}
		act, ok := s.actuals[prior]
		if !ok {
			continue
		}
		value += float64(act) * w
		parts = append(parts, fmt.Sprintf("%s x %.2f", prior, w))
	}

	if len(parts) == 0 {
		return 0, "", false
	}
	return value, "yoy " + strings.Join(parts, " + "), true
}

// yoyWeights converts the cumulative split points into per-year weights.
// One year is weight 1.0; two years split at Split1; three years split at
// Split1 and Split2 producing three weights summing to 1.0.
func yoyWeights(cfg domain.BenchmarkConfig) []float64 {
	years := cfg.YoYYears
	if years < 1 {
		years = 1
	}
	if years > 3 {
		years = 3
	}

	s1 := clampPct(cfg.YoYSplit1) / 100
	s2 := clampPct(cfg.YoYSplit2) / 100
	if s2 < s1 {
		s1, s2 = s2, s1
	}

	switch years {
	case 2:
		return []float64{s1, 1 - s1}
	case 3:
		return []float64{s1, s2 - s1, 1 - s2}
	}
	return []float64{1}
}

// monthOverMonth averages a trailing window of actual months counted
// backward from the real today, cut into recent/mid/far slices. The window
// is anchored on today on purpose: the same calculated value feeds every
// forecast month until new actuals land.
func (s *TotalSelector) monthOverMonth() (float64, string, bool) {
	n := s.cfg.MoMWindowMonths
	if n <= 0 {
		return 0, "", false
	}

	cur := domain.YearMonthOf(s.today)
	c1 := cutMonths(s.cfg.MoMCut1Pct, n)
	c2 := cutMonths(s.cfg.MoMCut2Pct, n)
	if c2 < c1 {
		c1, c2 = c2, c1
	}

	slices := []struct {
		name   string
		from   int // offset into the window, 0 = last month
		to     int
		weight float64
	}{
		{"recent", 0, c1, s.cfg.MoMRecentWeight},
		{"mid", c1, c2, s.cfg.MoMMidWeight},
		{"far", c2, n, s.cfg.MoMFarWeight},
	}

	value := 0.0
	weightSum := 0.0
	parts := make([]string, 0, 3)
	for _, sl := range slices {
		if sl.to <= sl.from {
			continue
		}
		sum, count := 0, 0
		for off := sl.from; off < sl.to; off++ {
			if act, ok := s.actuals[cur.AddMonths(-(off + 1))]; ok {
				sum += act
				count++
			}
		}
		if count == 0 {
			continue
		}
		avg := float64(sum) / float64(count)
		value += avg * sl.weight
		weightSum += sl.weight
		parts = append(parts, fmt.Sprintf("%s avg %.1f x %.2f", sl.name, avg, sl.weight))
	}

	if weightSum == 0 {
		return 0, "", false
	}
	return value / weightSum, "mom " + strings.Join(parts, ", "), true
}

// cutMonths turns a percentage cut point over the window into a whole-month
// offset. A cut at 0 or at the window length leaves an empty slice, which is
// then skipped.
func cutMonths(pct float64, n int) int {
	c := int(math.Round(float64(n) * clampPct(pct) / 100))
	if c < 0 {
		return 0
	}
	if c > n {
		return n
	}
	return c
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// recentDailyRate is the flat fallback rate: average daily quantity over the
// most recent three months (before the current one) that have actual totals.
func (s *TotalSelector) recentDailyRate() float64 {
	cur := domain.YearMonthOf(s.today)
	qty, days, found := 0, 0, 0
	for back := 1; back <= 12 && found < 3; back++ {
		m := cur.AddMonths(-back)
		if act, ok := s.actuals[m]; ok {
			qty += act
			days += m.Days()
			found++
		}
	}
	if days == 0 {
		return 0
	}
	return float64(qty) / float64(days)
}
