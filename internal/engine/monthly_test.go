package engine

import (
	"testing"
	"time"

	"github.com/replenwise/replenish/internal/domain"
	"github.com/stretchr/testify/assert"
)

func ym(y int, m time.Month) domain.YearMonth {
	return domain.YearMonth{Year: y, Month: m}
}

func TestTotalSelectorOverrideWinsRegardlessOfBenchmark(t *testing.T) {
	actuals := map[domain.YearMonth]int{ym(2024, 7): 1000, ym(2023, 7): 500}
	overrides := map[domain.YearMonth]int{ym(2025, 7): 1234}
	cfg := domain.BenchmarkConfig{Type: domain.BenchmarkYearOverYear, YoYYears: 2, YoYSplit1: 60}

	// Ratio adjustment must not touch the override either.
	sel := NewTotalSelector(date(2025, 6, 10), actuals, overrides, cfg, 25)

	got := sel.Total(ym(2025, 7))
	assert.Equal(t, 1234.0, got.Value)
	assert.Equal(t, "override", got.Trace)
}

func TestTotalSelectorYearOverYear(t *testing.T) {
	actuals := map[domain.YearMonth]int{ym(2024, 7): 1000, ym(2023, 7): 500}
	cfg := domain.BenchmarkConfig{Type: domain.BenchmarkYearOverYear, YoYYears: 2, YoYSplit1: 60}
	sel := NewTotalSelector(date(2025, 6, 10), actuals, nil, cfg, 0)

	got := sel.Total(ym(2025, 7))
	assert.InDelta(t, 0.6*1000+0.4*500, got.Value, 1e-9)
	assert.Contains(t, got.Trace, "yoy")
}

func TestTotalSelectorYoYThreeYearWeights(t *testing.T) {
	got := yoyWeights(domain.BenchmarkConfig{YoYYears: 3, YoYSplit1: 50, YoYSplit2: 80})
	assert.InDelta(t, 0.5, got[0], 1e-9)
	assert.InDelta(t, 0.3, got[1], 1e-9)
	assert.InDelta(t, 0.2, got[2], 1e-9)

	sum := got[0] + got[1] + got[2]
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestTotalSelectorMonthOverMonth(t *testing.T) {
	// Window of six months counted back from the real today (June 2025),
	// cut at 33% and 66%: recent = May+Apr, mid = Mar+Feb, far = Jan+Dec.
	actuals := map[domain.YearMonth]int{
		ym(2025, 5): 300, ym(2025, 4): 200,
		ym(2025, 3): 100, ym(2025, 2): 100,
		ym(2025, 1): 50, ym(2024, 12): 150,
	}
	cfg := domain.BenchmarkConfig{
		Type:            domain.BenchmarkMonthOverMonth,
		MoMWindowMonths: 6,
		MoMCut1Pct:      33,
		MoMCut2Pct:      66,
		MoMRecentWeight: 0.5,
		MoMMidWeight:    0.3,
		MoMFarWeight:    0.2,
	}
	sel := NewTotalSelector(date(2025, 6, 10), actuals, nil, cfg, 0)

	// The calculated value is anchored on today, not the month asked for.
	for _, month := range []domain.YearMonth{ym(2025, 7), ym(2025, 9)} {
		got := sel.Total(month)
		assert.InDelta(t, 250*0.5+100*0.3+100*0.2, got.Value, 1e-9, "month %s", month)
		assert.Contains(t, got.Trace, "mom")
	}
}

func TestTotalSelectorMonthOverMonthSkipsEmptySlice(t *testing.T) {
	// Cut point at 0% leaves the recent slice empty; its weight must not
	// dilute the remaining slices.
	actuals := map[domain.YearMonth]int{
		ym(2025, 5): 300, ym(2025, 4): 200,
		ym(2025, 3): 100, ym(2025, 2): 100,
	}
	cfg := domain.BenchmarkConfig{
		Type:            domain.BenchmarkMonthOverMonth,
		MoMWindowMonths: 4,
		MoMCut1Pct:      0,
		MoMCut2Pct:      50,
		MoMRecentWeight: 0.5,
		MoMMidWeight:    0.3,
		MoMFarWeight:    0.2,
	}
	sel := NewTotalSelector(date(2025, 6, 10), actuals, nil, cfg, 0)

	got := sel.Total(ym(2025, 7))
	assert.InDelta(t, (250*0.3+100*0.2)/0.5, got.Value, 1e-9)
}

func TestTotalSelectorRatioAdjustsComputedValue(t *testing.T) {
	actuals := map[domain.YearMonth]int{ym(2024, 7): 1000, ym(2023, 7): 500}
	cfg := domain.BenchmarkConfig{Type: domain.BenchmarkYearOverYear, YoYYears: 2, YoYSplit1: 60}
	sel := NewTotalSelector(date(2025, 6, 10), actuals, nil, cfg, 10)

	got := sel.Total(ym(2025, 7))
	assert.InDelta(t, 800*1.1, got.Value, 1e-9)
	assert.Contains(t, got.Trace, "ratio")
}

func TestTotalSelectorFallsBackToActualTotal(t *testing.T) {
	actuals := map[domain.YearMonth]int{ym(2025, 5): 300}
	sel := NewTotalSelector(date(2025, 6, 10), actuals, nil, domain.BenchmarkConfig{}, 0)

	got := sel.Total(ym(2025, 5))
	assert.Equal(t, 300.0, got.Value)
	assert.Contains(t, got.Trace, "actual total")
}

func TestTotalSelectorFlatRateFallback(t *testing.T) {
	// May+Apr+Mar total 920 over 92 days: 10/day, so August projects 310.
	actuals := map[domain.YearMonth]int{
		ym(2025, 5): 310, ym(2025, 4): 300, ym(2025, 3): 310,
	}
	sel := NewTotalSelector(date(2025, 6, 10), actuals, nil, domain.BenchmarkConfig{}, 0)

	got := sel.Total(ym(2025, 8))
	assert.InDelta(t, 310.0, got.Value, 1e-9)
	assert.Contains(t, got.Trace, "fallback")
}

func TestTotalSelectorNoDataDegradesToZero(t *testing.T) {
	sel := NewTotalSelector(date(2025, 6, 10), nil, nil, domain.BenchmarkConfig{}, 0)

	got := sel.Total(ym(2025, 8))
	assert.Equal(t, 0.0, got.Value)
}
