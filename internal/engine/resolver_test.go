package engine

import (
	"testing"
	"time"

	"github.com/replenwise/replenish/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyRange(from time.Time, days, qty int) map[string]int {
	out := make(map[string]int, days)
	for i := 0; i < days; i++ {
		out[from.AddDate(0, 0, i).Format(domain.DateLayout)] = qty
	}
	return out
}

func TestDayValueHistoryUsesRecordedActual(t *testing.T) {
	in := Inputs{
		DailyActuals:   dailyRange(date(2025, 5, 1), 31, 5),
		MonthlyActuals: map[domain.YearMonth]int{ym(2025, 5): 155},
	}
	r := NewResolver(date(2025, 6, 15), in)

	got := r.DayValue(date(2025, 5, 10))
	assert.Equal(t, 5, got.Value)
	assert.Equal(t, domain.ProvenanceActual, got.Provenance)
}

func TestDayValuePartialMonthIsNotBackfilled(t *testing.T) {
	// Days 1-10 have detail; day 15 must come back as zero even though the
	// month has a non-zero total, otherwise recorded days double count.
	in := Inputs{
		DailyActuals:   dailyRange(date(2025, 4, 1), 10, 7),
		MonthlyActuals: map[domain.YearMonth]int{ym(2025, 4): 500},
	}
	r := NewResolver(date(2025, 6, 15), in)

	got := r.DayValue(date(2025, 4, 15))
	assert.Equal(t, 0, got.Value)
	assert.Equal(t, domain.ProvenanceActual, got.Provenance)
}

func TestDayValueAggregateOnlyMonthIsReconstructed(t *testing.T) {
	// March has a monthly total but no daily detail anywhere: legacy data.
	// Each day gets its weight-derived share of the total.
	in := Inputs{
		MonthlyActuals: map[domain.YearMonth]int{ym(2025, 3): 310},
	}
	r := NewResolver(date(2025, 6, 15), in)

	got := r.DayValue(date(2025, 3, 10))
	assert.Equal(t, 10, got.Value)
	assert.Equal(t, domain.ProvenanceActual, got.Provenance)
}

func TestDayValueFutureWeekdaySkew(t *testing.T) {
	in := Inputs{
		Overrides:      map[domain.YearMonth]int{ym(2025, 7): 3100},
		WeekdayFactors: []float64{1, 1, 1, 1, 1, 0.5, 0.5},
	}
	r := NewResolver(date(2025, 6, 15), in)

	// 2025-07-02 is a Wednesday, 2025-07-05 a Saturday.
	weekday := r.DayValue(date(2025, 7, 2))
	weekend := r.DayValue(date(2025, 7, 5))
	require.Equal(t, domain.ProvenanceForecast, weekday.Provenance)
	assert.Greater(t, weekday.Value, weekend.Value)

	// The 31 daily shares recover the month total to within a rounding
	// error bounded by the number of days.
	total := r.SumRange(date(2025, 7, 1), date(2025, 8, 1))
	assert.InDelta(t, 3100, total, 31)
}

func TestDayValueTodayIsMaxOfActualAndForecast(t *testing.T) {
	today := date(2025, 6, 15)
	in := Inputs{
		DailyActuals: map[string]int{today.Format(domain.DateLayout): 20},
		Overrides:    map[domain.YearMonth]int{ym(2025, 6): 300},
	}
	r := NewResolver(today, in)

	got := r.DayValue(today)
	assert.Equal(t, 20, got.Value)
	assert.Equal(t, domain.ProvenanceMix, got.Provenance)

	// Forecast wins when it is the larger side.
	in.DailyActuals[today.Format(domain.DateLayout)] = 3
	r = NewResolver(today, in)
	got = r.DayValue(today)
	assert.Equal(t, 10, got.Value)
	assert.Equal(t, domain.ProvenanceMix, got.Provenance)
}

func TestDayValueZeroWeightMonthSplitsEvenly(t *testing.T) {
	in := Inputs{
		Overrides:      map[domain.YearMonth]int{ym(2025, 6): 300},
		WeekdayFactors: []float64{0, 0, 0, 0, 0, 0, 0},
	}
	r := NewResolver(date(2025, 5, 1), in)

	got := r.DayValue(date(2025, 6, 10))
	assert.Equal(t, 10, got.Value)
	assert.Equal(t, 0.0, got.TotalWeights)
}

func TestSumRangeHalfOpen(t *testing.T) {
	in := Inputs{Overrides: map[domain.YearMonth]int{
		ym(2025, 6): 300, ym(2025, 7): 310,
	}}
	r := NewResolver(date(2025, 5, 1), in)

	// 10/day across the June-July boundary; the end date is excluded.
	assert.Equal(t, 100, r.SumRange(date(2025, 6, 26), date(2025, 7, 6)))
	assert.Equal(t, 0, r.SumRange(date(2025, 6, 10), date(2025, 6, 10)))
	assert.Equal(t, 0, r.SumRange(date(2025, 6, 10), date(2025, 6, 1)))
}
