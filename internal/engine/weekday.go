package engine

import (
	"time"

	"github.com/replenwise/replenish/internal/domain"
)

// WeekdayFactors is the 7-entry relative-demand vector, Monday first. It
// splits a monthly total into per-day shares.
type WeekdayFactors [7]float64

// NormalizeWeekdayFactors coerces a raw factor vector into a usable table.
// An absent or wrong-length vector means uniform demand, and negative
// entries are clamped to zero.
func NormalizeWeekdayFactors(raw []float64) WeekdayFactors {
	uniform := WeekdayFactors{1, 1, 1, 1, 1, 1, 1}
	if len(raw) != 7 {
		return uniform
	}

	var f WeekdayFactors
	for i, v := range raw {
		if v < 0 {
			v = 0
		}
		f[i] = v
	}
	return f
}

// For returns the factor for the date's weekday. Go numbers Sunday as 0, so
// the index is rotated to the Monday-first layout.
func (f WeekdayFactors) For(t time.Time) float64 {
	return f[(int(t.Weekday())+6)%7]
}

// MonthWeight sums the factors over every day of the month. A zero sum
// signals the caller to fall back to an even split.
func (f WeekdayFactors) MonthWeight(m domain.YearMonth) float64 {
	total := 0.0
	for d := m.First(); d.Month() == m.Month; d = d.AddDate(0, 0, 1) {
		total += f.For(d)
	}
	return total
}
