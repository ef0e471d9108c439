package engine

import (
	"time"

	"github.com/replenwise/replenish/internal/domain"
)

// AddMonths advances a date by whole calendar months, keeping the day of
// month and clamping to the last day when the target month is shorter.
// Window lengths must come from calendar subtraction, never a fixed 30-day
// assumption, so Jan 31 + 1 month is Feb 28 (or 29), not Mar 2.
func AddMonths(t time.Time, months int) time.Time {
	t = domain.Day(t)
	ym := domain.YearMonthOf(t).AddMonths(months)
	day := t.Day()
	if last := ym.Days(); day > last {
		day = last
	}
	return time.Date(ym.Year, ym.Month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the exact number of calendar days in [start, end).
// A degenerate or inverted range counts as zero days.
func DaysBetween(start, end time.Time) int {
	start, end = domain.Day(start), domain.Day(end)
	if !start.Before(end) {
		return 0
	}
	return int(end.Sub(start) / (24 * time.Hour))
}
