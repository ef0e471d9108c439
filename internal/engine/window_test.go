package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClampsDayOfMonth(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain month step", date(2025, 3, 15), 1, date(2025, 4, 15)},
		{"jan 31 clamps to feb 28", date(2025, 1, 31), 1, date(2025, 2, 28)},
		{"jan 31 clamps to leap feb 29", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"year boundary", date(2025, 11, 30), 3, date(2026, 2, 28)},
		{"zero months", date(2025, 6, 1), 0, date(2025, 6, 1)},
		{"backward step", date(2025, 3, 31), -1, date(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 30, DaysBetween(date(2025, 6, 1), date(2025, 7, 1)))
	assert.Equal(t, 31, DaysBetween(date(2025, 7, 1), date(2025, 8, 1)))
	assert.Equal(t, 0, DaysBetween(date(2025, 6, 1), date(2025, 6, 1)))
	assert.Equal(t, 0, DaysBetween(date(2025, 7, 1), date(2025, 6, 1)))
	assert.Equal(t, 365, DaysBetween(date(2025, 1, 1), date(2026, 1, 1)))
}
