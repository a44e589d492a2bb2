package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange_Bounds(t *testing.T) {
	// Wednesday.
	now := time.Date(2026, time.March, 18, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		r        DateRange
		wantFrom time.Time
		wantTo   time.Time
	}{
		{"all", DateRangeAll, time.Time{}, time.Time{}},
		{"empty", "", time.Time{}, time.Time{}},
		{"today", DateRangeToday,
			time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 19, 0, 0, 0, 0, time.UTC)},
		{"week", DateRangeWeek,
			time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
			now},
		{"month", DateRangeMonth,
			time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := tt.r.Bounds(now)
			require.NoError(t, err)
			assert.True(t, tt.wantFrom.Equal(from), "from = %v", from)
			assert.True(t, tt.wantTo.Equal(to), "to = %v", to)
		})
	}

	_, _, err := DateRange("year").Bounds(now)
	assert.Error(t, err)
}

func TestDateRange_MonthRollsOverYear(t *testing.T) {
	now := time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC)

	from, to, err := DateRangeMonth.Bounds(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), to)
}
