package service

import (
	"fmt"
	"time"
)

// DateRange names a preset window over booking pickup times.
type DateRange string

const (
	DateRangeAll   DateRange = "all"
	DateRangeToday DateRange = "today"
	DateRangeWeek  DateRange = "week"
	DateRangeMonth DateRange = "month"
)

// Bounds returns the [from, to) window of r relative to now, in now's
// location. "all" and "" are unbounded (zero times). The week runs from
// Sunday midnight up to now.
func (r DateRange) Bounds(now time.Time) (from, to time.Time, err error) {
	y, m, d := now.Date()
	loc := now.Location()

	switch r {
	case "", DateRangeAll:
		return time.Time{}, time.Time{}, nil
	case DateRangeToday:
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 1), nil
	case DateRangeWeek:
		start := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, loc)
		return start, now, nil
	case DateRangeMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("unknown date range %q", string(r))
}
