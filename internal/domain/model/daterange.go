package model

import (
	"fmt"
	"time"

	domainErrors "github.com/veresko/boxroom/internal/domain/errors"
)

// Day truncates t to UTC midnight. All rental arithmetic is day-granular.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDay returns the day immediately after d.
func NextDay(d time.Time) time.Time {
	return Day(d).AddDate(0, 0, 1)
}

// RangeEnd is the end of a rental interval: either a concrete inclusive
// end date or open-ended (an "unlimited" rental).
type RangeEnd struct {
	date    time.Time
	bounded bool
}

// EndOn returns a bounded range end on the given day (inclusive).
func EndOn(d time.Time) RangeEnd {
	return RangeEnd{date: Day(d), bounded: true}
}

// Unbounded returns an open-ended range end.
func Unbounded() RangeEnd {
	return RangeEnd{}
}

// Bounded reports whether the end is a concrete date.
func (e RangeEnd) Bounded() bool {
	return e.bounded
}

// Date returns the inclusive end date and whether the end is bounded.
func (e RangeEnd) Date() (time.Time, bool) {
	return e.date, e.bounded
}

// DateRange is an inclusive interval of days [Start, End] where End may
// be open-ended.
type DateRange struct {
	Start time.Time
	End   RangeEnd
}

// NewDateRange validates and normalizes a rental interval.
func NewDateRange(start time.Time, end RangeEnd) (DateRange, error) {
	start = Day(start)
	if d, ok := end.Date(); ok && d.Before(start) {
		return DateRange{}, fmt.Errorf("%w: end %s before start %s",
			domainErrors.ErrInvalidDateRange, d.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return DateRange{Start: start, End: end}, nil
}

// Overlaps reports whether two intervals share at least one day.
// Adjacent intervals (one ends the day before the other starts) do not
// overlap: end dates are inclusive claim boundaries.
func (r DateRange) Overlaps(other DateRange) bool {
	if startsAfterEnd(r.Start, other.End) {
		return false
	}
	if startsAfterEnd(other.Start, r.End) {
		return false
	}
	return true
}

// Contains reports whether the given day falls inside the interval.
func (r DateRange) Contains(d time.Time) bool {
	d = Day(d)
	if d.Before(r.Start) {
		return false
	}
	return !startsAfterEnd(d, r.End)
}

// FollowsImmediately reports whether r starts exactly the day after
// other ends. Open-ended intervals have no day after.
func (r DateRange) FollowsImmediately(other DateRange) bool {
	d, ok := other.End.Date()
	if !ok {
		return false
	}
	return r.Start.Equal(NextDay(d))
}

func (r DateRange) String() string {
	if d, ok := r.End.Date(); ok {
		return fmt.Sprintf("[%s, %s]", r.Start.Format(time.DateOnly), d.Format(time.DateOnly))
	}
	return fmt.Sprintf("[%s, ...]", r.Start.Format(time.DateOnly))
}

func startsAfterEnd(start time.Time, end RangeEnd) bool {
	d, ok := end.Date()
	if !ok {
		return false
	}
	return start.After(d)
}
