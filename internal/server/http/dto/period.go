package dto

import (
	"fmt"
	"time"

	"github.com/veresko/boxroom/internal/domain/model"
)

// ParsePeriod builds a rental interval from date-only strings. An empty
// end date means an unlimited rental.
func ParsePeriod(start, end string) (model.DateRange, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return model.DateRange{}, fmt.Errorf("parse start date: %w", err)
	}

	rangeEnd := model.Unbounded()
	if end != "" {
		e, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("parse end date: %w", err)
		}
		rangeEnd = model.EndOn(e)
	}
	return model.NewDateRange(s, rangeEnd)
}

// FormatStart renders the first rental day.
func FormatStart(r model.DateRange) string {
	return r.Start.Format(time.DateOnly)
}

// FormatEnd renders the inclusive last rental day, nil for unlimited
// rentals.
func FormatEnd(r model.DateRange) *string {
	d, ok := r.End.Date()
	if !ok {
		return nil
	}
	s := d.Format(time.DateOnly)
	return &s
}
