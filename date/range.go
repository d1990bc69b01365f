package date

import (
	"fmt"
	"iter"
)

// Range represents a range of dates, both boundaries included.
type Range struct{ From, To Date }

// NewRange returns the standard period range containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Len returns the number of calendar days in the range.
func (r Range) Len() int { return DaysBetween(r.From, r.To) + 1 }

// Days iterates over every day in the range.
func (r Range) Days() iter.Seq[Date] { return Days(r.From, r.To) }

// Validate checks that the range is not inverted.
func (r Range) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("range %s to %s: missing boundary", r.From, r.To)
	}
	if r.To.Before(r.From) {
		return fmt.Errorf("range %s to %s: end is before start", r.From, r.To)
	}
	return nil
}

// Units returns how many periods of each kind the range spans.
//
// Day count includes both ends. Week count is whole weeks plus one, month count is complete
// months plus one and year count is complete years plus one.
func (r Range) Units() (days, weeks, months, years int) {
	n := DaysBetween(r.From, r.To)
	m := MonthsBetween(r.From, r.To)
	return n + 1, n/7 + 1, m + 1, m/12 + 1
}

func (r Range) String() string { return fmt.Sprintf("%s to %s", r.From, r.To) }
