// Package monthrange computes the calendar-month intervals used to filter
// candidate photos.
package monthrange

import (
	"errors"
	"fmt"
	"time"
)

const (
	keyLayout   = "2006-01"
	labelLayout = "January 2006"
)

var (
	// ErrFutureMonth is returned when a month has not started yet.
	ErrFutureMonth = errors.New("month has not started yet")
	// ErrMonthTooOld is returned when a month is outside the selectable years.
	ErrMonthTooOld = errors.New("month is too far in the past")
)

// MonthRange is the first-to-last-day interval of one calendar month.
// Start is midnight on the first day, End is midnight on the last day.
// Photos match for the whole of the End day, see Contains.
type MonthRange struct {
	Start time.Time
	End   time.Time
}

// ForDate returns the month containing t, in t's location.
func ForDate(t time.Time) MonthRange {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return MonthRange{
		Start: start,
		End:   start.AddDate(0, 1, -1),
	}
}

// Parse parses a "2006-01" month key in the given location.
func Parse(key string, loc *time.Location) (MonthRange, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(keyLayout, key, loc)
	if err != nil {
		return MonthRange{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", key, err)
	}
	return ForDate(t), nil
}

// EndExclusive returns midnight on the first day of the following month.
func (m MonthRange) EndExclusive() time.Time {
	return m.Start.AddDate(0, 1, 0)
}

// Contains reports whether t falls on any day from Start to End inclusive.
func (m MonthRange) Contains(t time.Time) bool {
	return !t.Before(m.Start) && t.Before(m.EndExclusive())
}

// Days returns the number of days in the month.
func (m MonthRange) Days() int {
	return m.End.Day()
}

// Next returns the following month.
func (m MonthRange) Next() MonthRange {
	return ForDate(m.EndExclusive())
}

// Prev returns the preceding month.
func (m MonthRange) Prev() MonthRange {
	return ForDate(m.Start.AddDate(0, -1, 0))
}

// Key returns the month as "2006-01".
func (m MonthRange) Key() string {
	return m.Start.Format(keyLayout)
}

// Label returns the human readable month, e.g. "October 2026".
func (m MonthRange) Label() string {
	return m.Start.Format(labelLayout)
}

func (m MonthRange) String() string {
	return m.Key()
}

// Selectable returns the months a user may pick relative to now: every month
// of the previous `years` years and of the current year up to and including
// the current month. Months are ordered oldest first.
func Selectable(now time.Time, years int) []MonthRange {
	current := ForDate(now)
	first := time.Date(now.Year()-years, time.January, 1, 0, 0, 0, 0, now.Location())

	var months []MonthRange
	for m := ForDate(first); !m.Start.After(current.Start); m = m.Next() {
		months = append(months, m)
	}
	return months
}

// Validate checks that m is one of the Selectable months.
func Validate(m MonthRange, now time.Time, years int) error {
	current := ForDate(now)
	if m.Start.After(current.Start) {
		return fmt.Errorf("%s: %w", m.Key(), ErrFutureMonth)
	}
	if m.Start.Year() < now.Year()-years {
		return fmt.Errorf("%s: %w", m.Key(), ErrMonthTooOld)
	}
	return nil
}
