package models

import (
	"fmt"
	"time"

	"fjacquet/revolut-ocr/internal/parsererror"
)

// DateLayoutISO is the layout used when a Date is rendered.
const DateLayoutISO = "2006-01-02"

// Date is a calendar day without time or location. It is comparable and
// therefore usable as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates the components against the calendar. Combinations that
// time.Date would normalize (31 April, 30 February) are rejected.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return Date{}, &parsererror.InvalidDateError{Year: year, Month: month, Day: day}
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, &parsererror.InvalidDateError{Year: year, Month: month, Day: day}
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// Today returns the calendar day of now in its own location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayoutISO, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid ISO date '%s': %w", s, err)
	}
	return Today(t), nil
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
