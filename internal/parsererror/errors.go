// Package parsererror holds the typed errors raised while turning OCR text
// into ledger records.
package parsererror

import (
	"fmt"
	"time"
)

// UnknownMonthError is returned when a date header names a month
// abbreviation missing from the month table.
type UnknownMonthError struct {
	Month string
	Line  string
}

func (e *UnknownMonthError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("unknown month abbreviation '%s' in line '%s'", e.Month, e.Line)
	}
	return fmt.Sprintf("unknown month abbreviation '%s'", e.Month)
}

// InvalidDateError is returned when day, month and year do not form a real
// calendar date.
type InvalidDateError struct {
	Year  int
	Month time.Month
	Day   int
	Line  string
}

func (e *InvalidDateError) Error() string {
	msg := fmt.Sprintf("invalid date %04d-%02d-%02d", e.Year, int(e.Month), e.Day)
	if e.Line != "" {
		msg += fmt.Sprintf(" in line '%s'", e.Line)
	}
	return msg
}

// ParseError represents a value that matched a pattern but could not be
// converted.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExtractionError wraps a failure of an OCR engine on one input file.
type ExtractionError struct {
	FilePath string
	Engine   string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s OCR failed for '%s': %v", e.Engine, e.FilePath, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
