// Package dateutils recognizes the date headers Revolut prints above groups
// of transactions in its Hungarian locale.
package dateutils

import (
	"time"

	"fjacquet/revolut-ocr/internal/parsererror"
)

// monthNames maps the Hungarian month abbreviations, as they appear in the
// statement, to their month. Keys are case-sensitive. March appears both
// with and without its accent because OCR drops it often.
var monthNames = map[string]time.Month{
	"jan":   time.January,
	"febr":  time.February,
	"marc":  time.March,
	"márc":  time.March,
	"ápr":   time.April,
	"máj":   time.May,
	"jun":   time.June,
	"jul":   time.July,
	"aug":   time.August,
	"szept": time.September,
	"okt":   time.October,
	"nov":   time.November,
	"dec":   time.December,
}

// LookupMonth resolves a month abbreviation.
func LookupMonth(abbrev string) (time.Month, error) {
	m, ok := monthNames[abbrev]
	if !ok {
		return 0, &parsererror.UnknownMonthError{Month: abbrev}
	}
	return m, nil
}

// MonthAbbreviations returns every known abbreviation.
func MonthAbbreviations() []string {
	out := make([]string, 0, len(monthNames))
	for k := range monthNames {
		out = append(out, k)
	}
	return out
}
