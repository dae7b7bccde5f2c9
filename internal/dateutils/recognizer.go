package dateutils

import (
	"regexp"
	"strconv"
	"time"

	"fjacquet/revolut-ocr/internal/models"
	"fjacquet/revolut-ocr/internal/parsererror"
)

// DefaultTodayToken is what Revolut prints instead of a date for the
// current day.
const DefaultTodayToken = "Ma"

// datePattern finds "<dd> <month>. [yyyy]" anywhere in the line.
var datePattern = regexp.MustCompile(`([0-9]{2}) (\p{L}+)\. ?([0-9]{4})?`)

// Recognizer classifies lines as date headers.
type Recognizer struct {
	todayToken string
	clock      func() time.Time
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithTodayToken overrides the "today" sentinel.
func WithTodayToken(token string) Option {
	return func(r *Recognizer) {
		if token != "" {
			r.todayToken = token
		}
	}
}

// WithClock pins the wall clock used for "today" and for missing years.
func WithClock(clock func() time.Time) Option {
	return func(r *Recognizer) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewRecognizer builds a Recognizer using DefaultTodayToken and time.Now
// unless overridden.
func NewRecognizer(opts ...Option) *Recognizer {
	r := &Recognizer{
		todayToken: DefaultTodayToken,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recognize reports whether line is a date header and, if so, which date it
// names. A line that has the shape of a date header but names an unknown
// month or an impossible day returns true together with an
// *parsererror.UnknownMonthError or *parsererror.InvalidDateError.
func (r *Recognizer) Recognize(line string) (models.Date, bool, error) {
	if line == r.todayToken {
		return models.Today(r.clock()), true, nil
	}

	m := datePattern.FindStringSubmatch(line)
	if m == nil {
		return models.Date{}, false, nil
	}

	day, _ := strconv.Atoi(m[1])

	month, err := LookupMonth(m[2])
	if err != nil {
		return models.Date{}, true, &parsererror.UnknownMonthError{Month: m[2], Line: line}
	}

	year := r.clock().Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}

	d, err := models.NewDate(year, month, day)
	if err != nil {
		return models.Date{}, true, &parsererror.InvalidDateError{Year: year, Month: month, Day: day, Line: line}
	}
	return d, true, nil
}
