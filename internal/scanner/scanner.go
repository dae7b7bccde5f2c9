// Package scanner folds OCR lines into a ledger. It owns the current date
// context: a date header switches the context and every transaction line is
// recorded under the most recent header.
package scanner

import (
	"errors"

	"fjacquet/revolut-ocr/internal/categorizer"
	"fjacquet/revolut-ocr/internal/dateutils"
	"fjacquet/revolut-ocr/internal/lineparser"
	"fjacquet/revolut-ocr/internal/logging"
	"fjacquet/revolut-ocr/internal/models"
	"fjacquet/revolut-ocr/internal/parsererror"
)

// DropReason explains why a line did not end up in the ledger.
type DropReason string

const (
	DropNoShape        DropReason = "no_shape"
	DropBelowThreshold DropReason = "below_threshold"
	DropNoDate         DropReason = "no_date"
	DropBadDate        DropReason = "bad_date"
	DropBadAmount      DropReason = "bad_amount"
)

// Drop describes one discarded line.
type Drop struct {
	LineNo int
	Line   string
	Reason DropReason
	// Err is set for DropBadDate and DropBadAmount.
	Err error
}

// DropHandler receives every discarded line.
type DropHandler func(Drop)

// Stats counts what happened to the lines fed so far.
type Stats struct {
	Lines      int
	Dates      int
	Records    int
	Duplicates int
	Dropped    map[DropReason]int
}

// TotalDropped sums Dropped over all reasons.
func (s Stats) TotalDropped() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// Scanner is the transaction accumulator. It is not safe for concurrent use;
// feed it from a single goroutine in input order.
type Scanner struct {
	recognizer  *dateutils.Recognizer
	resolver    *categorizer.Resolver
	logger      logging.Logger
	strictDates bool
	onDrop      DropHandler

	ledger  *models.Ledger
	current models.Date
	hasDate bool
	stats   Stats
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for dropped lines and date switches.
func WithLogger(logger logging.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStrictDates makes malformed date headers fatal instead of skipped.
func WithStrictDates(strict bool) Option {
	return func(s *Scanner) {
		s.strictDates = strict
	}
}

// WithDropHandler registers a callback for discarded lines.
func WithDropHandler(h DropHandler) Option {
	return func(s *Scanner) {
		s.onDrop = h
	}
}

// WithLedger makes the scanner accumulate into an existing ledger.
func WithLedger(l *models.Ledger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.ledger = l
		}
	}
}

// New creates a Scanner in the no-date state. Nil collaborators are replaced
// by their defaults.
func New(recognizer *dateutils.Recognizer, resolver *categorizer.Resolver, opts ...Option) *Scanner {
	if recognizer == nil {
		recognizer = dateutils.NewRecognizer()
	}
	if resolver == nil {
		resolver = categorizer.NewResolver()
	}
	s := &Scanner{
		recognizer: recognizer,
		resolver:   resolver,
		logger:     logging.NewDiscardLogger(),
		ledger:     models.NewLedger(),
		stats:      Stats{Dropped: make(map[DropReason]int)},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField(logging.FieldComponent, "scanner")
	return s
}

// Feed classifies a single line. The only error it returns is a malformed
// date header in strict mode; everything else that cannot be used is
// dropped.
func (s *Scanner) Feed(line string) error {
	s.stats.Lines++
	lineNo := s.stats.Lines

	d, isDate, err := s.recognizer.Recognize(line)
	if isDate {
		if err != nil {
			if s.strictDates {
				return err
			}
			s.logger.WithError(err).Warn("Ignoring malformed date header",
				logging.F(logging.FieldLineNo, lineNo),
				logging.F(logging.FieldLine, line))
			s.drop(lineNo, line, DropBadDate, err)
			return nil
		}
		s.switchDate(d, lineNo)
		return nil
	}

	m, ok, err := lineparser.Parse(line)
	if !ok {
		s.drop(lineNo, line, DropNoShape, nil)
		return nil
	}
	if err != nil {
		s.logger.WithError(err).Warn("Ignoring transaction line with unreadable amount",
			logging.F(logging.FieldLineNo, lineNo),
			logging.F(logging.FieldLine, line))
		s.drop(lineNo, line, DropBadAmount, err)
		return nil
	}

	category := m.Text
	if m.Shape == lineparser.ShapeLabel {
		res, found := s.resolver.Resolve(m.Text)
		if !found {
			_, score := s.resolver.BestScore(m.Text)
			s.logger.Debug("Label matches no payment type",
				logging.F(logging.FieldLineNo, lineNo),
				logging.F(logging.FieldLine, line),
				logging.F(logging.FieldScore, score))
			s.drop(lineNo, line, DropBelowThreshold, nil)
			return nil
		}
		category = res.Category
	}

	if !s.hasDate {
		s.drop(lineNo, line, DropNoDate, nil)
		return nil
	}

	if s.ledger.Add(s.current, models.NewRecord(category, m.Amount)) {
		s.stats.Records++
		s.logger.Debug("Recorded transaction",
			logging.F(logging.FieldDate, s.current.String()),
			logging.F(logging.FieldCategory, category),
			logging.F(logging.FieldAmount, m.Amount.String()))
	} else {
		s.stats.Duplicates++
		s.logger.Debug("Duplicate transaction ignored",
			logging.F(logging.FieldDate, s.current.String()),
			logging.F(logging.FieldCategory, category),
			logging.F(logging.FieldAmount, m.Amount.String()))
	}
	return nil
}

// Scan feeds every line in order and stops at the first error.
func (s *Scanner) Scan(lines []string) error {
	for _, line := range lines {
		if err := s.Feed(line); err != nil {
			return err
		}
	}
	return nil
}

// Ledger returns the ledger being accumulated.
func (s *Scanner) Ledger() *models.Ledger {
	return s.ledger
}

// CurrentDate returns the active date context, false before the first
// header.
func (s *Scanner) CurrentDate() (models.Date, bool) {
	return s.current, s.hasDate
}

// Stats returns a snapshot of the counters.
func (s *Scanner) Stats() Stats {
	out := s.stats
	out.Dropped = make(map[DropReason]int, len(s.stats.Dropped))
	for k, v := range s.stats.Dropped {
		out.Dropped[k] = v
	}
	return out
}

func (s *Scanner) switchDate(d models.Date, lineNo int) {
	s.current = d
	s.hasDate = true
	s.stats.Dates++
	s.logger.Debug("Date context switched",
		logging.F(logging.FieldLineNo, lineNo),
		logging.F(logging.FieldDate, d.String()))
}

func (s *Scanner) drop(lineNo int, line string, reason DropReason, err error) {
	s.stats.Dropped[reason]++
	s.logger.Debug("Dropped line",
		logging.F(logging.FieldLineNo, lineNo),
		logging.F(logging.FieldLine, line),
		logging.F(logging.FieldReason, string(reason)))
	if s.onDrop != nil {
		s.onDrop(Drop{LineNo: lineNo, Line: line, Reason: reason, Err: err})
	}
}

// IsDateError reports whether err comes from a malformed date header.
func IsDateError(err error) bool {
	var unknownMonth *parsererror.UnknownMonthError
	var invalidDate *parsererror.InvalidDateError
	return errors.As(err, &unknownMonth) || errors.As(err, &invalidDate)
}
