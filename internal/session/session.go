// Package session drives a full run: OCR every input file, feed the lines to
// a fresh scanner in file order and optionally archive the resulting ledger.
package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"fjacquet/revolut-ocr/internal/logging"
	"fjacquet/revolut-ocr/internal/models"
	"fjacquet/revolut-ocr/internal/ocr"
	"fjacquet/revolut-ocr/internal/scanner"
	"fjacquet/revolut-ocr/internal/store"

	"golang.org/x/sync/errgroup"
)

// Result is what a run produced.
type Result struct {
	Ledger *models.Ledger
	Stats  scanner.Stats
	Files  int
	// Archived is the number of records that were new to the archive, zero
	// when no archive is configured.
	Archived int
}

// Session runs scans. A Session can be reused; every Run starts from a new
// scanner so no date context leaks between runs.
type Session struct {
	extractor  ocr.Extractor
	newScanner func() *scanner.Scanner
	archive    store.Archive
	workers    int
	progress   io.Writer
	logger     logging.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithWorkers sets how many files are recognized concurrently. Lines are
// still scanned in input order.
func WithWorkers(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithArchive saves every ledger into a.
func WithArchive(a store.Archive) Option {
	return func(s *Session) {
		s.archive = a
	}
}

// WithProgress writes "processing file..." lines to w.
func WithProgress(w io.Writer) Option {
	return func(s *Session) {
		s.progress = w
	}
}

// WithLogger sets the session logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScannerFactory controls how the per-run scanner is built.
func WithScannerFactory(f func() *scanner.Scanner) Option {
	return func(s *Session) {
		if f != nil {
			s.newScanner = f
		}
	}
}

// New creates a Session reading images through extractor.
func New(extractor ocr.Extractor, opts ...Option) *Session {
	s := &Session{
		extractor: extractor,
		workers:   1,
		progress:  io.Discard,
		logger:    logging.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newScanner == nil {
		logger := s.logger
		s.newScanner = func() *scanner.Scanner {
			return scanner.New(nil, nil, scanner.WithLogger(logger))
		}
	}
	s.logger = s.logger.WithField(logging.FieldComponent, "session")
	return s
}

type extraction struct {
	text string
	err  error
}

// Run recognizes and scans paths in the given order. An OCR failure or, in
// strict mode, a malformed date header aborts the run.
func (s *Session) Run(ctx context.Context, paths []string) (*Result, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("session has no OCR extractor")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chan extraction, len(paths))
	for i := range results {
		results[i] = make(chan extraction, 1)
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(s.workers)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, path := range paths {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					results[i] <- extraction{err: err}
					return err
				}
				text, err := s.extractor.ExtractText(gctx, path)
				results[i] <- extraction{text: text, err: err}
				return err
			})
		}
	}()
	defer func() {
		cancel()
		<-launched
		_ = g.Wait()
	}()

	s.logger.Info("Starting scan",
		logging.F(logging.FieldCount, len(paths)),
		logging.F(logging.FieldWorkers, s.workers))

	sc := s.newScanner()
	for i, path := range paths {
		s.printf("processing file... %s\n", path)
		start := time.Now()

		res := <-results[i]
		if res.err != nil {
			// A failure on a later file cancels this one; report the cause.
			cancel()
			<-launched
			if err := g.Wait(); err != nil && ctx.Err() == nil {
				return nil, fmt.Errorf("OCR failed: %w", err)
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, res.err)
		}

		lines := ocr.SplitLines(res.text)
		if err := sc.Scan(lines); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}

		s.logger.Debug("File scanned",
			logging.F(logging.FieldFile, path),
			logging.F(logging.FieldCount, len(lines)),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
		s.printf("processed file!\n")
	}

	result := &Result{
		Ledger: sc.Ledger(),
		Stats:  sc.Stats(),
		Files:  len(paths),
	}

	if s.archive != nil {
		added, err := s.archive.Save(ctx, result.Ledger)
		if err != nil {
			return nil, fmt.Errorf("failed to archive ledger: %w", err)
		}
		result.Archived = added
	}

	s.logger.Info("Scan finished",
		logging.F(logging.FieldCount, result.Ledger.Len()),
		logging.F("dates", len(result.Ledger.Dates())),
		logging.F("dropped", result.Stats.TotalDropped()),
		logging.F("duplicates", result.Stats.Duplicates))
	return result, nil
}

func (s *Session) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.progress, format, args...)
}
