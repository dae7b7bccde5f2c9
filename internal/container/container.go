// Package container provides dependency injection for the revolut-ocr
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"
	"io"

	"fjacquet/revolut-ocr/internal/categorizer"
	"fjacquet/revolut-ocr/internal/common"
	"fjacquet/revolut-ocr/internal/config"
	"fjacquet/revolut-ocr/internal/dateutils"
	"fjacquet/revolut-ocr/internal/logging"
	"fjacquet/revolut-ocr/internal/ocr"
	"fjacquet/revolut-ocr/internal/scanner"
	"fjacquet/revolut-ocr/internal/session"
	"fjacquet/revolut-ocr/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	recognizer *dateutils.Recognizer
	resolver   *categorizer.Resolver
	extractor  ocr.Extractor
	archive    store.Archive
	session    *session.Session
}

// Option overrides a dependency, mainly for tests.
type Option func(*options)

type options struct {
	logger    logging.Logger
	extractor ocr.Extractor
	archive   store.Archive
	progress  io.Writer
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithExtractor replaces the OCR engine selected by ocr.engine.
func WithExtractor(e ocr.Extractor) Option {
	return func(o *options) {
		o.extractor = e
	}
}

// WithArchive replaces the SQLite archive selected by store.path.
func WithArchive(a store.Archive) Option {
	return func(o *options) {
		o.archive = a
	}
}

// WithProgress sets where per-file progress lines are written.
func WithProgress(w io.Writer) Option {
	return func(o *options) {
		o.progress = w
	}
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	}

	recognizer := dateutils.NewRecognizer(dateutils.WithTodayToken(cfg.Scan.TodayToken))

	resolver, err := newResolver(cfg, logger)
	if err != nil {
		return nil, err
	}

	extractor := o.extractor
	if extractor == nil {
		extractor, err = ocr.NewExtractor(ocr.Options{
			Engine:   cfg.OCR.Engine,
			Language: cfg.OCR.Language,
			PSM:      cfg.OCR.PSM,
			Command:  cfg.OCR.Command,
			Timeout:  cfg.OCRTimeout(),
			Model:    cfg.AI.Model,
			APIKey:   cfg.AI.APIKey,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create OCR extractor: %w", err)
		}
	}

	archive := o.archive
	if archive == nil && cfg.Store.Path != "" {
		ledgerStore, err := store.Open(cfg.Store.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger archive: %w", err)
		}
		archive = ledgerStore
	}

	strict := cfg.Scan.StrictDates
	newScanner := func() *scanner.Scanner {
		return scanner.New(recognizer, resolver,
			scanner.WithLogger(logger),
			scanner.WithStrictDates(strict))
	}

	sessionOpts := []session.Option{
		session.WithLogger(logger),
		session.WithWorkers(cfg.OCR.Workers),
		session.WithScannerFactory(newScanner),
	}
	if archive != nil {
		sessionOpts = append(sessionOpts, session.WithArchive(archive))
	}
	if o.progress != nil {
		sessionOpts = append(sessionOpts, session.WithProgress(o.progress))
	}

	logger.Debug("Container initialized",
		logging.F(logging.FieldEngine, cfg.OCR.Engine),
		logging.F(logging.FieldWorkers, cfg.OCR.Workers),
		logging.F("archive_enabled", archive != nil),
		logging.F("payment_types", len(resolver.Vocabulary())))

	return &Container{
		logger:     logger,
		config:     cfg,
		recognizer: recognizer,
		resolver:   resolver,
		extractor:  extractor,
		archive:    archive,
		session:    session.New(extractor, sessionOpts...),
	}, nil
}

func newResolver(cfg *config.Config, logger logging.Logger) (*categorizer.Resolver, error) {
	tieBreak, ok := categorizer.ParseTieBreak(cfg.Scan.TieBreak)
	if !ok {
		return nil, fmt.Errorf("invalid tie break policy: %s", cfg.Scan.TieBreak)
	}

	vocabulary := cfg.Scan.PaymentTypes
	if cfg.Scan.VocabularyFile != "" {
		path, err := store.FindConfigFile(cfg.Scan.VocabularyFile)
		if err != nil {
			return nil, fmt.Errorf("vocabulary file %s not found: %w", cfg.Scan.VocabularyFile, err)
		}
		vocabulary, err = categorizer.LoadVocabulary(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded payment type vocabulary",
			logging.F(logging.FieldFile, path),
			logging.F(logging.FieldCount, len(vocabulary)))
	}

	return categorizer.NewResolver(
		categorizer.WithVocabulary(vocabulary),
		categorizer.WithThreshold(cfg.Scan.SimilarityThreshold),
		categorizer.WithTieBreak(tieBreak),
	), nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetRecognizer returns the date header recognizer.
func (c *Container) GetRecognizer() *dateutils.Recognizer {
	return c.recognizer
}

// GetResolver returns the payment type resolver.
func (c *Container) GetResolver() *categorizer.Resolver {
	return c.resolver
}

// GetExtractor returns the OCR engine.
func (c *Container) GetExtractor() ocr.Extractor {
	return c.extractor
}

// GetArchive returns the ledger archive, nil when store.path is unset.
func (c *Container) GetArchive() store.Archive {
	return c.archive
}

// GetSession returns the configured session driver.
func (c *Container) GetSession() *session.Session {
	return c.session
}

// CSVOptions returns the output rendering options from the configuration.
func (c *Container) CSVOptions() common.CSVOptions {
	return common.CSVOptions{
		Delimiter:        c.config.DelimiterRune(),
		DecimalSeparator: c.config.CSV.DecimalSeparator,
		IncludeHeaders:   c.config.CSV.IncludeHeaders,
	}
}

// Close releases the archive, if any.
func (c *Container) Close() error {
	if c.archive != nil {
		if err := c.archive.Close(); err != nil {
			return fmt.Errorf("failed to close ledger archive: %w", err)
		}
	}
	return nil
}
