package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"fjacquet/revolut-ocr/internal/logging"
	"fjacquet/revolut-ocr/internal/parsererror"
)

// Tesseract defaults.
const (
	DefaultTesseractCommand = "tesseract"
	DefaultLanguage         = "hun"
)

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// TesseractExtractor runs the tesseract binary and reads its stdout.
type TesseractExtractor struct {
	command  string
	language string
	psm      int
	timeout  time.Duration
	logger   logging.Logger
	run      commandRunner
	lookPath func(string) (string, error)
}

// NewTesseractExtractor creates a TesseractExtractor. Only Command, Language,
// PSM and Timeout of opts are used.
func NewTesseractExtractor(opts Options, logger logging.Logger) *TesseractExtractor {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	command := opts.Command
	if command == "" {
		command = DefaultTesseractCommand
	}
	language := opts.Language
	if language == "" {
		language = DefaultLanguage
	}
	return &TesseractExtractor{
		command:  command,
		language: language,
		psm:      opts.PSM,
		timeout:  opts.Timeout,
		logger:   logger.WithField(logging.FieldEngine, EngineTesseract),
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

// Available reports an error when the tesseract binary is not on PATH.
func (e *TesseractExtractor) Available() error {
	if _, err := e.lookPath(e.command); err != nil {
		return fmt.Errorf("%s not available (install tesseract-ocr): %w", e.command, err)
	}
	return nil
}

// Args returns the command line used for path, without the binary.
func (e *TesseractExtractor) Args(path string) []string {
	args := []string{path, "stdout", "-l", e.language}
	if e.psm > 0 {
		args = append(args, "--psm", strconv.Itoa(e.psm))
	}
	return args
}

// ExtractText implements Extractor.
func (e *TesseractExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &parsererror.ExtractionError{FilePath: path, Engine: EngineTesseract, Err: err}
	}
	if err := e.Available(); err != nil {
		return "", &parsererror.ExtractionError{FilePath: path, Engine: EngineTesseract, Err: err}
	}

	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	out, err := e.run(ctx, e.command, e.Args(path)...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		e.logger.WithError(err).Error("Failed to run tesseract", logging.F(logging.FieldFile, path))
		return "", &parsererror.ExtractionError{FilePath: path, Engine: EngineTesseract, Err: err}
	}

	e.logger.Debug("Image recognized",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return string(out), nil
}
