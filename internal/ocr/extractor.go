// Package ocr turns screenshot images into raw text lines.
package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fjacquet/revolut-ocr/internal/logging"
)

// Engine names accepted by NewExtractor.
const (
	EngineTesseract = "tesseract"
	EngineGemini    = "gemini"
)

// Extractor extracts the text content of an image file.
type Extractor interface {
	// ExtractText returns the recognized text of the image at path. Lines are
	// separated by '\n'.
	ExtractText(ctx context.Context, path string) (string, error)
}

// Options selects and configures an engine.
type Options struct {
	Engine   string
	Language string
	PSM      int
	Command  string
	Timeout  time.Duration
	Model    string
	APIKey   string
}

// NewExtractor builds the Extractor named by opts.Engine.
func NewExtractor(opts Options, logger logging.Logger) (Extractor, error) {
	switch strings.ToLower(opts.Engine) {
	case EngineTesseract, "":
		return NewTesseractExtractor(opts, logger), nil
	case EngineGemini:
		return NewGeminiExtractor(opts, logger)
	default:
		return nil, fmt.Errorf("unknown OCR engine '%s'", opts.Engine)
	}
}

// SplitLines splits OCR output into lines, dropping empty ones. Trailing
// carriage returns are removed.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// MockExtractor returns canned text per path for tests.
type MockExtractor struct {
	Texts map[string]string
	Err   error
	// Delay is waited before answering, honoring ctx.
	Delay time.Duration
}

// NewMockExtractor creates a MockExtractor serving texts.
func NewMockExtractor(texts map[string]string, err error) *MockExtractor {
	return &MockExtractor{Texts: texts, Err: err}
}

// ExtractText returns the canned text for path or the configured error.
func (m *MockExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	text, ok := m.Texts[path]
	if !ok {
		return "", fmt.Errorf("no mock text for %s", path)
	}
	return text, nil
}
