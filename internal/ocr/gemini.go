package ocr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"fjacquet/revolut-ocr/internal/logging"
	"fjacquet/revolut-ocr/internal/parsererror"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when Options.Model is empty.
const DefaultGeminiModel = "gemini-1.5-flash"

const transcriptionPrompt = `Transcribe all text visible in this banking app screenshot.
Output one line of text per visual line, top to bottom, exactly as written.
Keep accents, signs, spaces inside numbers and decimal commas unchanged.
Do not translate, summarize, add headings or wrap the answer in code fences.`

// ErrEmptyResponse is returned when the model answered without any text.
var ErrEmptyResponse = errors.New("model returned no text")

// generateFunc sends one image plus prompt and returns the text parts.
type generateFunc func(ctx context.Context, image genai.Blob, prompt string) (string, error)

// GeminiExtractor asks a Gemini model to transcribe the screenshot.
type GeminiExtractor struct {
	model    string
	timeout  time.Duration
	logger   logging.Logger
	generate generateFunc
}

// NewGeminiExtractor creates a GeminiExtractor. An API key is required.
func NewGeminiExtractor(opts Options, logger logging.Logger) (*GeminiExtractor, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini OCR engine requires an API key (ai.api_key or GEMINI_API_KEY)")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	e := &GeminiExtractor{
		model:   model,
		timeout: opts.Timeout,
		logger:  logger.WithField(logging.FieldEngine, EngineGemini),
	}
	e.generate = clientGenerator(opts.APIKey, model)
	return e, nil
}

func clientGenerator(apiKey, model string) generateFunc {
	return func(ctx context.Context, image genai.Blob, prompt string) (string, error) {
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return "", fmt.Errorf("failed to create Gemini client: %w", err)
		}
		defer func() {
			_ = client.Close()
		}()

		resp, err := client.GenerativeModel(model).GenerateContent(ctx, image, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("gemini request failed: %w", err)
		}
		return responseText(resp), nil
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// imageFormat returns the genai image format ("png", "jpeg", ...) of data.
func imageFormat(data []byte) (string, error) {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("unsupported image type %s", mime)
	}
	return strings.TrimPrefix(mime, "image/"), nil
}

// cleanTranscript drops markdown fences some models add despite the prompt.
func cleanTranscript(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// ExtractText implements Extractor.
func (e *GeminiExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &parsererror.ExtractionError{FilePath: path, Engine: EngineGemini, Err: err}
	}
	format, err := imageFormat(data)
	if err != nil {
		return "", &parsererror.ExtractionError{FilePath: path, Engine: EngineGemini, Err: err}
	}

	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	text, err := e.generate(ctx, genai.ImageData(format, data), transcriptionPrompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		e.logger.WithError(err).Error("Gemini transcription failed", logging.F(logging.FieldFile, path))
		return "", &parsererror.ExtractionError{FilePath: path, Engine: EngineGemini, Err: err}
	}

	e.logger.Debug("Image transcribed",
		logging.F(logging.FieldFile, path),
		logging.F("model", e.model),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return cleanTranscript(text), nil
}
