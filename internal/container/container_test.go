package container

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/revolut-ocr/internal/config"
	"fjacquet/revolut-ocr/internal/logging"
	"fjacquet/revolut-ocr/internal/ocr"
	"fjacquet/revolut-ocr/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*config.Config)
		nilConfig   bool
		expectError string
		check       func(*testing.T, *Container)
	}{
		{
			name:        "nil config",
			nilConfig:   true,
			expectError: "configuration cannot be nil",
		},
		{
			name: "defaults use tesseract and no archive",
			check: func(t *testing.T, c *Container) {
				assert.IsType(t, &ocr.TesseractExtractor{}, c.GetExtractor())
				assert.Nil(t, c.GetArchive())
				assert.NotNil(t, c.GetSession())
				assert.NotNil(t, c.GetRecognizer())
				assert.Equal(t, 0.6, c.GetResolver().Threshold())
				assert.Len(t, c.GetResolver().Vocabulary(), 4)
			},
		},
		{
			name: "gemini engine",
			modify: func(c *config.Config) {
				c.OCR.Engine = "gemini"
				c.AI.APIKey = "test-key"
			},
			check: func(t *testing.T, c *Container) {
				assert.IsType(t, &ocr.GeminiExtractor{}, c.GetExtractor())
			},
		},
		{
			name: "gemini engine without key",
			modify: func(c *config.Config) {
				c.OCR.Engine = "gemini"
			},
			expectError: "failed to create OCR extractor",
		},
		{
			name: "custom payment types",
			modify: func(c *config.Config) {
				c.Scan.PaymentTypes = []string{"Kivétel", "Osztalék"}
				c.Scan.SimilarityThreshold = 0.8
			},
			check: func(t *testing.T, c *Container) {
				assert.Equal(t, []string{"Kivétel", "Osztalék"}, c.GetResolver().Vocabulary())
				assert.Equal(t, 0.8, c.GetResolver().Threshold())
			},
		},
		{
			name:        "bad tie break",
			modify:      func(c *config.Config) { c.Scan.TieBreak = "random" },
			expectError: "invalid tie break policy",
		},
		{
			name:        "missing vocabulary file",
			modify:      func(c *config.Config) { c.Scan.VocabularyFile = "/nonexistent/vocabulary.yaml" },
			expectError: "vocabulary file /nonexistent/vocabulary.yaml not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg *config.Config
			if !tt.nilConfig {
				cfg = config.Default()
				if tt.modify != nil {
					tt.modify(cfg)
				}
			}

			c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			defer func() {
				assert.NoError(t, c.Close())
			}()
			assert.Same(t, cfg, c.GetConfig())
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}

func TestNewContainer_VocabularyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	require.NoError(t, os.WriteFile(path, []byte("payment_types:\n  - Osztalék\n  - Kivétel\n"), 0600))

	cfg := config.Default()
	cfg.Scan.PaymentTypes = []string{"ignored"}
	cfg.Scan.VocabularyFile = path

	c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Osztalék", "Kivétel"}, c.GetResolver().Vocabulary())
}

func TestNewContainer_OpensArchive(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "ledger.db")

	c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	require.IsType(t, &store.LedgerStore{}, c.GetArchive())
	assert.NoError(t, c.Close())
	assert.FileExists(t, cfg.Store.Path)
}

func TestContainer_SessionEndToEnd(t *testing.T) {
	cfg := config.Default()
	cfg.Scan.TodayToken = "Today"

	archive := store.NewMockArchive()
	var progress bytes.Buffer
	extractor := ocr.NewMockExtractor(map[string]string{
		"1.png": "05 jan. 2023\nKivétel -50,00\n05 jan. 2023\nKivetel -50,00\n",
	}, nil)

	c, err := NewContainer(cfg,
		WithLogger(logging.NewMockLogger()),
		WithExtractor(extractor),
		WithArchive(archive),
		WithProgress(&progress))
	require.NoError(t, err)

	res, err := c.GetSession().Run(context.Background(), []string{"1.png"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Ledger.Len())
	assert.Equal(t, 1, res.Archived)
	assert.Contains(t, progress.String(), "processing file... 1.png")

	opts := c.CSVOptions()
	assert.Equal(t, ';', opts.Delimiter)
	assert.Equal(t, ",", opts.DecimalSeparator)
	assert.False(t, opts.IncludeHeaders)

	require.NoError(t, c.Close())
	assert.True(t, archive.Closed)
}
