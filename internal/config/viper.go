// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override, e.g.
// REVOLUT_OCR_LOG_LEVEL for log.level.
const EnvPrefix = "REVOLUT_OCR"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter        string `mapstructure:"delimiter" yaml:"delimiter"`
		DecimalSeparator string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
		IncludeHeaders   bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	OCR struct {
		Engine         string `mapstructure:"engine" yaml:"engine"`
		Language       string `mapstructure:"language" yaml:"language"`
		PSM            int    `mapstructure:"psm" yaml:"psm"`
		Workers        int    `mapstructure:"workers" yaml:"workers"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		Command        string `mapstructure:"command" yaml:"command"`
	} `mapstructure:"ocr" yaml:"ocr"`

	AI struct {
		Model  string `mapstructure:"model" yaml:"model"`
		APIKey string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Scan struct {
		TodayToken          string   `mapstructure:"today_token" yaml:"today_token"`
		SimilarityThreshold float64  `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
		TieBreak            string   `mapstructure:"tie_break" yaml:"tie_break"`
		StrictDates         bool     `mapstructure:"strict_dates" yaml:"strict_dates"`
		PaymentTypes        []string `mapstructure:"payment_types" yaml:"payment_types"`
		VocabularyFile      string   `mapstructure:"vocabulary_file" yaml:"vocabulary_file"`
	} `mapstructure:"scan" yaml:"scan"`

	Store struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.revolut-ocr")
	v.AddConfigPath(".revolut-ocr")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. The Gemini key is shared with other tools, so it is read unprefixed
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	return load(v)
}

// LoadFile reads configuration from a single YAML file on top of the
// defaults. Environment variables still apply.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ";")
	v.SetDefault("csv.decimal_separator", ",")
	v.SetDefault("csv.include_headers", false)

	// OCR defaults
	v.SetDefault("ocr.engine", "tesseract")
	v.SetDefault("ocr.language", "hun")
	v.SetDefault("ocr.psm", 0)
	v.SetDefault("ocr.workers", 1)
	v.SetDefault("ocr.timeout_seconds", 60)
	v.SetDefault("ocr.command", "tesseract")

	// AI defaults
	v.SetDefault("ai.model", "gemini-1.5-flash")

	// Scan defaults
	v.SetDefault("scan.today_token", "Ma")
	v.SetDefault("scan.similarity_threshold", 0.6)
	v.SetDefault("scan.tie_break", "first")
	v.SetDefault("scan.strict_dates", false)
	v.SetDefault("scan.payment_types", []string{})
	v.SetDefault("scan.vocabulary_file", "")

	// Store defaults
	v.SetDefault("store.path", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}
	if config.CSV.DecimalSeparator != "," && config.CSV.DecimalSeparator != "." {
		return fmt.Errorf("csv.decimal_separator must be ',' or '.', got: %s", config.CSV.DecimalSeparator)
	}
	if config.CSV.DecimalSeparator == config.CSV.Delimiter {
		return fmt.Errorf("csv.decimal_separator and csv.delimiter must differ")
	}

	// Validate OCR configuration
	switch strings.ToLower(config.OCR.Engine) {
	case "tesseract":
	case "gemini":
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when ocr.engine is gemini")
		}
	default:
		return fmt.Errorf("invalid ocr.engine: %s (must be 'tesseract' or 'gemini')", config.OCR.Engine)
	}

	if config.OCR.Workers < 1 || config.OCR.Workers > 64 {
		return fmt.Errorf("ocr.workers must be between 1 and 64, got: %d", config.OCR.Workers)
	}

	if config.OCR.TimeoutSeconds < 0 || config.OCR.TimeoutSeconds > 3600 {
		return fmt.Errorf("ocr.timeout_seconds must be between 0 and 3600, got: %d", config.OCR.TimeoutSeconds)
	}

	if config.OCR.PSM < 0 || config.OCR.PSM > 13 {
		return fmt.Errorf("ocr.psm must be between 0 and 13, got: %d", config.OCR.PSM)
	}

	// Validate scan configuration
	if config.Scan.TodayToken == "" {
		return fmt.Errorf("scan.today_token must not be empty")
	}

	if config.Scan.SimilarityThreshold < 0.0 || config.Scan.SimilarityThreshold >= 1.0 {
		return fmt.Errorf("scan.similarity_threshold must be in [0.0, 1.0), got: %f", config.Scan.SimilarityThreshold)
	}

	switch strings.ToLower(config.Scan.TieBreak) {
	case "first", "best":
	default:
		return fmt.Errorf("invalid scan.tie_break: %s (must be 'first' or 'best')", config.Scan.TieBreak)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	// Parse and set log level
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Configure log format
	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
