// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible defaults.
// An optional YAML file (CONFIG_FILE) can supply the same keys; environment
// variables always win over the file, so a deployment can override one value
// without editing the file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Shimizu-Technology/finsight-api/internal/logger"
	"github.com/Shimizu-Technology/finsight-api/internal/services/pdf"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port            string `yaml:"port"`
	GinMode         string `yaml:"gin_mode"` // "debug", "release", or "test"
	ShutdownTimeout int    `yaml:"shutdown_timeout_seconds"`

	// Logging
	LogLevel  string `yaml:"log_level"`  // zerolog level name
	LogFormat string `yaml:"log_format"` // "console" or "json"

	// Uploads
	MaxUploadMB int `yaml:"max_upload_mb"`

	// PDF extraction
	TableBackend  string `yaml:"table_backend"`  // "rows" or "geometric"
	PDFValidation string `yaml:"pdf_validation"` // "off", "relaxed" or "strict"
	TempDir       string `yaml:"temp_dir"`       // scratch dir for the geometric backend
}

// defaults returns the configuration used when nothing is set.
func defaults() *Config {
	return &Config{
		Port:            "8000",
		GinMode:         "debug",
		ShutdownTimeout: 30,
		LogLevel:        "info",
		LogFormat:       logger.FormatConsole,
		MaxUploadMB:     50,
		TableBackend:    pdf.BackendRows,
		PDFValidation:   pdf.ValidationRelaxed,
		TempDir:         "",
	}
}

// Load reads configuration from CONFIG_FILE (if set) and then environment
// variables, and validates the result.
func Load() (*Config, error) {
	cfg := defaults()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.ShutdownTimeout = getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeout)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.MaxUploadMB = getEnvInt("MAX_UPLOAD_MB", cfg.MaxUploadMB)
	cfg.TableBackend = getEnv("TABLE_BACKEND", cfg.TableBackend)
	cfg.PDFValidation = getEnv("PDF_VALIDATION", cfg.PDFValidation)
	cfg.TempDir = getEnv("TEMP_DIR", cfg.TempDir)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MaxUploadBytes is the request body cap for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// PDFOptions maps the extraction settings onto pdf.Options.
func (c *Config) PDFOptions() pdf.Options {
	return pdf.Options{
		Backend:    c.TableBackend,
		Validation: c.PDFValidation,
		TempDir:    c.TempDir,
	}
}

// loadFile overlays values from a YAML file onto cfg.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}

	switch c.TableBackend {
	case pdf.BackendRows, pdf.BackendGeometric:
	default:
		return fmt.Errorf("TABLE_BACKEND must be %q or %q, got %q", pdf.BackendRows, pdf.BackendGeometric, c.TableBackend)
	}

	switch c.PDFValidation {
	case pdf.ValidationOff, pdf.ValidationRelaxed, pdf.ValidationStrict:
	default:
		return fmt.Errorf("PDF_VALIDATION must be off, relaxed or strict, got %q", c.PDFValidation)
	}

	switch c.LogFormat {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	if _, err := logger.New(c.LogLevel, c.LogFormat); err != nil {
		return err
	}

	if c.MaxUploadMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_MB must be at least 1, got %d", c.MaxUploadMB)
	}
	if c.ShutdownTimeout < 1 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be at least 1, got %d", c.ShutdownTimeout)
	}
	return nil
}

// getEnv reads an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}
