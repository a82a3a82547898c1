// =============================================================================
// Sales Analytics - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file and fills
// in defaults for anything left unset.
//
// CONFIGURATION FILE:
//   config.yaml (override with --config). The file is optional: when it does
//   not exist every setting takes its default, so the analysis can be run with
//   no arguments at all.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// InputFile is the pipe-delimited sales data file.
	// Default: "data/sales_data.txt"
	InputFile string `yaml:"input_file"`

	// OutputFile is where the plain-text report is written.
	// Default: "output/sales_report.txt"
	OutputFile string `yaml:"output_file"`

	// XLSXReportFile is where the workbook version of the report is written.
	// Set to "-" to disable the workbook.
	// Default: "output/sales_report.xlsx"
	XLSXReportFile string `yaml:"xlsx_report_file"`

	// InvalidLogDir is the directory for the invalid-record log.
	// Set to "-" to disable the log.
	// Default: "output"
	InvalidLogDir string `yaml:"invalid_log_dir"`

	// =========================================================================
	// PARSING SETTINGS
	// =========================================================================

	// EncodingFallback is the decoding used for lines that are not valid UTF-8.
	// Valid values: "latin-1" (alias "iso-8859-1"), "windows-1252" (alias
	// "cp1252"), "none"
	// With "none" an undecodable line is rejected as a parse error.
	// Default: "latin-1"
	EncodingFallback string `yaml:"encoding_fallback"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	// TopProducts caps the number of rows in the product revenue breakdown.
	// 0 shows every product.
	// Default: 10
	TopProducts *int `yaml:"top_products"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// INTEGRATIONS
	// =========================================================================

	API     APIConfig     `yaml:"api"`
	MockAPI MockAPIConfig `yaml:"mock_api"`
}

// APIConfig configures the product metadata provider.
type APIConfig struct {
	// Enabled turns product enrichment on or off.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// BaseURL is the root of the product metadata API.
	// Products are fetched from {BaseURL}/products/{id}.
	// Default: "http://localhost:8081/api/v1"
	BaseURL string `yaml:"base_url"`

	// Timeout bounds the whole enrichment step.
	// Default: 5s
	Timeout time.Duration `yaml:"timeout"`

	// MaxProducts limits how many distinct products are looked up.
	// Products past the limit get placeholder metadata. 0 means no limit.
	MaxProducts int `yaml:"max_products"`
}

// MockAPIConfig configures the local product metadata server.
type MockAPIConfig struct {
	// Listen is the address the mock API binds to.
	// Default: ":8081"
	Listen string `yaml:"listen"`

	// CatalogFile is an optional XLSX product catalog served by the mock API.
	CatalogFile string `yaml:"catalog_file"`
}

// IsEnabled reports whether product enrichment should run.
func (a APIConfig) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// TopProductsLimit returns the configured product breakdown limit.
func (c *Config) TopProductsLimit() int {
	if c.TopProducts == nil {
		return 10
	}
	return *c.TopProducts
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct with defaults applied.
//   - An error if the file exists but cannot be read, parsed, or validated.
func Load(configPath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file: run on defaults.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with every setting at its default.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.InputFile == "" {
		config.InputFile = "data/sales_data.txt"
	}
	if config.OutputFile == "" {
		config.OutputFile = "output/sales_report.txt"
	}
	if config.XLSXReportFile == "" {
		config.XLSXReportFile = "output/sales_report.xlsx"
	}
	if config.InvalidLogDir == "" {
		config.InvalidLogDir = "output"
	}
	if config.EncodingFallback == "" {
		config.EncodingFallback = "latin-1"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.API.BaseURL == "" {
		config.API.BaseURL = "http://localhost:8081/api/v1"
	}
	if config.API.Timeout == 0 {
		config.API.Timeout = 5 * time.Second
	}
	if config.MockAPI.Listen == "" {
		config.MockAPI.Listen = ":8081"
	}
}

// validate rejects settings that have no meaning.
func validate(config *Config) error {
	switch strings.ToLower(config.EncodingFallback) {
	case "latin-1", "iso-8859-1", "windows-1252", "cp1252", "none":
	default:
		return fmt.Errorf("unknown encoding_fallback %q", config.EncodingFallback)
	}

	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	if config.TopProductsLimit() < 0 {
		return fmt.Errorf("top_products must not be negative")
	}
	if config.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if config.API.MaxProducts < 0 {
		return fmt.Errorf("api.max_products must not be negative")
	}

	return nil
}

// Disabled reports whether an optional output path has been switched off.
func Disabled(path string) bool {
	return path == "-"
}
