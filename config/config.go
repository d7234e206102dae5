// Package config provides configuration management for fuelcheck runs.
// A configuration starts from Default and is overlaid by a YAML or TOML
// file and then by command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/fuelcheck/core/fetch"
	"github.com/gaurav-prasanna/fuelcheck/core/table"
	"github.com/gaurav-prasanna/fuelcheck/crawl"
)

// Configuration validation errors.
var (
	ErrMissingURL          = errors.New("source.url is required")
	ErrInvalidURL          = errors.New("source.url must be an absolute http(s) URL")
	ErrMissingSelector     = errors.New("source.selector is required")
	ErrInvalidTimeout      = errors.New("fetch.timeout_sec must be non-negative")
	ErrInvalidRate         = errors.New("fetch.requests_per_second must be non-negative")
	ErrMissingPriceField   = errors.New("fields.price is required")
	ErrMissingOutputPath   = errors.New("output.path is required")
	ErrInvalidSink         = errors.New("output.sink must be 'csv' or 'sqlite'")
	ErrInvalidReportFormat = errors.New("report.format must be one of: text, markdown, json, pdf")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat    = errors.New("logging.format must be 'text' or 'json'")
	ErrUnknownFileType     = errors.New("config file must be .yaml, .yml or .toml")
)

// Sink names.
const (
	SinkCSV    = "csv"
	SinkSQLite = "sqlite"
)

// Config represents the complete run configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source" toml:"source"`
	Fetch   FetchConfig   `yaml:"fetch" toml:"fetch"`
	Fields  FieldsConfig  `yaml:"fields" toml:"fields"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Report  ReportConfig  `yaml:"report" toml:"report"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// SourceConfig locates the dataset files.
type SourceConfig struct {
	URL      string `yaml:"url" toml:"url"`
	Selector string `yaml:"selector" toml:"selector"`
	// Years are substrings a file name must contain; empty keeps every file.
	Years []string `yaml:"years" toml:"years"`
	// Sheet is the worksheet read from spreadsheets; empty reads the first.
	Sheet string `yaml:"sheet" toml:"sheet"`
}

// FetchConfig controls HTTP requests.
type FetchConfig struct {
	UserAgent         string  `yaml:"user_agent" toml:"user_agent"`
	TimeoutSec        int     `yaml:"timeout_sec" toml:"timeout_sec"`
	RequestsPerSecond float64 `yaml:"requests_per_second" toml:"requests_per_second"`
}

// FieldsConfig names the columns the cleaning rules act on.
type FieldsConfig struct {
	Dates []string `yaml:"dates" toml:"dates"`
	Price string   `yaml:"price" toml:"price"`
}

// OutputConfig defines where the cleaned table goes.
type OutputConfig struct {
	Path string `yaml:"path" toml:"path"`
	Sink string `yaml:"sink" toml:"sink"`
	// Table is the SQLite table name.
	Table string `yaml:"table" toml:"table"`
}

// ReportConfig defines the data-quality report outputs.
type ReportConfig struct {
	Console bool   `yaml:"console" toml:"console"`
	Format  string `yaml:"format" toml:"format"`
	// Path is the report file; empty writes no file. A directory gets
	// quality_report plus the format extension.
	Path string `yaml:"path" toml:"path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the configuration for the NSW FuelCheck dataset.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:      "https://data.nsw.gov.au/data/dataset/fuel-check",
			Selector: crawl.DefaultSelector,
			Years:    []string{"2024", "2025"},
		},
		Fetch: FetchConfig{
			UserAgent: fetch.DefaultUserAgent,
		},
		Fields: FieldsConfig{
			Dates: []string{table.FieldPriceUpdatedDate},
			Price: table.FieldPrice,
		},
		Output: OutputConfig{
			Path:  "final_fuel_data.csv",
			Sink:  SinkCSV,
			Table: "fuel_prices",
		},
		Report: ReportConfig{
			Console: true,
			Format:  "markdown",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML or TOML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFileType, path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return ErrMissingURL
	}
	u, err := url.Parse(c.Source.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, c.Source.URL)
	}
	if strings.TrimSpace(c.Source.Selector) == "" {
		return ErrMissingSelector
	}

	if c.Fetch.TimeoutSec < 0 {
		return ErrInvalidTimeout
	}
	if c.Fetch.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}

	if c.Fields.Price == "" {
		return ErrMissingPriceField
	}

	if c.Output.Path == "" {
		return ErrMissingOutputPath
	}
	if c.Output.Sink != SinkCSV && c.Output.Sink != SinkSQLite {
		return fmt.Errorf("%w: got %q", ErrInvalidSink, c.Output.Sink)
	}

	switch c.Report.Format {
	case "text", "markdown", "json", "pdf":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidReportFormat, c.Report.Format)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return ErrInvalidLogLevel
	}
	if f := strings.ToLower(c.Logging.Format); f != "text" && f != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// Timeout returns the per-request timeout; zero means none.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{URL: %s, Years: %v, Output: %s (%s)}",
		c.Source.URL,
		c.Source.Years,
		c.Output.Path,
		c.Output.Sink,
	)
}
