// Package cmd implements the CLI commands for fuelcheck using Cobra.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/fuelcheck/config"
	"github.com/gaurav-prasanna/fuelcheck/core/fetch"
	"github.com/gaurav-prasanna/fuelcheck/logging"
)

// Persistent flag variables.
var (
	flagConfig    string
	flagURL       string
	flagYears     []string
	flagLogLevel  string
	flagLogFormat string
	flagTimeout   int
)

var rootCmd = &cobra.Command{
	Use:   "fuelcheck",
	Short: "fuelcheck collects and cleans fuel price datasets",
	Long: `fuelcheck scrapes an open-data portal page for fuel price files,
downloads the CSV and Excel files for the selected years, cleans and merges
them into one table and writes it out together with a data-quality report.

Usage:
  fuelcheck run [flags]
  fuelcheck links [flags]
  fuelcheck describe [flags]`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (.yaml, .yml or .toml)")
	pf.StringVar(&flagURL, "url", "", "Dataset page URL")
	pf.StringSliceVar(&flagYears, "years", nil, "Year tokens a file name must contain (comma separated)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
	pf.IntVar(&flagTimeout, "timeout", 0, "Per-request timeout in seconds (0 for none)")
}

// Execute runs the root command. An interrupt cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// loadConfig builds the run configuration: defaults, then the config file,
// then any flags given on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Source.URL = flagURL
	}
	if flags.Changed("years") {
		cfg.Source.Years = flagYears
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = flagLogFormat
	}
	if flags.Changed("timeout") {
		cfg.Fetch.TimeoutSec = flagTimeout
	}
	applyRunFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
}

func newFetcher(cfg *config.Config) *fetch.HTTPFetcher {
	return fetch.New(fetch.Options{
		UserAgent:         cfg.Fetch.UserAgent,
		Timeout:           cfg.Fetch.Timeout(),
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
	})
}
