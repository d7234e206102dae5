package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gaurav-prasanna/fuelcheck/config"
	"github.com/gaurav-prasanna/fuelcheck/core"
	"github.com/gaurav-prasanna/fuelcheck/core/fetch"
	"github.com/gaurav-prasanna/fuelcheck/core/load"
	"github.com/gaurav-prasanna/fuelcheck/core/output"
	"github.com/gaurav-prasanna/fuelcheck/core/pipeline"
)

// Run flag variables.
var (
	flagOutput       string
	flagSink         string
	flagReportFormat string
	flagReportPath   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Download, clean and merge the dataset files",
	Long: `Run fetches the dataset page, downloads every CSV and Excel file whose name
contains one of the year tokens, cleans each table, merges them, removes
duplicate rows and writes the result. A data-quality report is printed.

Examples:
  fuelcheck run
  fuelcheck run --years 2025 --output out/fuel.csv
  fuelcheck run --sink sqlite --output fuel.db --report-format pdf --report-path report.pdf`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&flagOutput, "output", "", "Output file path")
	runCmd.Flags().StringVar(&flagSink, "sink", "", "Output sink: csv or sqlite")
	runCmd.Flags().StringVar(&flagReportFormat, "report-format", "", "Report file format: text, markdown, json or pdf")
	runCmd.Flags().StringVar(&flagReportPath, "report-path", "", "Report file path (default: no report file)")
}

// applyRunFlags copies the run command's flags into cfg. Commands without
// these flags are unaffected.
func applyRunFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Lookup("output") == nil {
		return
	}
	if flags.Changed("output") {
		cfg.Output.Path = flagOutput
	}
	if flags.Changed("sink") {
		cfg.Output.Sink = flagSink
	}
	if flags.Changed("report-format") {
		cfg.Report.Format = flagReportFormat
	}
	if flags.Changed("report-path") {
		cfg.Report.Path = flagReportPath
	}
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)
	logger.Debug("loaded configuration", "config", cfg.String())

	p := pipeline.New(cfg, newFetcher(cfg), load.New(cfg.Source.Sheet), newSink(cfg), logger)
	if cfg.Report.Console {
		p.Console = cmd.OutOrStdout()
	}

	res, err := p.Run(cmd.Context())
	if err != nil {
		var netErr *fetch.NetworkError
		if !errors.As(err, &netErr) || res == nil || res.Collected > 0 {
			return err
		}
		// Unreachable source page: already logged, nothing collected.
	}

	out := cmd.OutOrStdout()
	if res.OutputPath == "" {
		fmt.Fprintln(out, "No data was collected; nothing written.")
		return nil
	}
	fmt.Fprintf(out, "✓ Written: %s (%d rows from %d files, %d duplicates removed)\n",
		res.OutputPath, res.RowsAfter, res.Collected, res.Removed)
	if res.ReportPath != "" {
		fmt.Fprintf(out, "✓ Report: %s\n", res.ReportPath)
	}
	return nil
}

// newSink creates the Sink named by the configuration.
func newSink(cfg *config.Config) core.Sink {
	if cfg.Output.Sink == config.SinkSQLite {
		return output.NewSQLite(cfg.Output.Table)
	}
	return output.NewCSV()
}
