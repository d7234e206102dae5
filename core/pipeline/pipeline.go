// Package pipeline runs one scrape-and-clean pass: fetch the portal page,
// collect and clean every matching dataset file, merge the results, audit
// them and hand the final table to the sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/gaurav-prasanna/fuelcheck/config"
	"github.com/gaurav-prasanna/fuelcheck/core"
	"github.com/gaurav-prasanna/fuelcheck/core/address"
	"github.com/gaurav-prasanna/fuelcheck/core/audit"
	"github.com/gaurav-prasanna/fuelcheck/core/dedup"
	"github.com/gaurav-prasanna/fuelcheck/core/fetch"
	"github.com/gaurav-prasanna/fuelcheck/core/normalize"
	"github.com/gaurav-prasanna/fuelcheck/core/render"
	"github.com/gaurav-prasanna/fuelcheck/core/table"
	"github.com/gaurav-prasanna/fuelcheck/crawl"
)

// DefaultReportName is the report file stem used when report.path names a
// directory. The renderer supplies the extension.
const DefaultReportName = "quality_report"

// Result summarises a run.
type Result struct {
	RunID string
	// Collected counts the tables that were downloaded and loaded.
	Collected int
	// Skipped counts matching resources that could not be used.
	Skipped int
	// RowsBefore and RowsAfter bracket the deduplication of the merged table.
	RowsBefore int
	RowsAfter  int
	Removed    int
	Report     *audit.Report
	// OutputPath is empty when nothing was written.
	OutputPath string
	ReportPath string
}

// Pipeline wires the collaborators of a run.
type Pipeline struct {
	cfg     *config.Config
	fetcher core.Fetcher
	loader  core.Loader
	sink    core.Sink
	auditor *audit.Auditor
	logger  *slog.Logger

	// Console receives the text report; nil disables it.
	Console io.Writer

	newID func() string
}

// New creates a Pipeline. The configuration is not copied; it must not be
// changed while a run is in progress.
func New(cfg *config.Config, fetcher core.Fetcher, loader core.Loader, sink core.Sink, logger *slog.Logger) *Pipeline {
	var console io.Writer
	if cfg.Report.Console {
		console = os.Stdout
	}
	return &Pipeline{
		cfg:     cfg,
		fetcher: fetcher,
		loader:  loader,
		sink:    sink,
		auditor: audit.New(cfg.Fields.Price),
		logger:  logger,
		Console: console,
		newID:   uuid.NewString,
	}
}

// Run executes the pipeline once. A failure to fetch the source page aborts
// the run; failures of individual files are logged and the file is skipped.
// A run that collects no tables writes nothing and returns a nil error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: p.newID()}
	log := p.logger.With("run_id", res.RunID)

	log.Info("fetching source page", "url", p.cfg.Source.URL)
	html, err := p.fetcher.FetchPage(ctx, p.cfg.Source.URL)
	if err != nil {
		log.Error("failed to fetch source page", "url", p.cfg.Source.URL, "error", err)
		log.Info("collection finished", "tables", 0)
		return res, fmt.Errorf("fetching source page: %w", err)
	}

	resources, err := crawl.Discover(html, p.cfg.Source.URL, p.cfg.Source.Selector, p.cfg.Source.Years)
	if err != nil {
		return res, fmt.Errorf("discovering resources: %w", err)
	}
	log.Info("discovered resources", "count", len(resources), "years", p.cfg.Source.Years)

	var tables []*table.Table
	for _, r := range resources {
		if r.Format == "" {
			log.Warn("skipping unsupported file", "name", r.Name, "url", r.URL)
			res.Skipped++
			continue
		}
		t, err := p.collect(ctx, r, log)
		if err != nil {
			p.logSkip(log, r, err)
			res.Skipped++
			continue
		}
		tables = append(tables, t)
	}
	res.Collected = len(tables)
	log.Info("collection finished", "tables", res.Collected, "skipped", res.Skipped)

	if len(tables) == 0 {
		log.Warn("no data was collected")
		return res, nil
	}

	merged := table.Merge(tables...)
	res.RowsBefore = merged.Len()
	merged, res.Removed = dedup.Rows(merged)
	res.RowsAfter = merged.Len()
	log.Info("merged tables", "rows", res.RowsAfter, "removed", res.Removed)

	if !merged.SortStable(table.FieldPriceUpdatedDate) {
		log.Warn("sort field missing; keeping merge order", "field", table.FieldPriceUpdatedDate)
	}
	normalize.CoercePrice(merged, []string{p.cfg.Fields.Price})

	res.Report = p.auditor.Audit(merged, res.RunID)
	if pc := res.Report.Postcode; pc != nil && pc.Invalid > 0 {
		log.Warn("invalid postcodes found", "count", pc.Invalid)
	}
	converted := normalize.Postcodes(merged)
	log.Debug("converted postcodes", "count", converted)

	if err := p.sink.Save(merged, p.cfg.Output.Path); err != nil {
		return res, fmt.Errorf("saving output: %w", err)
	}
	res.OutputPath = p.cfg.Output.Path
	log.Info("saved output", "path", res.OutputPath, "rows", merged.Len(), "columns", merged.Width())

	if err := p.writeReport(res); err != nil {
		return res, err
	}
	return res, nil
}

// collect downloads, decodes and cleans one resource.
func (p *Pipeline) collect(ctx context.Context, r core.Resource, log *slog.Logger) (*table.Table, error) {
	data, err := p.fetcher.FetchFile(ctx, r.URL)
	if err != nil {
		return nil, err
	}
	log.Info("downloaded file", "name", r.Name, "size", humanize.Bytes(uint64(len(data))))

	t, err := p.loader.Load(data, r.Format)
	if err != nil {
		return nil, err
	}

	normalize.Dates(t, p.cfg.Fields.Dates)
	t, removed := dedup.Rows(t)
	normalize.Suburbs(t)
	normalize.AddressState(t)
	if !address.Apply(t) {
		log.Debug("address columns missing; addresses left as is", "name", r.Name)
	}

	log.Info("loaded table", "name", r.Name, "rows", t.Len(), "columns", t.Width(), "removed", removed)
	return t, nil
}

func (p *Pipeline) logSkip(log *slog.Logger, r core.Resource, err error) {
	var netErr *fetch.NetworkError
	if errors.As(err, &netErr) {
		log.Error("failed to download file", "name", r.Name, "url", r.URL, "error", err)
		return
	}
	log.Warn("failed to load file", "name", r.Name, "format", r.Format, "error", err)
}

// writeReport prints the text report and writes the report file, if any.
func (p *Pipeline) writeReport(res *Result) error {
	if p.Console != nil {
		out, err := render.NewTextRenderer().Render(res.Report)
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
		if _, err := p.Console.Write(out); err != nil {
			return fmt.Errorf("printing report: %w", err)
		}
	}

	path := p.cfg.Report.Path
	if path == "" {
		return nil
	}
	r, err := render.New(p.cfg.Report.Format)
	if err != nil {
		return err
	}
	out, err := r.Render(res.Report)
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	path = reportFile(path, r.Extension())
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	res.ReportPath = path
	p.logger.Info("wrote report", "run_id", res.RunID, "path", path, "format", p.cfg.Report.Format)
	return nil
}

// reportFile names the report inside path when path is a directory, either
// one that exists or one written with a trailing separator.
func reportFile(path, ext string) string {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return filepath.Join(path, DefaultReportName+ext)
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return filepath.Join(path, DefaultReportName+ext)
	}
	return path
}
