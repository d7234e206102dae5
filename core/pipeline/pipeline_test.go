package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gaurav-prasanna/fuelcheck/config"
	"github.com/gaurav-prasanna/fuelcheck/core/audit"
	"github.com/gaurav-prasanna/fuelcheck/core/fetch"
	"github.com/gaurav-prasanna/fuelcheck/core/load"
	"github.com/gaurav-prasanna/fuelcheck/core/output"
	"github.com/gaurav-prasanna/fuelcheck/logging"
)

const pageURL = "https://portal.test/dataset/fuel-check"

// fakeFetcher serves pages and files from memory; unknown URLs are 404s.
type fakeFetcher struct {
	pages map[string]string
	files map[string][]byte
	calls []string
}

func (f *fakeFetcher) FetchPage(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	if !ok {
		return "", &fetch.NetworkError{URL: url, StatusCode: 404}
	}
	return html, nil
}

func (f *fakeFetcher) FetchFile(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	data, ok := f.files[url]
	if !ok {
		return nil, &fetch.NetworkError{URL: url, StatusCode: 404}
	}
	return data, nil
}

func resourcePage(hrefs ...string) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><section id="dataset-resources"><ul>`)
	for _, h := range hrefs {
		sb.WriteString(`<li><div><ul><li><a href="#">Explore</a></li><li><a href="` + h + `">Download</a></li></ul></div></li>`)
	}
	sb.WriteString(`</ul></section></body></html>`)
	return sb.String()
}

const header = "ServiceStationName,Address,Suburb,Postcode,FuelCode,PriceUpdatedDate,Price\n"

const priceHistory2024 = header +
	`Shell Parramatta,"1 Church St, PARRAMATTA NSW 2150",PARRAMATTA,2150,E10,02/01/2024 08:15:00 AM,189.9` + "\n" +
	`Shell Parramatta,"1 Church St, PARRAMATTA NSW 2150",PARRAMATTA,2150,E10,02/01/2024 08:15:00 AM,189.9` + "\n" +
	`BP Sydney,10 George St SYDNEY NEW SOUTH WALES 2000,SYDNEY,2000,U91,01/01/2024 09:00,179.5` + "\n" +
	`Metro Ryde,3 Lane Cove Rd RYDE NSW 2112,RYDE,2112,E10,not-a-date,` + "\n"

// priceHistory2025 builds a workbook whose first row duplicates a row of the
// CSV once both are cleaned. Dates are Excel serial numbers.
func priceHistory2025(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"ServiceStationName", "Address", "Suburb", "Postcode", "FuelCode", "PriceUpdatedDate", "Price"},
		{"Shell Parramatta", "1 Church St, PARRAMATTA NSW 2150", "PARRAMATTA", 2150, "E10", 45293.34375, 189.9},
		{"7-Eleven Bondi", "1 Campbell Pde, BONDI BEACH NSW 2026", "BONDI BEACH", 2026, "U91", 45292.25, -1.0},
		{"7-Eleven Bondi", "1 Campbell Pde, BONDI BEACH NSW 2026", "BONDI BEACH", 2026, "U91", 45292.25, -1.0},
		{"Coles Express", "9 High St NEWTOWN NSW 20000", "NEWTOWN", 20000, "P98", 45294.0, 201.9},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func portal(t *testing.T) *fakeFetcher {
	return &fakeFetcher{
		pages: map[string]string{
			pageURL: resourcePage(
				"/files/price_history_2024.csv",
				"/files/price_history_2025.xlsx",
				"/files/notes_2024.pdf",
				"/files/price_history_2023.csv",
				"/files/missing_2024.csv",
				"/files/broken_2025.xlsx",
			),
		},
		files: map[string][]byte{
			"https://portal.test/files/price_history_2024.csv":  []byte(priceHistory2024),
			"https://portal.test/files/price_history_2025.xlsx": priceHistory2025(t),
			"https://portal.test/files/price_history_2023.csv":  []byte(priceHistory2024),
			"https://portal.test/files/broken_2025.xlsx":        []byte("not a workbook"),
		},
	}
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Source.URL = pageURL
	cfg.Output.Path = filepath.Join(dir, "final_fuel_data.csv")
	cfg.Report.Console = false
	return cfg
}

func newTestPipeline(cfg *config.Config, f *fakeFetcher, logs *bytes.Buffer) *Pipeline {
	p := New(cfg, f, load.New(""), output.NewCSV(), logging.New("debug", "text", logs))
	p.newID = func() string { return "run-test" }
	return p
}

const wantOutput = "ServiceStationName,Address,Suburb,Postcode,FuelCode,PriceUpdatedDate,Price,State\n" +
	"BP Sydney,10 George St,Sydney,2000,U91,2024-01-01,179.5,NSW\n" +
	"7-Eleven Bondi,1 Campbell Pde,Bondi Beach,2026,U91,2024-01-01,-1,NSW\n" +
	"Shell Parramatta,1 Church St,Parramatta,2150,E10,2024-01-02,189.9,NSW\n" +
	"Coles Express,9 High St,Newtown,20000,P98,2024-01-03,201.9,NSW\n" +
	"Metro Ryde,3 Lane Cove Rd,Ryde,2112,E10,,,NSW\n"

func TestRun_EndToEnd(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t.TempDir())
	f := portal(t)

	res, err := newTestPipeline(cfg, f, &logs).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-test", res.RunID)
	assert.Equal(t, 2, res.Collected)
	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, 6, res.RowsBefore)
	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, 5, res.RowsAfter)
	assert.Equal(t, cfg.Output.Path, res.OutputPath)

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, wantOutput, string(data))

	assert.NotContains(t, f.calls, "https://portal.test/files/price_history_2023.csv")
	assert.NotContains(t, f.calls, "https://portal.test/files/notes_2024.pdf")

	log := logs.String()
	assert.Contains(t, log, "run_id=run-test")
	assert.Contains(t, log, `msg="skipping unsupported file" run_id=run-test name=notes_2024.pdf`)
	assert.Contains(t, log, `msg="failed to download file"`)
	assert.Contains(t, log, `msg="failed to load file"`)
}

func TestRun_SortsByPriceUpdatedDate(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t.TempDir())
	cfg.Fields.Dates = []string{"AtDate", "PriceUpdatedDate"}

	_, err := newTestPipeline(cfg, portal(t), &logs).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, wantOutput, string(data))
	assert.NotContains(t, logs.String(), "sort field missing")
}

func TestRun_Report(t *testing.T) {
	var logs, console bytes.Buffer
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Report.Format = "json"
	cfg.Report.Path = filepath.Join(dir, "reports", "quality.json")

	p := newTestPipeline(cfg, portal(t), &logs)
	p.Console = &console

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	rep := res.Report
	require.NotNil(t, rep)
	assert.Equal(t, 5, rep.Rows)
	assert.Equal(t, 8, rep.Columns)
	assert.Equal(t, []audit.MissingStat{
		{Column: "PriceUpdatedDate", Count: 1, Percent: 20},
		{Column: "Price", Count: 1, Percent: 20},
	}, rep.Missing)
	require.NotNil(t, rep.Price)
	assert.Equal(t, 2, rep.Price.Invalid)
	assert.Equal(t, 40.0, rep.Price.Percent)
	assert.Equal(t, 179.5, rep.Price.Min)
	assert.Equal(t, 201.9, rep.Price.Max)
	require.NotNil(t, rep.Postcode)
	assert.Equal(t, []string{"20000"}, rep.Postcode.Values)

	assert.Contains(t, console.String(), "Invalid postcodes (1)")

	assert.Equal(t, cfg.Report.Path, res.ReportPath)
	data, err := os.ReadFile(cfg.Report.Path)
	require.NoError(t, err)
	var decoded audit.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-test", decoded.RunID)
	assert.Equal(t, 5, decoded.Rows)
}

func TestRun_ReportDirectory(t *testing.T) {
	for _, tc := range []struct {
		name   string
		format string
		path   func(dir string) string
		want   string
	}{
		{"existing directory", "json", func(dir string) string { return dir }, "quality_report.json"},
		{"trailing separator", "markdown", func(dir string) string { return filepath.Join(dir, "reports") + "/" }, filepath.Join("reports", "quality_report.md")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			dir := t.TempDir()
			cfg := testConfig(dir)
			cfg.Report.Format = tc.format
			cfg.Report.Path = tc.path(dir)

			res, err := newTestPipeline(cfg, portal(t), &logs).Run(context.Background())
			require.NoError(t, err)

			want := filepath.Join(dir, tc.want)
			assert.Equal(t, want, res.ReportPath)
			assert.FileExists(t, want)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	var logs bytes.Buffer
	dir := t.TempDir()

	first := testConfig(dir)
	first.Output.Path = filepath.Join(dir, "first.csv")
	second := testConfig(dir)
	second.Output.Path = filepath.Join(dir, "second.csv")

	_, err := newTestPipeline(first, portal(t), &logs).Run(context.Background())
	require.NoError(t, err)
	_, err = newTestPipeline(second, portal(t), &logs).Run(context.Background())
	require.NoError(t, err)

	a, err := os.ReadFile(first.Output.Path)
	require.NoError(t, err)
	b, err := os.ReadFile(second.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_PageFetchFails(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t.TempDir())

	res, err := newTestPipeline(cfg, &fakeFetcher{}, &logs).Run(context.Background())

	var netErr *fetch.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, 404, netErr.StatusCode)
	assert.Equal(t, 0, res.Collected)
	assert.Empty(t, res.OutputPath)
	assert.NoFileExists(t, cfg.Output.Path)
	assert.Contains(t, logs.String(), "tables=0")
}

func TestRun_NoTables(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t.TempDir())
	f := &fakeFetcher{pages: map[string]string{
		pageURL: resourcePage("/files/notes_2024.pdf", "/files/gone_2025.csv"),
	}}

	res, err := newTestPipeline(cfg, f, &logs).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Collected)
	assert.Equal(t, 2, res.Skipped)
	assert.Nil(t, res.Report)
	assert.Empty(t, res.OutputPath)
	assert.NoFileExists(t, cfg.Output.Path)
	assert.Contains(t, logs.String(), "no data was collected")
}

func TestRun_SaveFails(t *testing.T) {
	var logs bytes.Buffer
	dir := t.TempDir()
	cfg := testConfig(dir)
	// A directory cannot be replaced by the CSV sink.
	cfg.Output.Path = filepath.Join(dir, "taken")
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Output.Path, "child"), 0755))

	_, err := newTestPipeline(cfg, portal(t), &logs).Run(context.Background())
	assert.ErrorContains(t, err, "saving output")
}

func TestRun_SQLiteSink(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t.TempDir())
	cfg.Output.Path = filepath.Join(filepath.Dir(cfg.Output.Path), "fuel.db")

	p := New(cfg, portal(t), load.New(""), output.NewSQLite(""), logging.New("info", "json", &logs))
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, res.RowsAfter)
	assert.FileExists(t, cfg.Output.Path)
}
