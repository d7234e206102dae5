// Package load implements the Loader interface.
// It decodes downloaded CSV and Excel files into tables and infers a type
// for each column from its cells.
package load

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gaurav-prasanna/fuelcheck/core"
	"github.com/gaurav-prasanna/fuelcheck/core/table"
)

// UnsupportedFormatError is returned for a format tag the loader cannot decode.
type UnsupportedFormatError struct {
	Format core.Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q", string(e.Format))
}

// ParseError is returned when a buffer cannot be decoded as its declared format.
type ParseError struct {
	Format core.Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const unnamedTemplate = "Unnamed: %d"

var (
	errEmpty    = errors.New("no header row")
	errNoSheets = errors.New("workbook has no sheets")
	utf8BOM     = []byte{0xEF, 0xBB, 0xBF}
)

// TableLoader decodes delimited text and spreadsheets.
type TableLoader struct {
	// Sheet selects the worksheet to read; empty means the first sheet.
	Sheet string
}

// New creates a TableLoader that reads the given sheet of spreadsheets.
func New(sheet string) *TableLoader {
	return &TableLoader{Sheet: sheet}
}

// Load decodes data according to format.
func (l *TableLoader) Load(data []byte, format core.Format) (*table.Table, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case core.FormatDelimited:
		records, err = readDelimited(data)
	case core.FormatSpreadsheet:
		records, err = l.readSpreadsheet(data)
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}

	t, err := build(records)
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	return t, nil
}

func readDelimited(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	// Station names carry stray quotes; keep them as text.
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(records) > 0 && len(rec) > len(records[0]) {
			line, _ := r.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(records[0]), len(rec))
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l *TableLoader) readSpreadsheet(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := l.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errNoSheets
		}
		sheet = sheets[0]
	}

	// Raw values keep dates as serial numbers instead of locale-formatted text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// build turns string records (header first) into a typed table.
func build(records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, errEmpty
	}
	header := columnNames(records[0])
	body := records[1:]

	t := table.New()
	cells := make([]string, len(body))
	for j, name := range header {
		for i, rec := range body {
			cells[i] = ""
			if j < len(rec) {
				cells[i] = rec[j]
			}
		}
		if err := t.AddColumn(name, inferColumn(cells)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// columnNames fills blank header cells and disambiguates repeated names.
func columnNames(raw []string) []string {
	names := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf(unnamedTemplate, i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

// inferColumn types a column from its cells: integers if every non-empty cell
// is an integer, floats if every one is numeric, strings otherwise.
// Empty cells are null in every case.
func inferColumn(cells []string) []table.Value {
	allInt, allNum := true, true
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, err := strconv.ParseInt(c, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			allNum = false
			break
		}
	}

	values := make([]table.Value, len(cells))
	for i, c := range cells {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		switch {
		case allInt:
			n, _ := strconv.ParseInt(trimmed, 10, 64)
			values[i] = table.Int(n)
		case allNum:
			f, _ := strconv.ParseFloat(trimmed, 64)
			values[i] = table.Number(f)
		default:
			values[i] = table.String(c)
		}
	}
	return values
}
