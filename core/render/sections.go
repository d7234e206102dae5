// Package render provides output renderers for the data-quality report.
// Every renderer lays out the same sections; only the encoding differs.
package render

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gaurav-prasanna/fuelcheck/core"
	"github.com/gaurav-prasanna/fuelcheck/core/audit"
)

// ErrUnknownFormat is returned by New for an unrecognised report format.
var ErrUnknownFormat = errors.New("unknown report format")

// New returns the renderer for a report format name.
func New(format string) (core.Renderer, error) {
	switch format {
	case "text":
		return NewTextRenderer(), nil
	case "markdown":
		return NewMarkdownRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// section is one titled block of the report. A section with no rows
// prints Empty instead of a table.
type section struct {
	Title  string
	Header []string
	Rows   [][]string
	Empty  string
}

const reportTitle = "Data quality report"

func summary(r *audit.Report) []string {
	return []string{
		"Run: " + r.RunID,
		"Generated: " + r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		fmt.Sprintf("Rows: %d  Columns: %d", r.Rows, r.Columns),
	}
}

func sections(r *audit.Report) []section {
	missing := section{
		Title:  "Missing values",
		Header: []string{"Column", "Missing", "Percent"},
		Empty:  "No missing values.",
	}
	for _, m := range r.Missing {
		missing.Rows = append(missing.Rows, []string{m.Column, strconv.Itoa(m.Count), pct(m.Percent)})
	}
	out := []section{missing}

	if p := r.Price; p != nil {
		rows := [][]string{
			{"Invalid", strconv.Itoa(p.Invalid)},
			{"Invalid percent", pct(p.Percent)},
			{"Valid", strconv.Itoa(p.Valid)},
		}
		if p.Valid > 0 {
			rows = append(rows, []string{"Min", num(p.Min)}, []string{"Max", num(p.Max)})
		}
		out = append(out, section{
			Title:  "Invalid price (" + p.Field + ")",
			Header: []string{"Measure", "Value"},
			Rows:   rows,
		})
	}

	if pc := r.Postcode; pc != nil {
		s := section{
			Title:  fmt.Sprintf("Invalid postcodes (%d)", pc.Invalid),
			Header: []string{"Value"},
			Empty:  "All postcodes are valid.",
		}
		for _, v := range pc.Values {
			s.Rows = append(s.Rows, []string{v})
		}
		out = append(out, s)
	}
	return out
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
