package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/gaurav-prasanna/fuelcheck/core/audit"
)

// TextRenderer prints the report as aligned plain-text tables for a terminal.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render lays out the report with columns padded to their display width.
func (r *TextRenderer) Render(rep *audit.Report) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(reportTitle + "\n")
	sb.WriteString(strings.Repeat("=", len(reportTitle)) + "\n")
	for _, line := range summary(rep) {
		sb.WriteString(line + "\n")
	}

	for _, s := range sections(rep) {
		sb.WriteString("\n" + s.Title + "\n")
		sb.WriteString(strings.Repeat("-", runewidth.StringWidth(s.Title)) + "\n")
		if len(s.Rows) == 0 {
			sb.WriteString(s.Empty + "\n")
			continue
		}
		widths := columnWidths(s.Header, s.Rows, 0)
		writeAligned(&sb, s.Header, widths, "", "  ", "")
		for _, row := range s.Rows {
			writeAligned(&sb, row, widths, "", "  ", "")
		}
	}
	return []byte(sb.String()), nil
}

// Extension returns the file extension for text output.
func (r *TextRenderer) Extension() string {
	return ".txt"
}

// columnWidths returns the display width of the widest cell per column,
// never less than floor.
func columnWidths(header []string, rows [][]string, floor int) []int {
	widths := make([]int, len(header))
	for i := range widths {
		widths[i] = max(floor, runewidth.StringWidth(header[i]))
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}
	return widths
}

// writeAligned writes one row, padding every cell to its column width.
// Trailing padding on the last cell is dropped when closing is empty.
func writeAligned(sb *strings.Builder, row []string, widths []int, opening, sep, closing string) {
	sb.WriteString(opening)
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(cell)
		if closing == "" && i == len(widths)-1 {
			break
		}
		sb.WriteString(strings.Repeat(" ", w-runewidth.StringWidth(cell)))
	}
	sb.WriteString(closing)
	sb.WriteString("\n")
}
