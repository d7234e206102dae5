package render

import (
	"strings"

	"github.com/gaurav-prasanna/fuelcheck/core/audit"
)

// MarkdownRenderer writes the report as Markdown with pipe tables.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render produces a Markdown document; table columns are padded so the
// source reads as well as the rendered output.
func (r *MarkdownRenderer) Render(rep *audit.Report) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("# " + reportTitle + "\n\n")
	for _, line := range summary(rep) {
		sb.WriteString("- " + line + "\n")
	}

	for _, s := range sections(rep) {
		sb.WriteString("\n## " + s.Title + "\n\n")
		if len(s.Rows) == 0 {
			sb.WriteString(s.Empty + "\n")
			continue
		}
		header := escapeRow(s.Header)
		rows := make([][]string, len(s.Rows))
		for i, row := range s.Rows {
			rows[i] = escapeRow(row)
		}
		widths := columnWidths(header, rows, 3)
		writeAligned(&sb, header, widths, "| ", " | ", " |")
		sep := make([]string, len(widths))
		for i, w := range widths {
			sep[i] = strings.Repeat("-", w)
		}
		writeAligned(&sb, sep, widths, "| ", " | ", " |")
		for _, row := range rows {
			writeAligned(&sb, row, widths, "| ", " | ", " |")
		}
	}
	return []byte(sb.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func escapeRow(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
