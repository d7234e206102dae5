package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/fuelcheck/core/audit"
)

const (
	pdfRowHeight = 6.0
	pdfMaxWidth  = 180.0
)

// PDFRenderer renders the report as an A4 PDF document with one table per
// section.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render lays out the report and returns the PDF bytes.
func (r *PDFRenderer) Render(rep *audit.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetCreationDate(rep.GeneratedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(reportTitle, true)
	pdf.AddPage()

	// Core fonts are cp1252; suburbs and addresses may not be.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, reportTitle, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	for _, line := range summary(rep) {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for _, s := range sections(rep) {
		renderHeading(pdf, tr(s.Title))
		if len(s.Rows) == 0 {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, s.Empty, "", "L", false)
			pdf.Ln(3)
			continue
		}
		renderTable(pdf, tr, s)
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("building PDF: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func renderHeading(pdf *gofpdf.Fpdf, text string) {
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 7, text, "", "L", false)
	pdf.Ln(1)
}

// renderTable sizes columns from their widest string and shrinks them
// proportionally when the table would overflow the page.
func renderTable(pdf *gofpdf.Fpdf, tr func(string) string, s section) {
	pdf.SetFont("Helvetica", "", 10)
	widths := make([]float64, len(s.Header))
	for i, h := range s.Header {
		widths[i] = pdf.GetStringWidth(tr(h)) + 6
	}
	for _, row := range s.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], pdf.GetStringWidth(tr(row[i]))+6)
		}
	}
	var total float64
	for _, w := range widths {
		total += w
	}
	if total > pdfMaxWidth {
		for i := range widths {
			widths[i] *= pdfMaxWidth / total
		}
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range s.Header {
		pdf.CellFormat(widths[i], pdfRowHeight, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range s.Rows {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(widths[i], pdfRowHeight, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}
