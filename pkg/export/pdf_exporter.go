package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// MetaEntry is one label/value pair in the document header block.
type MetaEntry struct {
	Label string
	Value string
}

// Document describes a report layout: a centered title, a header block of
// label/value lines, a table body, and trailing summary lines.
type Document struct {
	Title   string
	Meta    []MetaEntry
	Table   Dataset
	Summary []string
}

// PDFExporter renders datasets and documents into tabular PDFs.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		e.writeTitle(pdf, title)
	}
	e.writeTable(pdf, data)

	return output(pdf)
}

// RenderDocument creates a full report PDF: title, header block, table,
// and summary lines.
func (e *PDFExporter) RenderDocument(doc Document) ([]byte, error) {
	if len(doc.Table.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	e.writeTitle(pdf, doc.Title)

	pdf.SetFont("Arial", "", 11)
	for _, entry := range doc.Meta {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", entry.Label, entry.Value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(doc.Table.Rows) > 0 {
		e.writeTable(pdf, doc.Table)
	} else {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 7, "No hay datos de alumnos en este reporte.", "", 1, "L", false, 0, "")
	}

	if len(doc.Summary) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		for _, line := range doc.Summary {
			pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
		}
	}

	return output(pdf)
}

func (e *PDFExporter) writeTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
	pdf.Ln(5)
}

func (e *PDFExporter) writeTable(pdf *gofpdf.Fpdf, data Dataset) {
	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
