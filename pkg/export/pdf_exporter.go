package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 190.0
	lineHeight  = 6.0
	headerCellH = 8.0
)

// PDFExporter renders datasets into an A4 document with an optional summary block
// followed by a table whose cells wrap long text.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document from the dataset.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	if len(data.Summary) > 0 {
		for _, field := range data.Summary {
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(50, lineHeight, tr(field.Label), "", 0, "", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(0, lineHeight, tr(field.Value), "", 1, "", false, 0, "")
		}
		pdf.Ln(4)
	}

	colWidth := pageWidth / float64(len(data.Headers))
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, headerCellH, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		lines := 1
		cells := make([][]string, len(data.Headers))
		for i, header := range data.Headers {
			cells[i] = pdf.SplitText(tr(row[header]), colWidth-2)
			if len(cells[i]) == 0 {
				cells[i] = []string{""}
			}
			if len(cells[i]) > lines {
				lines = len(cells[i])
			}
		}
		rowHeight := float64(lines) * lineHeight
		_, pageH := pdf.GetPageSize()
		_, _, _, bottom := pdf.GetMargins()
		if pdf.GetY()+rowHeight > pageH-bottom {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		for i := range data.Headers {
			pdf.Rect(x+float64(i)*colWidth, y, colWidth, rowHeight, "D")
			for j, line := range cells[i] {
				pdf.SetXY(x+float64(i)*colWidth+1, y+float64(j)*lineHeight)
				pdf.CellFormat(colWidth-2, lineHeight, line, "", 0, "", false, 0, "")
			}
		}
		pdf.SetXY(x, y+rowHeight)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) ContentType() string { return "application/pdf" }

func (e *PDFExporter) Extension() string { return "pdf" }
