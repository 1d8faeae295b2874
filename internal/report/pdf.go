// Package report holds the PDF and workbook building blocks shared by the
// hourly and TMY reports.
package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// AppName is printed as the title of every report.
const AppName = "PVInsight"

const (
	margin     = 20.0
	bodySize   = 8.0
	rowHeight  = 5.5
	footerSize = 8.0
)

// Document wraps a gofpdf document with the report layout.
type Document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewDocument starts an A4 portrait report with a title and a
// generated-at footer on every page.
func NewDocument(title string, generatedAt time.Time) *Document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AliasNbPages("")
	d := &Document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	stamp := generatedAt.Format("2006-01-02 15:04")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", footerSize)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 4, d.tr(fmt.Sprintf("%s — page %d/{nb}", stamp, pdf.PageNo())), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, d.tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	return d
}

// Heading writes a section title. Level 1 is larger than level 2.
func (d *Document) Heading(text string, level int) {
	size := 12.0
	if level > 1 {
		size = 10
	}
	d.pdf.Ln(2)
	d.pdf.SetFont("Helvetica", "B", size)
	d.pdf.CellFormat(0, 7, d.tr(text), "", 1, "L", false, 0, "")
	d.pdf.Ln(1)
}

// Paragraph writes wrapped body text.
func (d *Document) Paragraph(text string) {
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.MultiCell(0, 4.5, d.tr(text), "", "L", false)
	d.pdf.Ln(1)
}

// Table writes a grid with a shaded header row. Columns after the first
// are right-aligned.
func (d *Document) Table(header []string, rows [][]string, widths []float64) {
	d.pdf.SetFont("Helvetica", "B", bodySize)
	d.pdf.SetFillColor(245, 245, 245)
	d.pdf.SetDrawColor(128, 128, 128)
	for i, h := range header {
		d.pdf.CellFormat(widths[i], rowHeight, d.tr(h), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont("Helvetica", "", bodySize)
	for _, row := range rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			d.pdf.CellFormat(widths[i], rowHeight, d.tr(cell), "1", 0, align, false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(3)
}

// KeyValues writes a two-column table without a header.
func (d *Document) KeyValues(rows [][2]string) {
	d.pdf.SetFont("Helvetica", "", bodySize)
	d.pdf.SetDrawColor(128, 128, 128)
	for _, kv := range rows {
		d.pdf.CellFormat(85, rowHeight, d.tr(kv[0]), "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(55, rowHeight, d.tr(kv[1]), "1", 1, "R", false, 0, "")
	}
	d.pdf.Ln(3)
}

// BarChart draws a simple vertical bar chart. NaN values are drawn as zero.
func (d *Document) BarChart(title, yLabel string, categories []string, values []float64) {
	const (
		width  = 130.0
		height = 60.0
		labelH = 12.0
	)
	pdf := d.pdf
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+height+labelH+12 > pageH-margin {
		pdf.AddPage()
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, d.tr(title), "", 1, "L", false, 0, "")

	x0, y0 := pdf.GetX()+10, pdf.GetY()+4
	pdf.SetDrawColor(80, 80, 80)
	pdf.Line(x0, y0, x0, y0+height)
	pdf.Line(x0, y0+height, x0+width, y0+height)

	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(x0-8, y0-1, d.tr(yLabel))

	maxV := 0.0
	for _, v := range values {
		if !math.IsNaN(v) && v > maxV {
			maxV = v
		}
	}
	if len(values) > 0 && maxV > 0 {
		slot := width / float64(len(values))
		barW := slot * 0.7
		pdf.SetFillColor(70, 130, 180)
		for i, v := range values {
			if math.IsNaN(v) || v <= 0 {
				continue
			}
			h := v / maxV * (height - 4)
			pdf.Rect(x0+float64(i)*slot+(slot-barW)/2, y0+height-h, barW, h, "F")
		}
		pdf.Text(x0+1, y0+3, d.tr(fmt.Sprintf("max %.1f", maxV)))
		for i, c := range categories {
			if i >= len(values) {
				break
			}
			label := []rune(c)
			for len(label) > 1 && pdf.GetStringWidth(d.tr(string(label))) > slot-1 {
				label = label[:len(label)-1]
			}
			w := pdf.GetStringWidth(d.tr(string(label)))
			pdf.Text(x0+float64(i)*slot+(slot-w)/2, y0+height+4, d.tr(string(label)))
		}
	} else {
		pdf.Text(x0+width/2-10, y0+height/2, "no data")
	}
	pdf.SetY(y0 + height + labelH)
}

// Bytes renders the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
