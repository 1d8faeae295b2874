package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

// Workbook wraps an excelize file whose sheets are appended in order.
type Workbook struct {
	f     *excelize.File
	first bool
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile(), first: true}
}

// Sheet writes a header and rows to a new sheet. NaN cells are left empty.
func (w *Workbook) Sheet(name string, header []string, rows [][]any) error {
	if w.first {
		if err := w.f.SetSheetName("Sheet1", name); err != nil {
			return err
		}
		w.first = false
	} else if _, err := w.f.NewSheet(name); err != nil {
		return err
	}

	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := w.f.SetSheetRow(name, "A1", &head); err != nil {
		return err
	}
	for r, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			if fv, ok := v.(float64); ok && (math.IsNaN(fv) || math.IsInf(fv, 0)) {
				cells[i] = nil
				continue
			}
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(name, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

// ColumnChart adds a column chart of rows [2, n+1] of sheet, with
// categories in column A and values in valueCol.
func (w *Workbook) ColumnChart(sheet, anchor, title, series, xTitle, yTitle, valueCol string, n int) error {
	if n == 0 {
		return nil
	}
	ref := func(col string) string {
		return fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, n+1)
	}
	return w.f.AddChart(sheet, anchor, &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       series,
			Categories: ref("A"),
			Values:     ref(valueCol),
		}},
		Title: []excelize.RichTextRun{{Text: title}},
		XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: xTitle}}},
		YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: yTitle}}},
	})
}

// SheetNames lists the sheets in order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Bytes renders the workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
