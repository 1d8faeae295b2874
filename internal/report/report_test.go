package report

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDocument_Bytes(t *testing.T) {
	d := NewDocument(AppName, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	d.Heading("General summary", 1)
	d.KeyValues([][2]string{{"Irradiance unit", "kW/m²"}, {"Temperature", "12.5 °C"}})
	d.Table([]string{"Class", "Share"}, [][]string{{"50–70 %", "12.0 %"}}, []float64{40, 30})
	d.BarChart("Monthly", "Hours", []string{"January", "February"}, []float64{10, math.NaN()})
	d.BarChart("Empty", "Hours", nil, nil)

	out, err := d.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestWorkbook_Sheets(t *testing.T) {
	w := NewWorkbook()
	require.NoError(t, w.Sheet("Summary", []string{"Key", "Value"}, [][]any{{"Rows", 3}}))
	require.NoError(t, w.Sheet("Threshold — Monthly", []string{"month_name", "hours_above"}, [][]any{
		{"January", 10.0},
		{"February", math.NaN()},
	}))
	require.NoError(t, w.ColumnChart("Threshold — Monthly", "E2", "Hours", "Hours above", "Month", "Hours", "B", 2))
	assert.Equal(t, []string{"Summary", "Threshold — Monthly"}, w.SheetNames())

	out, err := w.Bytes()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Threshold — Monthly", "A2")
	require.NoError(t, err)
	assert.Equal(t, "January", v)
	empty, err := f.GetCellValue("Threshold — Monthly", "B3")
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}
