package interfaces

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"pvinsight/internal/format"
	"pvinsight/internal/meteo/application"
	"pvinsight/internal/report"
)

// Comparison workbook sheets.
const (
	SheetMetrics = "Metrics"
	SheetAligned = "Aligned data"
)

func summaryRows(res *application.ComparisonResult) [][2]string {
	return [][2]string{
		{"File A", res.A.SourceName},
		{"File B", res.B.SourceName},
		{"Reader A", res.A.Dialect},
		{"Reader B", res.B.Dialect},
		{"Native step A (min)", fmt.Sprint(res.NativeStepA)},
		{"Native step B (min)", fmt.Sprint(res.NativeStepB)},
		{"Step used (min)", fmt.Sprint(res.UsedStepMinutes)},
		{"Alignment", string(res.Alignment)},
		{"Common period", stamp(res.CommonStart) + "  ->  " + stamp(res.CommonEnd)},
		{"Common hours", format.Number(float64(res.AlignedA.Len()), 0)},
		{"Alert", format.Bool(res.Alert)},
	}
}

func metricCells(m application.VariableMetrics) []string {
	return []string{
		m.Variable, fmt.Sprint(m.N),
		format.Number(m.MeanA, 3), format.Number(m.MeanB, 3),
		format.Number(m.BiasMean, 3), format.Number(m.MAE, 3), format.Number(m.RMSE, 3),
		format.Number(m.MeanPct, 1), format.Number(m.MaxPct, 1),
	}
}

// BuildComparisonPDF renders the comparison report.
func BuildComparisonPDF(res *application.ComparisonResult, generatedAt time.Time) ([]byte, error) {
	doc := report.NewDocument("TMY Comparison", generatedAt)

	doc.Heading("Summary", 1)
	doc.KeyValues(summaryRows(res))

	doc.Heading("Metrics (A - B)", 1)
	if len(res.Metrics) > 0 {
		doc.Table([]string{"Variable", "N", "Mean A", "Mean B", "Bias", "MAE", "RMSE", "Mean %", "Max %"},
			lo.Map(res.Metrics, func(m application.VariableMetrics, _ int) []string { return metricCells(m) }),
			[]float64{24, 14, 20, 20, 20, 20, 20, 18, 18})
		doc.BarChart("Mean relative difference (%)", "%",
			lo.Map(res.Metrics, func(m application.VariableMetrics, _ int) string { return m.Variable }),
			lo.Map(res.Metrics, func(m application.VariableMetrics, _ int) float64 { return m.MeanPct }))
	} else {
		doc.Paragraph("No common variable.")
	}

	doc.Heading("Annual irradiation", 1)
	var rows [][2]string
	rows = append(rows, energyRows(res.EnergyA, "A, full period, ")...)
	rows = append(rows, energyRows(res.EnergyB, "B, full period, ")...)
	rows = append(rows, energyRows(res.EnergyACommon, "A, common period, ")...)
	rows = append(rows, energyRows(res.EnergyBCommon, "B, common period, ")...)
	if len(rows) > 0 {
		doc.KeyValues(rows)
	} else {
		doc.Paragraph("Not available.")
	}

	if labels, means := monthlyMeans(res.AlignedA, "ghi"); len(labels) > 0 {
		doc.BarChart("GHI monthly mean, A", "GHI ("+res.A.Unit("ghi")+")", labels, means)
		labels, means = monthlyMeans(res.AlignedB, "ghi")
		doc.BarChart("GHI monthly mean, B", "GHI ("+res.B.Unit("ghi")+")", labels, means)
	}

	if len(res.Warnings) > 0 {
		doc.Heading("Warnings", 1)
		for _, w := range res.Warnings {
			doc.Paragraph("- " + w)
		}
	}
	return doc.Bytes()
}

// BuildComparisonXLSX writes the metrics and the aligned hourly series.
func BuildComparisonXLSX(res *application.ComparisonResult) ([]byte, error) {
	wb := report.NewWorkbook()

	metricRows := lo.Map(res.Metrics, func(m application.VariableMetrics, _ int) []any {
		return []any{m.Variable, m.N, m.MeanA, m.MeanB, m.BiasMean, m.MAE, m.RMSE, m.MeanPct, m.MaxPct, m.MaxAbs}
	})
	if err := wb.Sheet(SheetMetrics,
		[]string{"variable", "n", "mean_a", "mean_b", "bias_mean", "mae", "rmse", "mean_pct", "max_pct", "max_abs"},
		metricRows); err != nil {
		return nil, err
	}
	if err := wb.ColumnChart(SheetMetrics, "L2", "Mean relative difference", "mean_pct", "Variable", "%", "H", len(metricRows)); err != nil {
		return nil, err
	}

	header := []string{"datetime"}
	for _, v := range res.Variables {
		header = append(header, v+"_a", v+"_b")
	}
	rows := make([][]any, res.AlignedA.Len())
	for i, t := range res.AlignedA.Time {
		row := []any{t.Format(timeLayout)}
		for _, v := range res.Variables {
			row = append(row, res.AlignedA.Column(v)[i], res.AlignedB.Column(v)[i])
		}
		rows[i] = row
	}
	if err := wb.Sheet(SheetAligned, header, rows); err != nil {
		return nil, err
	}
	return wb.Bytes()
}

// WriteMetricsCSV writes the per-variable metrics to path.
func WriteMetricsCSV(res *application.ComparisonResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := gocsv.MarshalBytes(&res.Metrics)
	if err != nil {
		return fmt.Errorf("meteo: marshal metrics: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ComparisonTitle names the compared pair, "{a}__VS__{b}".
func ComparisonTitle(a, b string) string {
	stem := func(name string) string { return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)) }
	return stem(a) + "__VS__" + stem(b)
}
