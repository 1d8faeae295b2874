package interfaces

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"pvinsight/internal/format"
	"pvinsight/internal/meteo/application"
	"pvinsight/internal/report"
)

// BuildTMYReportPDF renders the single-file TMY report.
func BuildTMYReportPDF(res *application.TMYAnalysis, generatedAt time.Time) ([]byte, error) {
	ds := res.Dataset
	doc := report.NewDocument(fmt.Sprintf("TMY Report (%s)", strings.ToUpper(ds.Dialect)), generatedAt)

	doc.KeyValues([][2]string{
		{"File", ds.SourceName},
		{"Time step (min)", fmt.Sprint(ds.TimeStepMinutes)},
	})

	doc.Heading("Data quality", 1)
	doc.KeyValues(qualityRows(ds.Quality))

	doc.Heading("Statistics (mean / min / max)", 1)
	doc.Table([]string{"Variable", "Unit", "Mean", "Min", "Max"},
		lo.Map(res.Stats, func(s application.VariableStats, _ int) []string {
			return []string{strings.ToUpper(s.Variable), s.Unit, format.Number(s.Mean, 2), format.Number(s.Min, 2), format.Number(s.Max, 2)}
		}),
		[]float64{35, 30, 35, 35, 35})

	doc.Heading("Annual irradiation (integrated)", 1)
	if rows := energyRows(res.Energy, ""); len(rows) > 0 {
		doc.KeyValues(rows)
	} else {
		doc.Paragraph("Not available.")
	}

	if len(res.Distribution) > 0 {
		doc.Heading("GHI distribution", 1)
		doc.Table([]string{"Class", "Hours", "Share"},
			lo.Map(res.Distribution, func(c application.GHIClass, _ int) []string {
				return []string{c.Class, fmt.Sprint(c.N), format.Percent(c.Pct)}
			}),
			[]float64{60, 40, 40})
		doc.BarChart("GHI distribution", "%",
			lo.Map(res.Distribution, func(c application.GHIClass, _ int) string {
				return strings.Trim(strings.TrimSuffix(c.Class, " W/m²"), "[]")
			}),
			lo.Map(res.Distribution, func(c application.GHIClass, _ int) float64 { return c.Pct }))
	}

	if labels, means := monthlyMeans(ds.Frame, "ghi"); len(labels) > 0 {
		doc.BarChart("Global Horizontal Irradiance (GHI), monthly mean", "GHI ("+ds.Unit("ghi")+")", labels, means)
	}
	if labels, means := monthlyMeans(ds.Frame, "temp"); len(labels) > 0 {
		doc.BarChart("Ambient temperature, monthly mean", "Temp ("+ds.Unit("temp")+")", labels, means)
	}

	if len(res.Warnings) > 0 {
		doc.Heading("Warnings", 1)
		for _, w := range res.Warnings {
			doc.Paragraph("- " + w)
		}
	}
	return doc.Bytes()
}
