package interfaces

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"pvinsight/internal/format"
	"pvinsight/internal/production/domain"
	"pvinsight/internal/report"
)

// BuildReportPDF renders the hourly analysis report. The threshold analysis
// is required.
func BuildReportPDF(ctx *domain.Context, generatedAt time.Time) ([]byte, error) {
	thr, err := thresholdOf(ctx)
	if err != nil {
		return nil, err
	}
	doc := report.NewDocument(report.AppName, generatedAt)

	doc.Heading("General summary", 1)
	doc.KeyValues(append(summaryRows(ctx, thr),
		[2]string{"Night consumption (kWh)", format.Number(thr.NightConsumptionKWh, 0)},
	))

	doc.Heading("Threshold — monthly", 1)
	if len(thr.Monthly) > 0 {
		doc.Table([]string{"Month", "Hours above", "Energy above (kWh)"},
			lo.Map(thr.Monthly, func(m domain.MonthlyAbove, _ int) []string {
				return []string{m.MonthName, format.Number(m.HoursAbove, 0), format.Number(m.EnergyAboveKWh, 0)}
			}),
			[]float64{45, 45, 45})
	} else {
		doc.Paragraph("No step above the threshold.")
	}
	if len(thr.MonthlyPct) > 0 {
		doc.Heading("Monthly share above threshold", 2)
		doc.Table([]string{"Month", "Share (%)"},
			lo.Map(thr.MonthlyPct, func(m domain.MonthlyShare, _ int) []string {
				return []string{m.MonthName, format.Percent(m.PctAbove)}
			}),
			[]float64{60, 60})
	}
	doc.BarChart("Monthly distribution — hours above threshold", "Hours",
		lo.Map(thr.Monthly, func(m domain.MonthlyAbove, _ int) string { return m.MonthName }),
		lo.Map(thr.Monthly, func(m domain.MonthlyAbove, _ int) float64 { return m.HoursAbove }))

	if dist, ok := domain.Lookup[domain.PowerDistributionResult](ctx.Results, domain.PowerDistribution); ok {
		doc.Heading("Power distribution", 1)
		doc.Table([]string{"Class", "Hours", "Share", "Energy (kWh)"},
			lo.Map(dist.Classes, func(c domain.DistributionClass, _ int) []string {
				return []string{c.Class, format.Number(c.Hours, 0), format.Percent(c.PctTime), format.Number(c.EnergyKWh, 0)}
			}),
			[]float64{40, 30, 30, 40})
	}

	if clip, ok := domain.Lookup[domain.InverterClippingResult](ctx.Results, domain.InverterClipping); ok {
		doc.Heading("Inverter clipping", 1)
		doc.KeyValues([][2]string{
			{"Clipped energy (kWh)", format.Number(clip.ClippedKWh, 0)},
			{"Share of potential", format.Percent(clip.PctClipping)},
			{"Clipping hours", format.Number(clip.HoursClipping, 0)},
		})
	}

	if gl, ok := domain.Lookup[domain.GridLimitResult](ctx.Results, domain.GridLimit); ok {
		doc.Heading("Grid limitation", 1)
		doc.KeyValues([][2]string{
			{"Energy lost (kWh)", format.Number(gl.LostKWh, 0)},
			{"Energy injected (kWh)", format.Number(gl.InjectedKWh, 0)},
			{"Share lost", format.Percent(gl.LostPct)},
			{"Hours limited", format.Number(gl.HoursLimited, 0)},
			{"Grid capacity (kW)", format.Optional(gl.GridCapacityKW, 0)},
			{"Load factor", loadFactorLabel(gl.LoadFactor, gl.LoadFactorSource)},
		})
		if len(gl.Monthly) > 0 {
			doc.Table([]string{"Month", "Lost (kWh)", "Lost (%)", "Hours limited", "Injected (kWh)"},
				lo.Map(gl.Monthly, func(m domain.MonthlyGridLimit, _ int) []string {
					return []string{m.MonthName, format.Number(m.LostKWh, 0), format.Percent(m.LostPct),
						format.Number(m.HoursLimited, 0), format.Number(m.InjectedKWh, 0)}
				}),
				[]float64{34, 34, 30, 30, 34})
		}
	}

	if lf, ok := domain.Lookup[domain.LoadFactorResult](ctx.Results, domain.LoadFactor); ok {
		doc.Heading("Grid power quality", 1)
		doc.KeyValues([][2]string{
			{"Apparent energy (kVAh)", format.Number(lf.ApparentKWh, 0)},
			{"Reactive energy (kvarh)", format.Number(lf.ReactiveKWh, 0)},
			{"Active energy (kWh)", format.Optional(lf.ActiveKWh, 0)},
			{"cos phi (energy weighted)", format.Optional(lf.CosPhi, 3)},
			{"Reactive share", format.Optional(lf.ReactiveShare, 3)},
			{"Load factor", loadFactorLabel(lf.LoadFactor, lf.LoadFactorSource)},
		})
		if len(lf.Saturation) > 0 {
			doc.Table([]string{"Saturation class", "Steps", "Hours", "Share"},
				lo.Map(lf.Saturation, func(c domain.SaturationClass, _ int) []string {
					return []string{c.Class, fmt.Sprint(c.Steps), format.Number(c.Hours, 0), format.Percent(c.PctTime)}
				}),
				[]float64{40, 30, 30, 30})
		}
	}

	return doc.Bytes()
}
