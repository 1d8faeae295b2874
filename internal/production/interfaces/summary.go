package interfaces

import (
	"fmt"

	"pvinsight/internal/format"
	"pvinsight/internal/production/domain"
)

// summaryRows lists the key figures printed at the top of every report.
func summaryRows(ctx *domain.Context, thr domain.ThresholdResult) [][2]string {
	info := ctx.GeneralInfo()
	rows := [][2]string{
		{"PVSyst version", info["PVSyst_version"]},
		{"Input file", ctx.InputName},
		{"Simulation date", info["Simulation_date"]},
		{"Project", info["Project_file"]},
		{"Variant", info["Variant_name"]},
		{"Threshold column", thr.Column},
		{"Threshold value", format.WithUnit(thr.Value, thr.Unit, 2)},
		{"Night disconnection", format.Bool(thr.NightDisconnection)},
	}

	if gp, ok := domain.Lookup[domain.GlobalProductionResult](ctx.Results, domain.GlobalProduction); ok {
		rows = append(rows,
			[2]string{"Operating hours", format.Number(gp.OperatingHours, 0)},
			[2]string{"Operating share (%)", fmt.Sprintf("%.1f", gp.OperatingPct)},
			[2]string{"Net production (kWh)", format.Number(gp.NetProductionKWh, 0)},
			[2]string{"Production without import (kWh)", format.Number(gp.ProductionWithoutImportKWh, 0)},
			[2]string{"Night consumption (kWh)", format.Number(gp.NightConsumptionKWh, 0)},
			[2]string{"Import hours", format.Number(gp.ImportHours, 0)},
		)
		if gp.LoadFactor != nil {
			rows = append(rows, [2]string{"Load factor", format.Optional(gp.LoadFactor, 3)})
		}
	}

	rows = append(rows,
		[2]string{"Hours above threshold", format.Number(thr.HoursAbove, 0)},
		[2]string{"Share of operating time above threshold (%)", fmt.Sprintf("%.1f", thr.PctAboveOperatingTime)},
		[2]string{"Energy above threshold (kWh)", format.Number(thr.EnergyAboveKWh, 0)},
		[2]string{"Night import hours", format.Number(thr.NightImportHours, 0)},
	)
	return rows
}

// thresholdOf returns the threshold result or ErrThresholdUnavailable.
func thresholdOf(ctx *domain.Context) (domain.ThresholdResult, error) {
	if ctx == nil {
		return domain.ThresholdResult{}, domain.ErrThresholdUnavailable
	}
	thr, ok := domain.Lookup[domain.ThresholdResult](ctx.Results, domain.Threshold)
	if !ok {
		return domain.ThresholdResult{}, domain.ErrThresholdUnavailable
	}
	return thr, nil
}

func loadFactorLabel(v *float64, source domain.LoadFactorSource) string {
	if v == nil {
		return format.Missing
	}
	s := format.Number(*v, 3)
	if source == domain.LoadFactorGlobalProduction {
		s += " (from global production)"
	}
	return s
}
