package interfaces

import (
	"github.com/samber/lo"

	"pvinsight/internal/format"
	"pvinsight/internal/production/domain"
	"pvinsight/internal/report"
)

// Sheet names of the hourly workbook.
const (
	SheetSummary         = "Summary"
	SheetMonthly         = "Threshold — Monthly"
	SheetSeasonal        = "Threshold — Seasonal"
	SheetMonthlyShare    = "Threshold — Monthly share"
	SheetNightMonthly    = "Night consumption — Monthly"
	SheetDistribution    = "Power distribution"
	SheetGridLimit       = "Grid limit — Monthly"
	SheetPowerQuality    = "Power quality — Monthly"
	SheetHourlyData      = "Hourly data"
	SheetUnits           = "Units"
	hourlyDataTimeLayout = "2006-01-02 15:04"
)

// BuildReportXLSX renders the hourly analysis workbook. The threshold
// analysis is required.
func BuildReportXLSX(ctx *domain.Context) ([]byte, error) {
	thr, err := thresholdOf(ctx)
	if err != nil {
		return nil, err
	}
	wb := report.NewWorkbook()

	summary := lo.Map(summaryRows(ctx, thr), func(kv [2]string, _ int) []any { return []any{kv[0], kv[1]} })
	if err := wb.Sheet(SheetSummary, []string{"Key", "Value"}, summary); err != nil {
		return nil, err
	}

	if len(thr.Monthly) > 0 {
		rows := lo.Map(thr.Monthly, func(m domain.MonthlyAbove, _ int) []any {
			return []any{m.MonthName, m.HoursAbove, m.EnergyAboveKWh}
		})
		if err := wb.Sheet(SheetMonthly, []string{"month_name", "hours_above", "energy_above_kwh"}, rows); err != nil {
			return nil, err
		}
		if err := wb.ColumnChart(SheetMonthly, "E2", "Monthly — Hours above threshold", "Hours above threshold", "Month", "Hours", "B", len(rows)); err != nil {
			return nil, err
		}
	}

	if len(thr.Seasonal) > 0 {
		rows := lo.Map(thr.Seasonal, func(s domain.SeasonalAbove, _ int) []any {
			return []any{s.Season, s.HoursAbove, s.EnergyAboveKWh}
		})
		if err := wb.Sheet(SheetSeasonal, []string{"season", "hours_above", "energy_above_kwh"}, rows); err != nil {
			return nil, err
		}
		if err := wb.ColumnChart(SheetSeasonal, "E2", "Seasonal — Hours above threshold", "Hours above threshold", "Season", "Hours", "B", len(rows)); err != nil {
			return nil, err
		}
	}

	if len(thr.MonthlyPct) > 0 {
		rows := lo.Map(thr.MonthlyPct, func(m domain.MonthlyShare, _ int) []any {
			return []any{m.MonthName, format.Percent(m.PctAbove)}
		})
		if err := wb.Sheet(SheetMonthlyShare, []string{"month_name", "Share above threshold"}, rows); err != nil {
			return nil, err
		}
	}

	if len(thr.NightMonthly) > 0 {
		rows := lo.Map(thr.NightMonthly, func(m domain.MonthlyNight, _ int) []any {
			return []any{m.MonthName, m.ImportHours, m.NightConsumptionKWh}
		})
		if err := wb.Sheet(SheetNightMonthly, []string{"month_name", "import_hours", "night_consumption_kwh"}, rows); err != nil {
			return nil, err
		}
	}

	if dist, ok := domain.Lookup[domain.PowerDistributionResult](ctx.Results, domain.PowerDistribution); ok {
		rows := lo.Map(dist.Classes, func(c domain.DistributionClass, _ int) []any {
			return []any{c.Class, format.Number(c.Hours, 0), format.Percent(c.PctTime), format.Number(c.EnergyKWh, 0)}
		})
		if err := wb.Sheet(SheetDistribution, []string{"Class", "Hours", "Share of time", "Energy (kWh)"}, rows); err != nil {
			return nil, err
		}
	}

	if gl, ok := domain.Lookup[domain.GridLimitResult](ctx.Results, domain.GridLimit); ok && len(gl.Monthly) > 0 {
		lfByMonth := lo.SliceToMap(gl.MonthlyLoadFactor, func(m domain.MonthlyLoadFactor) (string, float64) {
			return m.MonthName, m.LoadFactor
		})
		rows := lo.Map(gl.Monthly, func(m domain.MonthlyGridLimit, _ int) []any {
			row := []any{m.MonthName, m.LostKWh, m.LostPct, m.HoursLimited, m.InjectedKWh}
			if v, ok := lfByMonth[m.MonthName]; ok {
				row = append(row, v)
			}
			return row
		})
		header := []string{"month_name", "lost_kwh", "lost_pct", "hours_limited", "injected_kwh"}
		if len(lfByMonth) > 0 {
			header = append(header, "load_factor")
		}
		if err := wb.Sheet(SheetGridLimit, header, rows); err != nil {
			return nil, err
		}
	}

	if lf, ok := domain.Lookup[domain.LoadFactorResult](ctx.Results, domain.LoadFactor); ok && len(lf.Monthly) > 0 {
		rows := lo.Map(lf.Monthly, func(m domain.MonthlyPowerQuality, _ int) []any {
			return []any{m.MonthName, m.ApparentKWh, m.ReactiveKWh, m.ActiveKWh, m.CosPhi, m.ReactiveShare}
		})
		if err := wb.Sheet(SheetPowerQuality, []string{"month_name", "s_kwh", "q_kwh", "p_kwh", "cosphi", "q_share"}, rows); err != nil {
			return nil, err
		}
	}

	if err := hourlyDataSheet(wb, ctx); err != nil {
		return nil, err
	}
	if err := unitsSheet(wb, ctx); err != nil {
		return nil, err
	}
	return wb.Bytes()
}

func hourlyDataSheet(wb *report.Workbook, ctx *domain.Context) error {
	f := ctx.Frame()
	cols := f.Columns()
	rows := make([][]any, f.Len())
	for i, ts := range f.Time {
		row := make([]any, 0, len(cols)+1)
		row = append(row, ts.Format(hourlyDataTimeLayout))
		for _, c := range cols {
			row = append(row, f.Column(c)[i])
		}
		rows[i] = row
	}
	return wb.Sheet(SheetHourlyData, append([]string{"date"}, cols...), rows)
}

func unitsSheet(wb *report.Workbook, ctx *domain.Context) error {
	names := ctx.Frame().Columns()
	rows := lo.Map(names, func(n string, _ int) []any { return []any{n, ctx.Data.Units[n]} })
	return wb.Sheet(SheetUnits, []string{"Parameter", "Unit"}, rows)
}
