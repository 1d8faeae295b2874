package application

import (
	"math"

	"github.com/samber/lo"

	"pvinsight/internal/production/domain"
)

// GlobalProductionPass reports operating time, net production and night
// consumption of the threshold column.
func GlobalProductionPass(ctx *domain.Context) domain.Result {
	col := ctx.Options.Column()
	if missing, ok := requireColumns(ctx, col); !ok {
		return missing
	}
	raw := ctx.Frame().Column(col)
	s := ctx.Series(col)
	unit := ctx.Unit(col)
	dt := ctx.StepHours

	total := float64(len(raw)) * dt
	operating := float64(countPositive(s)) * dt
	withoutImport := integrate(positivePart(raw), allRows(raw), unit, dt)

	res := domain.GlobalProductionResult{
		Column:                     col,
		Unit:                       unit,
		StepHours:                  dt,
		NightDisconnection:         ctx.Options.NightDisconnection,
		OperatingHours:             operating,
		TotalHours:                 total,
		OperatingPct:               pct(operating, total),
		NetProductionKWh:           integrate(raw, allRows(raw), unit, dt),
		ProductionWithoutImportKWh: withoutImport,
		NightConsumptionKWh:        integrate(importPart(raw), allRows(raw), unit, dt),
		ImportHours:                float64(countNegative(raw)) * dt,
		GridCapacityKW:             ctx.Options.GridCapacityKW,
	}
	if capKW := ctx.Options.GridCapacityKW; capKW != nil && total > 0 && !math.IsNaN(withoutImport) {
		res.LoadFactor = ptr(withoutImport / (*capKW * total))
	}
	return res
}

// ThresholdPass measures time and energy above the configured threshold,
// with monthly and seasonal breakdowns. Night consumption always comes from
// the raw series.
func ThresholdPass(ctx *domain.Context) domain.Result {
	col := ctx.Options.Column()
	if missing, ok := requireColumns(ctx, col); !ok {
		return missing
	}
	times := ctx.Frame().Time
	raw := ctx.Frame().Column(col)
	s := ctx.Series(col)
	unit := ctx.Unit(col)
	dt := ctx.StepHours
	thr := ctx.Options.ThresholdValue

	prodIdx := indexWhere(len(s), func(i int) bool { return s[i] > 0 })
	aboveIdx := indexWhere(len(s), func(i int) bool { return s[i] > thr })
	nightIdx := indexWhere(len(raw), func(i int) bool { return raw[i] < 0 })
	night := importPart(raw)

	hoursProd := float64(len(prodIdx)) * dt
	hoursAbove := float64(len(aboveIdx)) * dt

	res := domain.ThresholdResult{
		Column:                col,
		Unit:                  unit,
		Value:                 thr,
		StepHours:             dt,
		NightDisconnection:    ctx.Options.NightDisconnection,
		HoursProd:             hoursProd,
		HoursAbove:            hoursAbove,
		PctAboveOperatingTime: pct(hoursAbove, hoursProd),
		EnergyAboveKWh:        integrate(s, aboveIdx, unit, dt),
		NightImportHours:      float64(len(nightIdx)) * dt,
		NightConsumptionKWh:   integrate(night, nightIdx, unit, dt),
	}

	aboveByMonth := groupByMonth(times, aboveIdx)
	seasonal := make(map[string]*domain.SeasonalAbove)
	for _, g := range aboveByMonth {
		row := domain.MonthlyAbove{
			MonthName:      domain.MonthName(g.month),
			HoursAbove:     float64(len(g.idx)) * dt,
			EnergyAboveKWh: integrate(s, g.idx, unit, dt),
		}
		res.Monthly = append(res.Monthly, row)

		name := domain.Season(g.month)
		acc, ok := seasonal[name]
		if !ok {
			acc = &domain.SeasonalAbove{Season: name}
			seasonal[name] = acc
		}
		acc.HoursAbove += row.HoursAbove
		acc.EnergyAboveKWh += row.EnergyAboveKWh
	}
	for _, name := range domain.Seasons {
		if acc, ok := seasonal[name]; ok {
			res.Seasonal = append(res.Seasonal, *acc)
		}
	}

	aboveCount := lo.SliceToMap(aboveByMonth, func(g monthGroup) (int, int) { return int(g.month), len(g.idx) })
	for _, g := range groupByMonth(times, prodIdx) {
		res.MonthlyPct = append(res.MonthlyPct, domain.MonthlyShare{
			MonthName: domain.MonthName(g.month),
			PctAbove:  pct(float64(aboveCount[int(g.month)]), float64(len(g.idx))),
		})
	}

	for _, g := range groupByMonth(times, nightIdx) {
		res.NightMonthly = append(res.NightMonthly, domain.MonthlyNight{
			MonthName:           domain.MonthName(g.month),
			ImportHours:         float64(len(g.idx)) * dt,
			NightConsumptionKWh: integrate(night, g.idx, unit, dt),
		})
	}
	return res
}

// PowerDistributionPass buckets positive production by its ratio to the
// maximum value.
func PowerDistributionPass(ctx *domain.Context) domain.Result {
	col := ctx.Options.Column()
	if missing, ok := requireColumns(ctx, col); !ok {
		return missing
	}
	s := ctx.Series(col)
	unit := ctx.Unit(col)
	dt := ctx.StepHours

	prodIdx := indexWhere(len(s), func(i int) bool { return s[i] > 0 })
	if len(prodIdx) == 0 {
		return domain.Empty{Reason: "no positive production"}
	}
	vmax := maxOf(pick(s, prodIdx))
	if !(vmax > 0) {
		return domain.Empty{Reason: "maximum production is not positive"}
	}

	buckets := make([][]int, len(classLabels))
	for _, i := range prodIdx {
		if c := classify(s[i] / vmax); c >= 0 {
			buckets[c] = append(buckets[c], i)
		}
	}
	totalHours := float64(len(prodIdx)) * dt

	res := domain.PowerDistributionResult{
		Column:             col,
		Unit:               unit,
		StepHours:          dt,
		MaxValue:           vmax,
		NightDisconnection: ctx.Options.NightDisconnection,
	}
	for c, label := range classLabels {
		hours := float64(len(buckets[c])) * dt
		res.Classes = append(res.Classes, domain.DistributionClass{
			Class:     label,
			Steps:     len(buckets[c]),
			Hours:     hours,
			PctTime:   pct(hours, totalHours),
			EnergyKWh: integrate(s, buckets[c], unit, dt),
		})
	}
	return res
}

func allRows(values []float64) []int {
	return indexWhere(len(values), func(int) bool { return true })
}
