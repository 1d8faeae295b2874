package application

import (
	"math"

	"github.com/samber/lo"

	"pvinsight/internal/production/domain"
)

// Power quality columns of the hourly export.
const (
	ColumnApparentEnergy = "EApGrid"
	ColumnReactiveEnergy = "EReGrid"
)

// LoadFactorPass reports apparent, reactive and active energy at the grid
// connection, the saturation of the apparent series and, with a known
// capacity, the load factor of the active energy.
func LoadFactorPass(ctx *domain.Context) domain.Result {
	if missing, ok := requireColumns(ctx, ColumnApparentEnergy, ColumnReactiveEnergy); !ok {
		return missing
	}
	f := ctx.Frame()
	dt := ctx.StepHours
	totalHours := float64(f.Len()) * dt

	sUnit := ctx.Unit(ColumnApparentEnergy)
	qUnit := ctx.Unit(ColumnReactiveEnergy)
	apparent := zeroNaN(f.Column(ColumnApparentEnergy))
	reactive := zeroNaN(f.Column(ColumnReactiveEnergy))
	apparentPos := positivePart(apparent)
	rows := allRows(apparent)

	var active []float64
	pUnit := ""
	if f.Has(ColumnGridInjection) {
		active = positivePart(zeroNaN(f.Column(ColumnGridInjection)))
		pUnit = ctx.Unit(ColumnGridInjection)
	}

	sKWh := integrate(apparent, rows, sUnit, dt)
	qKWh := integrate(reactive, rows, qUnit, dt)

	res := domain.LoadFactorResult{
		ApparentKWh:    sKWh,
		ReactiveKWh:    qKWh,
		TotalHours:     totalHours,
		StepHours:      dt,
		GridCapacityKW: ctx.Options.GridCapacityKW,
	}
	if sKWh > 0 {
		res.ReactiveShare = ptr(qKWh / sKWh)
	}
	if active != nil {
		pKWh := integrate(active, rows, pUnit, dt)
		res.ActiveKWh = ptr(pKWh)
		if sKWh > 0 {
			res.CosPhi = ptr(pKWh / sKWh)
		}
	}

	months := groupByMonth(f.Time, rows)
	for _, g := range months {
		s := integrate(apparentPos, g.idx, sUnit, dt)
		q := integrate(reactive, g.idx, qUnit, dt)
		row := domain.MonthlyPowerQuality{
			MonthName:     domain.MonthName(g.month),
			ApparentKWh:   s,
			ReactiveKWh:   q,
			ActiveKWh:     math.NaN(),
			CosPhi:        math.NaN(),
			ReactiveShare: ratio(q, s),
		}
		if active != nil {
			row.ActiveKWh = integrate(active, g.idx, pUnit, dt)
			row.CosPhi = ratio(row.ActiveKWh, s)
		}
		res.Monthly = append(res.Monthly, row)
	}

	res.Saturation, res.ApparentMax = saturation(apparentPos, dt)

	if capKW := ctx.Options.GridCapacityKW; capKW != nil && totalHours > 0 && res.ActiveKWh != nil {
		res.LoadFactor = ptr(ratio(*res.ActiveKWh, *capKW*totalHours))
		res.LoadFactorSource = domain.LoadFactorOwn
		res.MonthlyLoadFactor = monthlyLoadFactor(months, active, pUnit, dt, *capKW)
	} else {
		res.LoadFactor, res.LoadFactorSource = globalLoadFactor(ctx)
	}
	return res
}

// saturation buckets apparent values by their ratio to the maximum. Zero
// values fall outside every class.
func saturation(apparent []float64, dt float64) ([]domain.SaturationClass, float64) {
	if len(apparent) == 0 {
		return nil, 0
	}
	sMax := lo.Max(apparent)
	if !(sMax > 0) {
		return nil, sMax
	}
	steps := make([]int, len(classLabels))
	for _, v := range apparent {
		if c := classify(v / sMax); c >= 0 {
			steps[c]++
		}
	}
	totalHours := float64(lo.Sum(steps)) * dt
	out := make([]domain.SaturationClass, len(classLabels))
	for c, label := range classLabels {
		hours := float64(steps[c]) * dt
		out[c] = domain.SaturationClass{
			Class:   label,
			Steps:   steps[c],
			Hours:   hours,
			PctTime: pct(hours, totalHours),
		}
	}
	return out, sMax
}
