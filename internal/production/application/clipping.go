package application

import (
	"pvinsight/internal/production/domain"
)

// Inverter columns of the hourly export.
const (
	ColumnInverterOutput = "EOutInv"
	ColumnClippingLoss   = "IL_Pmax"
)

// InverterClippingPass compares energy lost at the inverter power limit with
// the energy the inverter could have delivered.
func InverterClippingPass(ctx *domain.Context) domain.Result {
	if missing, ok := requireColumns(ctx, ColumnInverterOutput, ColumnClippingLoss); !ok {
		return missing
	}
	f := ctx.Frame()
	out := f.Column(ColumnInverterOutput)
	clip := f.Column(ColumnClippingLoss)
	outUnit := ctx.Unit(ColumnInverterOutput)
	clipUnit := ctx.Unit(ColumnClippingLoss)
	dt := ctx.StepHours

	active := indexWhere(f.Len(), func(i int) bool { return out[i] > 0 || clip[i] > 0 })
	if len(active) == 0 {
		return domain.Empty{Reason: "no inverter activity"}
	}

	clippedKWh := integrate(clip, active, clipUnit, dt)
	potentialKWh := clippedKWh + integrate(out, active, outUnit, dt)
	clippingSteps := indexWhere(f.Len(), func(i int) bool { return clip[i] > 0 })

	res := domain.InverterClippingResult{
		ClippedKWh:    clippedKWh,
		PotentialKWh:  potentialKWh,
		PctClipping:   pct(clippedKWh, potentialKWh),
		HoursClipping: float64(len(clippingSteps)) * dt,
		StepHours:     dt,
	}
	for _, g := range groupByMonth(f.Time, active) {
		clipped := integrate(clip, g.idx, clipUnit, dt)
		potential := clipped + integrate(out, g.idx, outUnit, dt)
		res.Monthly = append(res.Monthly, domain.MonthlyClipping{
			MonthName:   domain.MonthName(g.month),
			ClippedKWh:  clipped,
			PctClipping: pct(clipped, potential),
		})
	}
	return res
}
