package application

import (
	"math"

	"pvinsight/internal/production/domain"
)

// Grid connection columns of the hourly export.
const (
	ColumnGridLimitLoss = "EGrdLim"
	ColumnGridInjection = "E_Grid"
)

// GridLimitPass measures energy curtailed by the grid injection limit and,
// with a known capacity, the load factor of the connection.
func GridLimitPass(ctx *domain.Context) domain.Result {
	if missing, ok := requireColumns(ctx, ColumnGridLimitLoss, ColumnGridInjection); !ok {
		return missing
	}
	f := ctx.Frame()
	lim := zeroNaN(f.Column(ColumnGridLimitLoss))
	grid := zeroNaN(f.Column(ColumnGridInjection))
	lost := positivePart(lim)
	injected := positivePart(grid)
	limUnit := ctx.Unit(ColumnGridLimitLoss)
	gridUnit := ctx.Unit(ColumnGridInjection)
	dt := ctx.StepHours
	rows := allRows(lim)

	lostKWh := integrate(lost, rows, limUnit, dt)
	injectedKWh := integrate(injected, rows, gridUnit, dt)
	potentialKWh := lostKWh + injectedKWh
	totalHours := float64(f.Len()) * dt

	res := domain.GridLimitResult{
		LostKWh:        lostKWh,
		InjectedKWh:    injectedKWh,
		PotentialKWh:   potentialKWh,
		LostPct:        pct(lostKWh, potentialKWh),
		HoursLimited:   float64(countPositive(lim)) * dt,
		TotalHours:     totalHours,
		StepHours:      dt,
		GridCapacityKW: ctx.Options.GridCapacityKW,
	}

	months := groupByMonth(f.Time, rows)
	for _, g := range months {
		l := integrate(lost, g.idx, limUnit, dt)
		inj := integrate(injected, g.idx, gridUnit, dt)
		res.Monthly = append(res.Monthly, domain.MonthlyGridLimit{
			MonthName:    domain.MonthName(g.month),
			LostKWh:      l,
			LostPct:      pct(l, l+inj),
			HoursLimited: float64(countPositive(pick(lim, g.idx))) * dt,
			InjectedKWh:  inj,
		})
	}

	if capKW := ctx.Options.GridCapacityKW; capKW != nil && totalHours > 0 {
		res.LoadFactor = ptr(ratio(injectedKWh, *capKW*totalHours))
		res.LoadFactorSource = domain.LoadFactorOwn
		res.MonthlyLoadFactor = monthlyLoadFactor(months, injected, gridUnit, dt, *capKW)
	} else {
		res.LoadFactor, res.LoadFactorSource = globalLoadFactor(ctx)
	}
	return res
}

func monthlyLoadFactor(months []monthGroup, values []float64, unit string, dt, capKW float64) []domain.MonthlyLoadFactor {
	out := make([]domain.MonthlyLoadFactor, 0, len(months))
	for _, g := range months {
		e := integrate(values, g.idx, unit, dt)
		out = append(out, domain.MonthlyLoadFactor{
			MonthName:  domain.MonthName(g.month),
			LoadFactor: ratio(e, capKW*float64(len(g.idx))*dt),
			EnergyKWh:  e,
		})
	}
	return out
}

// globalLoadFactor reads the load factor already computed by the global
// production pass, if any.
func globalLoadFactor(ctx *domain.Context) (*float64, domain.LoadFactorSource) {
	gp, ok := domain.Lookup[domain.GlobalProductionResult](ctx.Results, domain.GlobalProduction)
	if !ok || gp.LoadFactor == nil {
		return nil, domain.LoadFactorNone
	}
	return ptr(*gp.LoadFactor), domain.LoadFactorGlobalProduction
}

func zeroNaN(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			out[i] = v
		}
	}
	return out
}
