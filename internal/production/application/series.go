package application

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"pvinsight/internal/columns"
	"pvinsight/internal/energy"
	"pvinsight/internal/production/domain"
)

// requireColumns returns an Unavailable result when any column is missing.
func requireColumns(ctx *domain.Context, required ...string) (domain.Unavailable, bool) {
	present := ctx.Frame().Columns()
	ok, missing := columns.CheckRequired(present, required)
	if ok {
		return domain.Unavailable{}, true
	}
	return domain.Unavailable{
		MissingColumns: missing,
		Suggestions:    columns.Suggest(present, missing),
	}, false
}

// indexWhere returns the row indices for which keep holds.
func indexWhere(n int, keep func(i int) bool) []int {
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}

func pick(values []float64, idx []int) []float64 {
	return lo.Map(idx, func(i int, _ int) float64 { return values[i] })
}

// positivePart keeps v >= 0 and zeroes negatives; NaN stays NaN.
func positivePart(values []float64) []float64 {
	return lo.Map(values, func(v float64, _ int) float64 {
		if v < 0 {
			return 0
		}
		return v
	})
}

// importPart returns -v for negative values and 0 otherwise; NaN stays NaN.
func importPart(values []float64) []float64 {
	return lo.Map(values, func(v float64, _ int) float64 {
		if v > 0 {
			return 0
		}
		if v < 0 {
			return -v
		}
		return v
	})
}

// integrate integrates the selected rows of values.
func integrate(values []float64, idx []int, unit string, stepHours float64) float64 {
	return energy.IntegrateKWh(pick(values, idx), unit, stepHours)
}

func countPositive(values []float64) int {
	return lo.CountBy(values, func(v float64) bool { return v > 0 })
}

func countNegative(values []float64) int {
	return lo.CountBy(values, func(v float64) bool { return v < 0 })
}

// pct returns num/den*100, or 0 when den is not positive.
func pct(num, den float64) float64 {
	if den <= 0 || math.IsNaN(den) || math.IsNaN(num) {
		return 0
	}
	return num / den * 100
}

// ratio returns num/den, or 0 when den is not positive.
func ratio(num, den float64) float64 {
	if den <= 0 || math.IsNaN(den) || math.IsNaN(num) {
		return 0
	}
	return num / den
}

type monthGroup struct {
	month time.Month
	idx   []int
}

// groupByMonth splits row indices by calendar month, in month order.
func groupByMonth(times []time.Time, idx []int) []monthGroup {
	grouped := lo.GroupBy(idx, func(i int) time.Month { return times[i].Month() })
	months := lo.Keys(grouped)
	sort.Slice(months, func(a, b int) bool { return months[a] < months[b] })
	return lo.Map(months, func(m time.Month, _ int) monthGroup {
		return monthGroup{month: m, idx: grouped[m]}
	})
}

// Class labels shared by the power distribution and saturation tables.
var classLabels = []string{"< 50 %", "50–70 %", "70–90 %", "> 90 %"}

// classUpper holds right-closed bin edges over (0, 1.01].
var classUpper = []float64{0.5, 0.7, 0.9, 1.01}

// classify returns the class index of a ratio, or -1 outside (0, 1.01].
func classify(r float64) int {
	if !(r > 0) {
		return -1
	}
	for i, upper := range classUpper {
		if r <= upper {
			return i
		}
	}
	return -1
}

func maxOf(values []float64) float64 {
	clean := lo.Filter(values, func(v float64, _ int) bool { return !math.IsNaN(v) })
	if len(clean) == 0 {
		return math.NaN()
	}
	return lo.Max(clean)
}

func ptr(v float64) *float64 { return &v }
