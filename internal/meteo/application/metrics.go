package application

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"pvinsight/internal/dataset"
)

// pctEpsilon is the smallest |b| for which a relative difference is defined.
const pctEpsilon = 1e-9

// VariableMetrics compares one variable over the pairwise-valid hours.
type VariableMetrics struct {
	Variable string  `csv:"variable"`
	N        int     `csv:"n"`
	MeanA    float64 `csv:"mean_a"`
	MeanB    float64 `csv:"mean_b"`
	BiasMean float64 `csv:"bias_mean"`
	MAE      float64 `csv:"mae"`
	RMSE     float64 `csv:"rmse"`
	MeanPct  float64 `csv:"mean_pct"`
	MaxPct   float64 `csv:"max_pct"`
	MaxAbs   float64 `csv:"max_abs"`
}

// ComputeMetrics compares aligned frames variable by variable, sorted by
// name. The alert is raised when any finite mean relative difference
// exceeds thresholdPct.
func ComputeMetrics(a, b *dataset.Frame, vars []string, thresholdPct float64) ([]VariableMetrics, bool) {
	var out []VariableMetrics
	alert := false
	for _, v := range vars {
		if !a.Has(v) || !b.Has(v) {
			continue
		}
		m := compareSeries(v, a.Column(v), b.Column(v))
		if !math.IsNaN(m.MeanPct) && m.MeanPct > thresholdPct {
			alert = true
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Variable < out[j].Variable })
	return out, alert
}

func compareSeries(name string, a, b []float64) VariableMetrics {
	var aa, bb []float64
	for i := range a {
		if i < len(b) && isFinite(a[i]) && isFinite(b[i]) {
			aa = append(aa, a[i])
			bb = append(bb, b[i])
		}
	}
	nan := math.NaN()
	m := VariableMetrics{
		Variable: name, N: len(aa),
		MeanA: nan, MeanB: nan, BiasMean: nan, MAE: nan, RMSE: nan,
		MeanPct: nan, MaxPct: nan, MaxAbs: nan,
	}
	if len(aa) == 0 {
		return m
	}

	diff := make([]float64, len(aa))
	floats.SubTo(diff, aa, bb)
	abs := make([]float64, len(diff))
	sq := make([]float64, len(diff))
	var pcts []float64
	for i, d := range diff {
		abs[i] = math.Abs(d)
		sq[i] = d * d
		if math.Abs(bb[i]) > pctEpsilon {
			pcts = append(pcts, abs[i]/math.Abs(bb[i])*100)
		}
	}

	m.MeanA = stat.Mean(aa, nil)
	m.MeanB = stat.Mean(bb, nil)
	m.BiasMean = stat.Mean(diff, nil)
	m.MAE = stat.Mean(abs, nil)
	m.RMSE = math.Sqrt(stat.Mean(sq, nil))
	m.MaxAbs = floats.Max(abs)
	if len(pcts) > 0 {
		m.MeanPct = stat.Mean(pcts, nil)
		m.MaxPct = floats.Max(pcts)
	}
	return m
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
