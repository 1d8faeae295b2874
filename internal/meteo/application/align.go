package application

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"pvinsight/internal/dataset"
)

// CompareVariables are the meteo columns compared between two files.
var CompareVariables = []string{"ghi", "dni", "dhi", "temp", "wind_speed"}

// Alignment tells how two hourly series were matched.
type Alignment string

const (
	AlignmentCalendar    Alignment = "calendar"
	AlignmentClimatology Alignment = "climatology"
)

// ClimatologyYear is the non-leap year used to display climatological alignments.
const ClimatologyYear = 2001

func commonVariables(a, b *dataset.Frame, vars []string) []string {
	return lo.Filter(vars, func(v string, _ int) bool { return a.Has(v) && b.Has(v) })
}

// AlignCalendar intersects two hourly frames on equal timestamps within
// their common period. Rows where every variable is missing on either side
// are dropped.
func AlignCalendar(a, b *dataset.Frame, vars []string) (*dataset.Frame, *dataset.Frame, []string) {
	common := commonVariables(a, b, vars)
	if a.Len() == 0 || b.Len() == 0 || len(common) == 0 {
		return emptyAligned(common)
	}
	start := laterOf(a.Time[0], b.Time[0])
	end := earlierOf(a.Time[a.Len()-1], b.Time[b.Len()-1])

	rowB := make(map[time.Time]int, b.Len())
	for i, t := range b.Time {
		rowB[t] = i
	}
	var times []time.Time
	var ia, ib []int
	for i, t := range a.Time {
		if t.Before(start) || t.After(end) {
			continue
		}
		j, ok := rowB[t]
		if !ok {
			continue
		}
		if allMissing(a, common, i) || allMissing(b, common, j) {
			continue
		}
		times = append(times, t)
		ia = append(ia, i)
		ib = append(ib, j)
	}
	return project(a, times, ia, common), project(b, times, ib, common), common
}

type climateKey struct {
	month time.Month
	day   int
	hour  int
}

// AlignClimatology matches two hourly frames on (month, day, hour) and
// projects the result onto ClimatologyYear. February 29 is dropped and
// repeated keys are averaged.
func AlignClimatology(a, b *dataset.Frame, vars []string) (*dataset.Frame, *dataset.Frame, []string) {
	common := commonVariables(a, b, vars)
	if len(common) == 0 {
		return emptyAligned(common)
	}
	ka := climatology(a, common)
	kb := climatology(b, common)

	keys := lo.Filter(lo.Keys(ka), func(k climateKey, _ int) bool {
		_, ok := kb[k]
		return ok
	})
	times := lo.Map(keys, func(k climateKey, _ int) time.Time {
		return time.Date(ClimatologyYear, k.month, k.day, k.hour, 0, 0, 0, time.UTC)
	})
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(x, y int) bool { return times[order[x]].Before(times[order[y]]) })

	sortedTimes := make([]time.Time, len(order))
	outA := make(map[string][]float64, len(common))
	outB := make(map[string][]float64, len(common))
	for _, v := range common {
		outA[v] = make([]float64, len(order))
		outB[v] = make([]float64, len(order))
	}
	for pos, idx := range order {
		sortedTimes[pos] = times[idx]
		k := keys[idx]
		for _, v := range common {
			outA[v][pos] = ka[k][v]
			outB[v][pos] = kb[k][v]
		}
	}
	fa, fb := dataset.NewFrame(sortedTimes), dataset.NewFrame(append([]time.Time(nil), sortedTimes...))
	for _, v := range common {
		fa.Set(v, outA[v])
		fb.Set(v, outB[v])
	}
	return fa, fb, common
}

// climatology averages each variable per (month, day, hour).
func climatology(f *dataset.Frame, vars []string) map[climateKey]map[string]float64 {
	type acc struct {
		sum map[string]float64
		n   map[string]int
	}
	byKey := make(map[climateKey]*acc)
	for i, t := range f.Time {
		if t.IsZero() || (t.Month() == time.February && t.Day() == 29) {
			continue
		}
		k := climateKey{month: t.Month(), day: t.Day(), hour: t.Hour()}
		a, ok := byKey[k]
		if !ok {
			a = &acc{sum: make(map[string]float64), n: make(map[string]int)}
			byKey[k] = a
		}
		for _, v := range vars {
			x := f.Column(v)[i]
			if math.IsNaN(x) {
				continue
			}
			a.sum[v] += x
			a.n[v]++
		}
	}
	out := make(map[climateKey]map[string]float64, len(byKey))
	for k, a := range byKey {
		means := make(map[string]float64, len(vars))
		for _, v := range vars {
			if a.n[v] == 0 {
				means[v] = math.NaN()
				continue
			}
			means[v] = a.sum[v] / float64(a.n[v])
		}
		out[k] = means
	}
	return out
}

func project(f *dataset.Frame, times []time.Time, idx []int, vars []string) *dataset.Frame {
	out := dataset.NewFrame(append([]time.Time(nil), times...))
	for _, v := range vars {
		src := f.Column(v)
		out.Set(v, lo.Map(idx, func(i int, _ int) float64 { return src[i] }))
	}
	return out
}

func emptyAligned(vars []string) (*dataset.Frame, *dataset.Frame, []string) {
	a, b := dataset.NewFrame(nil), dataset.NewFrame(nil)
	for _, v := range vars {
		a.Set(v, []float64{})
		b.Set(v, []float64{})
	}
	return a, b, vars
}

func allMissing(f *dataset.Frame, vars []string, i int) bool {
	return !lo.SomeBy(vars, func(v string) bool { return !math.IsNaN(f.Column(v)[i]) })
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
