package dataset

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
)

// ResampleHourly aggregates rows into contiguous hourly bins from the first to
// the last valid hour. sumCols are summed (NaN skipped, empty bin = 0),
// meanCols are averaged (empty bin = NaN). Other columns are dropped.
func ResampleHourly(f *Frame, sumCols, meanCols []string) *Frame {
	valid := f.ValidTimes()
	if len(valid) == 0 {
		out := NewFrame(nil)
		for _, c := range append(append([]string{}, sumCols...), meanCols...) {
			if f.Has(c) {
				out.Set(c, nil)
			}
		}
		return out
	}
	first, last := valid[0], valid[0]
	for _, t := range valid {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	start := first.Truncate(time.Hour)
	n := int(last.Truncate(time.Hour).Sub(start)/time.Hour) + 1

	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	bin := func(t time.Time) int { return int(t.Truncate(time.Hour).Sub(start) / time.Hour) }

	out := NewFrame(times)
	for _, name := range f.Columns() {
		switch {
		case lo.Contains(sumCols, name):
			sums := make([]float64, n)
			for i, v := range f.Column(name) {
				if f.Time[i].IsZero() || math.IsNaN(v) {
					continue
				}
				sums[bin(f.Time[i])] += v
			}
			out.Set(name, sums)
		case lo.Contains(meanCols, name):
			sums := make([]float64, n)
			counts := make([]int, n)
			for i, v := range f.Column(name) {
				if f.Time[i].IsZero() || math.IsNaN(v) {
					continue
				}
				b := bin(f.Time[i])
				sums[b] += v
				counts[b]++
			}
			means := NaNs(n)
			for b := range means {
				if counts[b] > 0 {
					means[b] = sums[b] / float64(counts[b])
				}
			}
			out.Set(name, means)
		}
	}
	return out
}

// FloorHourly floors timestamps to the hour and averages each column per hour.
// Only hours present in the data are kept; zero timestamps are discarded.
func FloorHourly(f *Frame) *Frame {
	index := make(map[time.Time]int)
	var hours []time.Time
	for _, t := range f.Time {
		if t.IsZero() {
			continue
		}
		h := t.Truncate(time.Hour)
		if _, ok := index[h]; !ok {
			index[h] = len(hours)
			hours = append(hours, h)
		}
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })
	for i, h := range hours {
		index[h] = i
	}

	out := NewFrame(hours)
	for _, name := range f.Columns() {
		sums := make([]float64, len(hours))
		counts := make([]int, len(hours))
		for i, v := range f.Column(name) {
			if f.Time[i].IsZero() || math.IsNaN(v) {
				continue
			}
			b := index[f.Time[i].Truncate(time.Hour)]
			sums[b] += v
			counts[b]++
		}
		means := NaNs(len(hours))
		for b := range means {
			if counts[b] > 0 {
				means[b] = sums[b] / float64(counts[b])
			}
		}
		out.Set(name, means)
	}
	return out
}
