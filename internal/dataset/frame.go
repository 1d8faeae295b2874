package dataset

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Frame is an in-memory time-indexed table of float columns.
// Missing values are NaN; unparsable timestamps are the zero time.
type Frame struct {
	Time    []time.Time
	columns []string
	values  map[string][]float64
}

// NewFrame creates a frame over the given time index.
func NewFrame(times []time.Time) *Frame {
	return &Frame{
		Time:   times,
		values: make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Time)
}

// Columns returns column names in insertion order.
func (f *Frame) Columns() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Has reports whether the column exists.
func (f *Frame) Has(name string) bool {
	if f == nil {
		return false
	}
	_, ok := f.values[name]
	return ok
}

// Column returns the backing slice of a column, or nil.
func (f *Frame) Column(name string) []float64 {
	if f == nil {
		return nil
	}
	return f.values[name]
}

// Set adds or replaces a column. values must have Len() entries.
func (f *Frame) Set(name string, values []float64) {
	if len(values) != len(f.Time) {
		panic(fmt.Sprintf("dataset: column %q has %d values for %d rows", name, len(values), len(f.Time)))
	}
	if _, ok := f.values[name]; !ok {
		f.columns = append(f.columns, name)
	}
	f.values[name] = values
}

// Drop removes a column if present.
func (f *Frame) Drop(name string) {
	if _, ok := f.values[name]; !ok {
		return
	}
	delete(f.values, name)
	for i, c := range f.columns {
		if c == name {
			f.columns = append(f.columns[:i], f.columns[i+1:]...)
			break
		}
	}
}

// Rename changes a column name in place, keeping its position.
func (f *Frame) Rename(from, to string) {
	if from == to {
		return
	}
	vals, ok := f.values[from]
	if !ok {
		return
	}
	f.Drop(to)
	delete(f.values, from)
	f.values[to] = vals
	for i, c := range f.columns {
		if c == from {
			f.columns[i] = to
			break
		}
	}
}

// Select returns a copy restricted to the named columns that exist, in the given order.
func (f *Frame) Select(names ...string) *Frame {
	out := NewFrame(append([]time.Time(nil), f.Time...))
	for _, name := range names {
		if vals, ok := f.values[name]; ok {
			out.Set(name, append([]float64(nil), vals...))
		}
	}
	return out
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	return f.Select(f.columns...)
}

// Filter returns a copy with the rows for which keep returns true.
func (f *Frame) Filter(keep func(i int) bool) *Frame {
	idx := make([]int, 0, f.Len())
	for i := range f.Time {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return f.take(idx)
}

// SortByTime stably orders rows by timestamp; zero timestamps go last.
func (f *Frame) SortByTime() {
	idx := make([]int, f.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := f.Time[idx[a]], f.Time[idx[b]]
		if ta.IsZero() || tb.IsZero() {
			return !ta.IsZero() && tb.IsZero()
		}
		return ta.Before(tb)
	})
	sorted := f.take(idx)
	f.Time = sorted.Time
	f.values = sorted.values
}

// ValidTimes returns the non-zero timestamps in row order.
func (f *Frame) ValidTimes() []time.Time {
	out := make([]time.Time, 0, f.Len())
	for _, t := range f.Time {
		if !t.IsZero() {
			out = append(out, t)
		}
	}
	return out
}

func (f *Frame) take(idx []int) *Frame {
	times := make([]time.Time, len(idx))
	for j, i := range idx {
		times[j] = f.Time[i]
	}
	out := NewFrame(times)
	for _, name := range f.columns {
		src := f.values[name]
		dst := make([]float64, len(idx))
		for j, i := range idx {
			dst[j] = src[i]
		}
		out.Set(name, dst)
	}
	return out
}

// NaNs returns a slice of n NaN values.
func NaNs(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
