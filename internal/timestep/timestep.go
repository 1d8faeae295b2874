// Package timestep derives the sampling interval of a time series.
package timestep

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMinutes is used when no step can be detected.
	DefaultMinutes = 60
	// IrregularLimit is the irregular share below which the modal delta is trusted.
	IrregularLimit = 0.10
)

// Meta describes how a step was inferred.
type Meta struct {
	Deltas         int
	MedianMinutes  float64
	ModeMinutes    float64
	IrregularShare float64
	Defaulted      bool
}

// Infer returns the sampling step in minutes from consecutive timestamp
// deltas. Zero timestamps are ignored. The modal delta is reported when less
// than 10% of deltas differ from it, otherwise the median.
func Infer(times []time.Time) (float64, Meta) {
	valid := make([]time.Time, 0, len(times))
	for _, t := range times {
		if !t.IsZero() {
			valid = append(valid, t)
		}
	}
	if len(valid) < 2 {
		return DefaultMinutes, Meta{Defaulted: true}
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Before(valid[j]) })

	deltas := make([]float64, len(valid)-1)
	counts := make(map[int64]int)
	for i := 1; i < len(valid); i++ {
		us := valid[i].Sub(valid[i-1]).Round(time.Microsecond).Microseconds()
		deltas[i-1] = float64(us) / 6e7
		counts[us]++
	}

	var modeUS int64
	best := 0
	for us, c := range counts {
		if c > best || (c == best && us < modeUS) {
			modeUS, best = us, c
		}
	}
	mode := float64(modeUS) / 6e7
	irregular := 1 - float64(best)/float64(len(deltas))

	sorted := append([]float64(nil), deltas...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	meta := Meta{
		Deltas:         len(deltas),
		MedianMinutes:  median,
		ModeMinutes:    mode,
		IrregularShare: irregular,
	}
	if median <= 0 {
		median = DefaultMinutes
		meta.Defaulted = true
	}
	if mode <= 0 {
		mode = median
	}
	if irregular < IrregularLimit {
		return mode, meta
	}
	return median, meta
}

// Minutes rounds an inferred step to whole minutes, never below 1.
func Minutes(step float64) int {
	m := int(math.Round(step))
	if m < 1 {
		return 1
	}
	return m
}

// FromHeader reads a declared step from header metadata ("Time Step" key):
// "h", "hour", "1h" mean 60; "15min" and bare integers are minutes.
func FromHeader(header map[string]string) (int, bool) {
	raw, ok := header["Time Step"]
	if !ok {
		for k, v := range header {
			if strings.EqualFold(strings.TrimSpace(k), "time step") {
				raw, ok = v, true
				break
			}
		}
	}
	if !ok {
		return 0, false
	}
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "h", "hour", "1h":
		return 60, true
	}
	s = strings.TrimSuffix(s, "min")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
