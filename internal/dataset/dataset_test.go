package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hours(start time.Time, n int, step time.Duration) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * step)
	}
	return out
}

func TestFrame_SetRenameDrop(t *testing.T) {
	f := NewFrame(hours(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 3, time.Hour))
	f.Set("a", []float64{1, 2, 3})
	f.Set("b", []float64{4, 5, 6})
	f.Rename("a", "ghi")

	assert.Equal(t, []string{"ghi", "b"}, f.Columns())
	assert.Equal(t, []float64{1, 2, 3}, f.Column("ghi"))

	f.Drop("b")
	assert.False(t, f.Has("b"))
	assert.Panics(t, func() { f.Set("bad", []float64{1}) })
}

func TestFrame_SortByTimeZeroLast(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFrame([]time.Time{base.Add(2 * time.Hour), {}, base, base.Add(time.Hour)})
	f.Set("v", []float64{2, 99, 0, 1})

	f.SortByTime()

	assert.Equal(t, []float64{0, 1, 2, 99}, f.Column("v"))
	assert.True(t, f.Time[3].IsZero())
}

func TestDataset_WarnAppendOnly(t *testing.T) {
	d := &Dataset{}
	d.Warn("[units] first")
	d.AddWarnings("", "[quality] second")
	assert.Equal(t, []string{"[units] first", "[quality] second"}, d.Warnings)
}

func TestCheckQuality_RowMismatch(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFrame([]time.Time{base, base.Add(time.Hour), base.Add(3 * time.Hour), {}})
	f.Set("ghi", []float64{1, math.NaN(), 3, 4})

	q := CheckQuality(f, 60)

	assert.Equal(t, 4, q.Rows)
	assert.Equal(t, 1, q.Missing)
	assert.Equal(t, 1, q.MissingTimestamps)
	assert.Equal(t, base, q.Start)
	assert.Equal(t, base.Add(3*time.Hour), q.End)
	require.NotNil(t, q.ExpectedRows)
	assert.Equal(t, 4, *q.ExpectedRows)
	assert.Empty(t, q.Warning)

	q = CheckQuality(f.Filter(func(i int) bool { return i < 3 }), 60)
	assert.Equal(t, "Row count mismatch: got 3, expected 4 for step=60 min.", q.Warning)
}

func TestResampleHourly_SumsAndMeans(t *testing.T) {
	base := time.Date(2020, 6, 1, 10, 0, 0, 0, time.UTC)
	f := NewFrame(append(hours(base, 4, 15*time.Minute), base.Add(2*time.Hour)))
	f.Set("ghi", []float64{100, 200, math.NaN(), 300, 50})
	f.Set("temp", []float64{10, 20, 30, math.NaN(), 5})
	f.Set("other", []float64{1, 1, 1, 1, 1})

	out := ResampleHourly(f, []string{"ghi"}, []string{"temp"})

	require.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"ghi", "temp"}, out.Columns())
	assert.Equal(t, []float64{600, 0, 50}, out.Column("ghi"))
	assert.InDelta(t, 20, out.Column("temp")[0], 1e-9)
	assert.True(t, math.IsNaN(out.Column("temp")[1]))
	assert.Equal(t, base.Add(time.Hour), out.Time[1])
}

func TestFloorHourly_OnlyObservedHours(t *testing.T) {
	base := time.Date(2020, 6, 1, 10, 0, 0, 0, time.UTC)
	f := NewFrame([]time.Time{base.Add(3 * time.Hour), base, base.Add(30 * time.Minute)})
	f.Set("ghi", []float64{7, 100, 200})

	out := FloorHourly(f)

	assert.Equal(t, []time.Time{base, base.Add(3 * time.Hour)}, out.Time)
	assert.Equal(t, []float64{150, 7}, out.Column("ghi"))
}
