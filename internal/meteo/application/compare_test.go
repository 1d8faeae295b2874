package application

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvinsight/internal/dataset"
)

const siteA = `#Meteo data;Site A
#Time Step;h
YEAR;MONTH;DAY;HOUR;GHI;DHI;DNI;Tamb;WindVel
;;;;W/m2;W/m2;W/m2;deg.C;m/sec
2001;1;1;10;100;50;200;5;2
2001;1;1;11;300;100;400;6;3
2001;1;1;12;500;120;600;7;4
`

// Same (month, day, hour) keys in another year, ghi doubled.
const siteOtherYear = `#Meteo data;Site B
#Time Step;h
YEAR;MONTH;DAY;HOUR;GHI;DHI;DNI;Tamb;WindVel
;;;;W/m2;W/m2;W/m2;deg.C;m/sec
2015;1;1;10;200;50;200;5;2
2015;1;1;11;600;100;400;6;3
2015;1;1;12;1000;120;600;7;4
`

const siteSummer = `#Meteo data;Site C
#Time Step;h
YEAR;MONTH;DAY;HOUR;GHI;DHI;DNI;Tamb;WindVel
;;;;W/m2;W/m2;W/m2;deg.C;m/sec
2015;7;1;10;200;50;200;5;2
2015;7;1;11;600;100;400;6;3
2015;7;1;12;1000;120;600;7;4
`

func TestCompare_IdenticalFiles(t *testing.T) {
	req := DefaultCompareRequest(Source{Data: []byte(siteA), Name: "a.csv"}, Source{Data: []byte(siteA), Name: "a2.csv"})

	res, err := Compare(req)
	require.NoError(t, err)

	assert.Equal(t, AlignmentCalendar, res.Alignment)
	assert.Equal(t, 3, res.AlignedA.Len())
	assert.Equal(t, 60, res.UsedStepMinutes)
	assert.Equal(t, 60, res.NativeStepA)
	assert.False(t, res.Alert)
	assert.Equal(t, time.Date(2001, 1, 1, 10, 0, 0, 0, time.UTC), res.CommonStart)
	assert.Equal(t, time.Date(2001, 1, 1, 12, 0, 0, 0, time.UTC), res.CommonEnd)

	require.Len(t, res.Metrics, 5)
	assert.Equal(t, []string{"dhi", "dni", "ghi", "temp", "wind_speed"}, variablesOf(res.Metrics))
	for _, m := range res.Metrics {
		assert.Equal(t, 3, m.N, m.Variable)
		assert.Zero(t, m.BiasMean, m.Variable)
		assert.Zero(t, m.MAE, m.Variable)
		assert.Zero(t, m.RMSE, m.Variable)
		assert.Zero(t, m.MeanPct, m.Variable)
	}
	require.NotNil(t, res.EnergyACommon.GHI)
	assert.InDelta(t, 0.9, *res.EnergyACommon.GHI, 1e-9)
	assert.InDelta(t, *res.EnergyA.GHI, *res.EnergyB.GHI, 1e-12)
}

func TestCompare_ClimatologyFallback(t *testing.T) {
	req := DefaultCompareRequest(Source{Data: []byte(siteA), Name: "a.csv"}, Source{Data: []byte(siteOtherYear), Name: "b.csv"})

	res, err := Compare(req)
	require.NoError(t, err)

	assert.Equal(t, AlignmentClimatology, res.Alignment)
	assert.Equal(t, 3, res.AlignedA.Len())
	assert.Equal(t, ClimatologyYear, res.CommonStart.Year())
	assert.True(t, res.Alert)

	ghi := metricFor(t, res.Metrics, "ghi")
	assert.InDelta(t, 50, ghi.MeanPct, 1e-9)
	assert.InDelta(t, -0.3, ghi.BiasMean, 1e-9)
	assert.Zero(t, metricFor(t, res.Metrics, "temp").MAE)
}

func TestCompare_NoCommonTimestamps(t *testing.T) {
	req := DefaultCompareRequest(Source{Data: []byte(siteA), Name: "a.csv"}, Source{Data: []byte(siteSummer), Name: "c.csv"})

	_, err := Compare(req)
	assert.True(t, errors.Is(err, ErrNoCommonTimestamps))
}

func TestCompare_InvalidStep(t *testing.T) {
	req := DefaultCompareRequest(Source{Data: []byte(siteA)}, Source{Data: []byte(siteA)})
	req.CommonStepMinutes = 0

	_, err := Compare(req)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestAlignCalendar_DropsRowsMissingEverywhere(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}
	a := dataset.NewFrame(times)
	a.Set("ghi", []float64{1, math.NaN(), 3})
	b := dataset.NewFrame(append([]time.Time(nil), times[1:]...))
	b.Set("ghi", []float64{2, 3})
	b.Set("temp", []float64{10, 11})

	fa, fb, vars := AlignCalendar(a, b, CompareVariables)

	assert.Equal(t, []string{"ghi"}, vars)
	assert.Equal(t, []time.Time{times[2]}, fa.Time)
	assert.Equal(t, []float64{3}, fb.Column("ghi"))
}

func TestAlignClimatology_DropsLeapDayAndAverages(t *testing.T) {
	a := dataset.NewFrame([]time.Time{
		time.Date(2020, 2, 29, 10, 0, 0, 0, time.UTC),
		time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	a.Set("ghi", []float64{9, 2, 4})
	b := dataset.NewFrame([]time.Time{
		time.Date(2019, 2, 28, 10, 0, 0, 0, time.UTC),
		time.Date(2019, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	b.Set("ghi", []float64{1, 5})

	fa, fb, _ := AlignClimatology(a, b, []string{"ghi"})

	require.Equal(t, 1, fa.Len())
	assert.Equal(t, time.Date(ClimatologyYear, 3, 1, 10, 0, 0, 0, time.UTC), fa.Time[0])
	assert.Equal(t, []float64{3}, fa.Column("ghi"))
	assert.Equal(t, []float64{5}, fb.Column("ghi"))
}

func TestComputeMetrics_NearZeroReferenceIsUndefined(t *testing.T) {
	times := []time.Time{time.Unix(0, 0).UTC(), time.Unix(3600, 0).UTC()}
	a := dataset.NewFrame(times)
	a.Set("ghi", []float64{1, 2})
	b := dataset.NewFrame(times)
	b.Set("ghi", []float64{0, 0})

	out, alert := ComputeMetrics(a, b, []string{"ghi"}, 5)

	require.Len(t, out, 1)
	assert.False(t, alert)
	assert.True(t, math.IsNaN(out[0].MeanPct))
	assert.InDelta(t, 1.5, out[0].BiasMean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), out[0].RMSE, 1e-12)
	assert.Equal(t, 2.0, out[0].MaxAbs)
}

func variablesOf(ms []VariableMetrics) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Variable
	}
	return out
}

func metricFor(t *testing.T, ms []VariableMetrics, name string) VariableMetrics {
	t.Helper()
	for _, m := range ms {
		if m.Variable == name {
			return m
		}
	}
	t.Fatalf("no metrics for %s", name)
	return VariableMetrics{}
}
