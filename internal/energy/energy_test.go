package energy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvinsight/internal/dataset"
)

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestIntegrateKWh_Rules(t *testing.T) {
	cases := []struct {
		unit string
		want float64
	}{
		{"kWh", 24},
		{"Wh", 0.024},
		{"kW", 48},
		{"W", 0.048},
		{"MVA?", 48},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, IntegrateKWh(constant(1, 24), tc.unit, 2), 1e-12, tc.unit)
	}
}

func TestIntegrateKWh_ConstantPowerAndIrradiance(t *testing.T) {
	assert.Equal(t, 24.0, IntegrateKWh(constant(1, 24), "kW", 1))
	assert.True(t, math.IsNaN(IntegrateKWh(constant(1000, 24), "W/m²", 1)))
	assert.True(t, math.IsNaN(IntegrateKWh(constant(1000, 24), " W/m2 ", 1)))
}

func TestIntegrateKWh_NaNCountsAsZero(t *testing.T) {
	assert.Equal(t, 3.0, IntegrateKWh([]float64{1, math.NaN(), 2}, "kWh", 1))
	assert.Equal(t, 0.0, IntegrateKWh(nil, "kWh", 1))
}

func TestAnnualIrradiation(t *testing.T) {
	base := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	f := dataset.NewFrame([]time.Time{base, base.Add(30 * time.Minute)})
	f.Set("ghi", []float64{1, 1})
	f.Set("dni", []float64{500, math.NaN()})

	s, err := AnnualIrradiation(f, map[string]string{"ghi": "kW/m²", "dni": "W/m²"}, 30, "kWh/m2")
	require.NoError(t, err)

	require.NotNil(t, s.GHI)
	require.NotNil(t, s.DNI)
	assert.Nil(t, s.DHI)
	assert.InDelta(t, 1.0, *s.GHI, 1e-12)
	assert.InDelta(t, 0.25, *s.DNI, 1e-12)
	assert.Equal(t, "kWh/m²", s.Unit)

	s, err = AnnualIrradiation(f, nil, 0, "Wh/m²")
	require.NoError(t, err)
	assert.Equal(t, []string{"[energy] Unknown timestep; cannot compute integrated energy."}, s.Warnings)

	_, err = AnnualIrradiation(f, nil, 60, "MJ/m²")
	assert.ErrorIs(t, err, ErrEnergyUnit)
}
