// Package energy integrates power and irradiance series over time.
package energy

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"pvinsight/internal/dataset"
	"pvinsight/internal/units"
)

// ErrEnergyUnit indicates an unsupported irradiation unit.
var ErrEnergyUnit = errors.New("energy: unit must be Wh/m² or kWh/m²")

// NaNSum sums values, treating NaN as zero.
func NaNSum(values []float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0
	}
	return floats.Sum(clean)
}

// IntegrateKWh integrates a series to kWh given its declared unit.
// Irradiance units (W/m²) are not integrable and yield NaN.
// Order matters: "kWh" is tested before "kW", and "Wh" before "W".
func IntegrateKWh(values []float64, unit string, stepHours float64) float64 {
	u := strings.TrimSpace(unit)
	sum := NaNSum(values)
	switch {
	case strings.Contains(u, "kWh"):
		return sum
	case strings.Contains(u, "Wh"):
		return sum / 1000
	case strings.Contains(u, "kW"):
		return sum * stepHours
	case u == units.WattPerM2 || strings.Contains(u, "W/m"):
		return math.NaN()
	case strings.Contains(u, "W"):
		return sum * stepHours / 1000
	default:
		return sum * stepHours
	}
}

// Summary holds integrated irradiation per component. Nil means not present.
type Summary struct {
	GHI      *float64
	DNI      *float64
	DHI      *float64
	Unit     string
	Warnings []string
}

// AnnualIrradiation integrates ghi, dni and dhi over the dataset period and
// expresses the result in energyUnit (Wh/m² or kWh/m²).
func AnnualIrradiation(f *dataset.Frame, unitsByColumn map[string]string, stepMinutes int, energyUnit string) (Summary, error) {
	target := units.Normalize(energyUnit)
	if !units.IsEnergy(target) {
		return Summary{}, fmt.Errorf("%w: %q", ErrEnergyUnit, energyUnit)
	}
	s := Summary{Unit: target}
	if stepMinutes <= 0 {
		s.Warnings = append(s.Warnings, "[energy] Unknown timestep; cannot compute integrated energy.")
		return s, nil
	}
	dtHours := float64(stepMinutes) / 60.0

	integrate := func(col string) *float64 {
		if !f.Has(col) {
			return nil
		}
		factor := 1.0
		if units.Normalize(unitsByColumn[col]) == units.KiloWattPerM2 {
			factor = 1000
		}
		wh := NaNSum(f.Column(col)) * factor * dtHours
		if target == units.KiloWattHourPerM2 {
			wh /= 1000
		}
		return &wh
	}
	s.GHI = integrate("ghi")
	s.DNI = integrate("dni")
	s.DHI = integrate("dhi")
	return s, nil
}
