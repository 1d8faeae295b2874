package units

import (
	"fmt"

	"github.com/samber/lo"

	"pvinsight/internal/dataset"
)

// IrradianceColumns are the canonical columns that carry irradiance.
var IrradianceColumns = []string{"ghi", "dni", "dhi", "gpi"}

// IsIrradianceColumn reports whether a canonical column carries irradiance.
func IsIrradianceColumn(name string) bool {
	return lo.Contains(IrradianceColumns, name)
}

// ConvertIrradiance converts irradiance columns to target (W/m² or kW/m²).
// The frame and units map are copied; other columns are untouched.
func ConvertIrradiance(f *dataset.Frame, in map[string]string, target string) (*dataset.Frame, map[string]string, []string, error) {
	target = Normalize(target)
	if !IsPower(target) {
		return nil, nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedTarget, target)
	}
	out := f.Clone()
	outUnits := lo.Assign(in)
	var warnings []string

	for _, col := range IrradianceColumns {
		if !out.Has(col) {
			continue
		}
		src := Normalize(outUnits[col])
		if src == "" {
			warnings = append(warnings, fmt.Sprintf("[units] Missing unit for '%s', assuming W/m².", col))
			src = WattPerM2
		}
		factor, ok := powerFactor(src, target)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("[units] Unknown irradiance unit '%s' for '%s', no conversion applied.", src, col))
			outUnits[col] = src
			continue
		}
		if factor != 1 {
			scale(out.Column(col), factor)
		}
		outUnits[col] = target
	}
	return out, outUnits, warnings, nil
}

// EnergyToPower turns per-step irradiation (Wh/m², kWh/m²) into mean
// irradiance in the target power unit by dividing by the step length.
// Columns already in a power unit are left for ConvertIrradiance.
func EnergyToPower(f *dataset.Frame, in map[string]string, target string, stepMinutes int) (*dataset.Frame, map[string]string, error) {
	target = Normalize(target)
	if !IsPower(target) {
		return f, in, nil
	}
	if stepMinutes <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidStep, stepMinutes)
	}
	dtHours := float64(stepMinutes) / 60.0
	out := f.Clone()
	outUnits := lo.Assign(in)

	for _, col := range IrradianceColumns {
		if !out.Has(col) {
			continue
		}
		src := Normalize(outUnits[col])
		if !IsEnergy(src) {
			continue
		}
		// per-step energy over dt gives power in the matching W or kW scale
		factor := 1 / dtHours
		srcKilo := src == KiloWattHourPerM2
		dstKilo := target == KiloWattPerM2
		switch {
		case srcKilo && !dstKilo:
			factor *= 1000
		case !srcKilo && dstKilo:
			factor /= 1000
		}
		scale(out.Column(col), factor)
		outUnits[col] = target
	}
	return out, outUnits, nil
}

func powerFactor(src, dst string) (float64, bool) {
	if !IsPower(src) {
		return 0, false
	}
	switch {
	case src == dst:
		return 1, true
	case src == WattPerM2 && dst == KiloWattPerM2:
		return 0.001, true
	default:
		return 1000, true
	}
}

func scale(values []float64, factor float64) {
	for i := range values {
		values[i] *= factor
	}
}
