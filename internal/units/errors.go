package units

import "errors"

var (
	// ErrUnsupportedTarget indicates a conversion target that is not an irradiance unit.
	ErrUnsupportedTarget = errors.New("units: target unit must be W/m² or kW/m²")
	// ErrInvalidStep indicates a non-positive time step for an energy conversion.
	ErrInvalidStep = errors.New("units: invalid time step")
)
