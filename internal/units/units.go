package units

import "strings"

// Canonical unit strings.
const (
	WattPerM2         = "W/m²"
	KiloWattPerM2     = "kW/m²"
	WattHourPerM2     = "Wh/m²"
	KiloWattHourPerM2 = "kWh/m²"
	Celsius           = "°C"
	MetrePerSecond    = "m/s"
	Degree            = "deg"
	Ratio             = "ratio"
)

var aliases = map[string]string{
	"w/m2":  WattPerM2,
	"w/m^2": WattPerM2,
	"w/m²":  WattPerM2,

	"kw/m2":  KiloWattPerM2,
	"kw/m^2": KiloWattPerM2,
	"kw/m²":  KiloWattPerM2,

	"wh/m2":  WattHourPerM2,
	"wh/m^2": WattHourPerM2,
	"wh/m²":  WattHourPerM2,

	"kwh/m2":  KiloWattHourPerM2,
	"kwh/m^2": KiloWattHourPerM2,
	"kwh/m²":  KiloWattHourPerM2,

	"deg.c": Celsius,
	"deg_c": Celsius,
	"°c":    Celsius,

	"m/sec": MetrePerSecond,
	"m/s":   MetrePerSecond,

	"°":     Degree,
	"deg":   Degree,
	"ratio": Ratio,
	"":      "",
}

// Normalize maps a raw unit string onto its canonical spelling. Lookup is
// case-insensitive and ignores spaces; unknown units come back trimmed.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	key := strings.ReplaceAll(strings.ToLower(trimmed), " ", "")
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return trimmed
}

// IsPower reports whether u is an irradiance (power per area) unit.
func IsPower(u string) bool {
	switch Normalize(u) {
	case WattPerM2, KiloWattPerM2:
		return true
	}
	return false
}

// IsEnergy reports whether u is an irradiation (energy per area) unit.
func IsEnergy(u string) bool {
	switch Normalize(u) {
	case WattHourPerM2, KiloWattHourPerM2:
		return true
	}
	return false
}
