// Package config loads PVInsight settings from defaults, a YAML file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"pvinsight/internal/units"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// CompareConfig holds TMY comparison settings.
type CompareConfig struct {
	ThresholdMeanPct  float64 `yaml:"threshold_mean_pct"`
	CommonStepMinutes int     `yaml:"common_step_minutes"`
}

// HourlyConfig holds hourly results analysis settings.
type HourlyConfig struct {
	ThresholdColumn    string  `yaml:"threshold_column"`
	ThresholdValue     float64 `yaml:"threshold_value"`
	NightDisconnection bool    `yaml:"night_disconnection"`
	GridCapacityKW     float64 `yaml:"grid_capacity_kw"`
	DateFormat         string  `yaml:"date_format"`
}

// MetricsConfig toggles the per-run metrics textfile.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the full application configuration.
type Config struct {
	OutputDir            string        `yaml:"output_dir"`
	TargetIrradianceUnit string        `yaml:"target_irradiance_unit"`
	EnergyUnit           string        `yaml:"energy_unit"`
	ResampleHourly       bool          `yaml:"resample_hourly"`
	TimestampOutputs     bool          `yaml:"timestamp_outputs"`
	LogLevel             string        `yaml:"log_level"`
	Compare              CompareConfig `yaml:"compare"`
	Hourly               HourlyConfig  `yaml:"hourly"`
	Metrics              MetricsConfig `yaml:"metrics"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:            "outputs",
		TargetIrradianceUnit: units.KiloWattPerM2,
		EnergyUnit:           units.KiloWattHourPerM2,
		ResampleHourly:       true,
		TimestampOutputs:     true,
		LogLevel:             "info",
		Compare: CompareConfig{
			ThresholdMeanPct:  5,
			CommonStepMinutes: 60,
		},
		Hourly: HourlyConfig{
			ThresholdColumn: "E_Grid",
			DateFormat:      "%d/%m/%Y %H:%M",
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load applies, in order, defaults, the YAML file at path (or
// PVINSIGHT_CONFIG when path is empty) and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("PVINSIGHT_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.OutputDir = getenvDefault("PVINSIGHT_OUTPUT_DIR", cfg.OutputDir)
	cfg.LogLevel = getenvDefault("PVINSIGHT_LOG_LEVEL", cfg.LogLevel)
	cfg.TargetIrradianceUnit = getenvDefault("PVINSIGHT_TARGET_UNIT", cfg.TargetIrradianceUnit)
	cfg.EnergyUnit = getenvDefault("PVINSIGHT_ENERGY_UNIT", cfg.EnergyUnit)
	cfg.Compare.ThresholdMeanPct = getenvFloatDefault("PVINSIGHT_THRESHOLD_PCT", cfg.Compare.ThresholdMeanPct)
	cfg.Hourly.GridCapacityKW = getenvFloatDefault("PVINSIGHT_GRID_CAPACITY_KW", cfg.Hourly.GridCapacityKW)

	cfg.TargetIrradianceUnit = units.Normalize(cfg.TargetIrradianceUnit)
	cfg.EnergyUnit = units.Normalize(cfg.EnergyUnit)
	return cfg, nil
}

// Validate rejects settings the tools cannot honor.
func (c Config) Validate() error {
	if !units.IsPower(c.TargetIrradianceUnit) {
		return fmt.Errorf("%w: target_irradiance_unit %q, want W/m² or kW/m²", ErrInvalid, c.TargetIrradianceUnit)
	}
	if !units.IsEnergy(c.EnergyUnit) {
		return fmt.Errorf("%w: energy_unit %q, want Wh/m² or kWh/m²", ErrInvalid, c.EnergyUnit)
	}
	if c.Compare.CommonStepMinutes <= 0 {
		return fmt.Errorf("%w: compare.common_step_minutes must be positive", ErrInvalid)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir required", ErrInvalid)
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
