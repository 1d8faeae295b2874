package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvinsight/internal/units"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PVINSIGHT_CONFIG", "")
	t.Setenv("PVINSIGHT_OUTPUT_DIR", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pvinsight.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir: runs
target_irradiance_unit: W/m2
compare:
  threshold_mean_pct: 2.5
hourly:
  threshold_value: 120
  night_disconnection: true
metrics:
  enabled: false
`), 0o644))
	t.Setenv("PVINSIGHT_OUTPUT_DIR", "/tmp/override")
	t.Setenv("PVINSIGHT_GRID_CAPACITY_KW", "250")
	t.Setenv("PVINSIGHT_THRESHOLD_PCT", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override", cfg.OutputDir)
	assert.Equal(t, units.WattPerM2, cfg.TargetIrradianceUnit)
	assert.Equal(t, 2.5, cfg.Compare.ThresholdMeanPct)
	assert.Equal(t, 60, cfg.Compare.CommonStepMinutes)
	assert.Equal(t, 120.0, cfg.Hourly.ThresholdValue)
	assert.True(t, cfg.Hourly.NightDisconnection)
	assert.Equal(t, "E_Grid", cfg.Hourly.ThresholdColumn)
	assert.Equal(t, 250.0, cfg.Hourly.GridCapacityKW)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"target unit", func(c *Config) { c.TargetIrradianceUnit = units.WattHourPerM2 }},
		{"energy unit", func(c *Config) { c.EnergyUnit = units.KiloWattPerM2 }},
		{"common step", func(c *Config) { c.Compare.CommonStepMinutes = 0 }},
		{"output dir", func(c *Config) { c.OutputDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
