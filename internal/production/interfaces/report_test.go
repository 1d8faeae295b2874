package interfaces

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pvinsight/internal/dataset"
	"pvinsight/internal/production/application"
	"pvinsight/internal/production/domain"
)

func analyzedContext(t *testing.T) *domain.Context {
	t.Helper()
	start := time.Date(2023, 1, 31, 22, 0, 0, 0, time.UTC)
	times := make([]time.Time, 6)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	f := dataset.NewFrame(times)
	f.Set("E_Grid", []float64{-2, 0, 30, 60, 90, 10})
	f.Set("EGrdLim", []float64{0, 0, 0, 5, 10, 0})
	capKW := 100.0
	ctx := &domain.Context{
		InputName: "plant.csv",
		Data: &dataset.Dataset{
			Frame:  f,
			Units:  map[string]string{"E_Grid": "kW", "EGrdLim": "kW"},
			Header: map[string]string{"PVSyst_version": "PVsyst V7.4.0", "Variant_name": "VC0"},
		},
		Options:   domain.Options{ThresholdValue: 50, GridCapacityKW: &capKW},
		StepHours: 1,
	}
	_, err := application.DefaultEngine(zerolog.Nop()).Run(ctx)
	require.NoError(t, err)
	return ctx
}

func TestBuildReportPDF(t *testing.T) {
	out, err := BuildReportPDF(analyzedContext(t), time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestBuildReport_RequiresThreshold(t *testing.T) {
	ctx := analyzedContext(t)
	ctx.Results = domain.NewResults()
	ctx.Results.Put(domain.Threshold, domain.Unavailable{MissingColumns: []string{"E_Grid"}})

	_, err := BuildReportPDF(ctx, time.Now())
	assert.ErrorIs(t, err, domain.ErrThresholdUnavailable)
	_, err = BuildReportXLSX(ctx)
	assert.ErrorIs(t, err, domain.ErrThresholdUnavailable)
}

func TestBuildReportXLSX(t *testing.T) {
	out, err := BuildReportXLSX(analyzedContext(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		SheetSummary,
		SheetMonthly,
		SheetSeasonal,
		SheetMonthlyShare,
		SheetNightMonthly,
		SheetDistribution,
		SheetGridLimit,
		SheetHourlyData,
		SheetUnits,
	}, f.GetSheetList())

	month, err := f.GetCellValue(SheetMonthly, "A2")
	require.NoError(t, err)
	assert.Equal(t, "February", month)

	lf, err := f.GetCellValue(SheetGridLimit, "F1")
	require.NoError(t, err)
	assert.Equal(t, "load_factor", lf)

	unit, err := f.GetCellValue(SheetUnits, "B2")
	require.NoError(t, err)
	assert.Equal(t, "kW", unit)
}

func TestWriteTablesCSV(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteTablesCSV(analyzedContext(t), dir, "plant")
	require.NoError(t, err)

	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Contains(t, names, "plant__threshold_monthly.csv")
	assert.Contains(t, names, "plant__power_distribution.csv")
	assert.Contains(t, names, "plant__grid_limit_load_factor_monthly.csv")
	assert.NotContains(t, names, "plant__inverter_clipping_monthly.csv")

	data, err := os.ReadFile(filepath.Join(dir, "plant__threshold_monthly.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "month_name,hours_above,energy_above_kwh", lines[0])
	assert.Equal(t, "February,2,150", lines[1])
}
