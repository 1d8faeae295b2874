package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tmyFile = `#Meteo data;Site A
#Time Step;h
YEAR;MONTH;DAY;HOUR;GHI;DHI;DNI;Tamb;WindVel
;;;;W/m2;W/m2;W/m2;deg.C;m/sec
2001;1;1;10;100;50;200;5;2
2001;1;1;11;300;100;400;6;3
2001;1;1;12;500;120;600;7;4
`

const hourlyFile = `PVsyst V7.4.0
Simulation date;;26/08/25 09h50
Project;DEMO.PRJ;26/08/25 09h50;
date;E_Grid;EGrdLim;EOutInv;IL_Pmax
;kW;kW;kW;kW
01/06/2021 00:00;-1,0;0;0;0
01/06/2021 01:00;0;0;0;0
01/06/2021 02:00;40;0;40;0
01/06/2021 03:00;80;5;80;2
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PVINSIGHT_CONFIG", "")
	t.Setenv("PVINSIGHT_OUTPUT_DIR", "")
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTMYAnalyze(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "site.csv", tmyFile)
	outDir := filepath.Join(dir, "out")

	stdout, err := run(t, "--output", outDir, "--log-level", "error", "tmy", "analyze", "--file", in, "--no-timestamp")
	require.NoError(t, err)

	assert.Contains(t, stdout, "site.csv (pvsyst, 3 rows, step 60 min)")
	assert.FileExists(t, filepath.Join(outDir, "reports", "site__TMY_Report.pdf"))
	assert.FileExists(t, filepath.Join(outDir, "logs", "site__TMY_Analysis.log"))
	assert.FileExists(t, filepath.Join(outDir, "logs", "TMY_Analysis_metrics.prom"))
	assert.DirExists(t, filepath.Join(outDir, "figures"))
}

func TestTMYCompare(t *testing.T) {
	dir := t.TempDir()
	a := writeInput(t, dir, "a.csv", tmyFile)
	b := writeInput(t, dir, "b.csv", tmyFile)
	outDir := filepath.Join(dir, "out")

	stdout, err := run(t, "--output", outDir, "--log-level", "error", "tmy", "compare", "--a", a, "--b", b, "--no-timestamp")
	require.NoError(t, err)

	assert.Contains(t, stdout, "3 common hours (calendar alignment)")
	assert.NotContains(t, stdout, "ALERT")
	base := filepath.Join(outDir, "reports", "TMY_Comparison__a__VS__b")
	assert.FileExists(t, base+".pdf")
	assert.FileExists(t, base+".xlsx")
	assert.FileExists(t, base+"__metrics.csv")

	log, err := os.ReadFile(filepath.Join(outDir, "logs", "TMY_Compare__a__VS__b.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "  alignment: calendar\n")
	assert.Contains(t, string(log), "  A.ghi: kW/m²\n")
}

func TestHourlyAnalyze(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "plant.csv", hourlyFile)
	outDir := filepath.Join(dir, "out")

	stdout, err := run(t, "--output", outDir, "--log-level", "error",
		"hourly", "analyze", "--file", in, "--threshold", "50", "--no-timestamp")
	require.NoError(t, err)

	assert.Contains(t, stdout, "threshold")
	base := filepath.Join(outDir, "reports", "plant__hourly_results_analysis")
	assert.FileExists(t, base+".pdf")
	assert.FileExists(t, base+".xlsx")
	assert.FileExists(t, filepath.Join(outDir, "reports", "plant__hourly__threshold_monthly.csv"))
	assert.FileExists(t, filepath.Join(outDir, "logs", "plant__Hourly_Analysis.log"))
}

func TestMissingInput(t *testing.T) {
	_, err := run(t, "--output", t.TempDir(), "tmy", "analyze", "--file", filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestBadLogFormat(t *testing.T) {
	_, err := run(t, "--log-format", "xml", "tmy", "analyze", "--file", "x.csv")
	assert.ErrorContains(t, err, "unsupported log format")
}
