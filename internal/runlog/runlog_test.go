package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvinsight/internal/dataset"
)

func TestMakeRunFolders(t *testing.T) {
	root := filepath.Join(t.TempDir(), "outputs")

	p, err := MakeRunFolders(root)
	require.NoError(t, err)

	for _, dir := range []string{p.Reports, p.Figures, p.Logs} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.Equal(t, filepath.Join(root, "logs"), p.Logs)
}

func TestSafeSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  My Site (v2).csv ", "my_site_v2_.csv"},
		{"__Hello__", "hello"},
		{"été 2024", "t_2024"},
		{strings.Repeat("a", 100), strings.Repeat("a", 80)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeSlug(tt.in), tt.in)
	}
}

func TestSuffix(t *testing.T) {
	ts := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	assert.Equal(t, "__2025-02-03_04-05-06", Suffix(ts, true))
	assert.Empty(t, Suffix(ts, false))
	assert.Equal(t, "site", Stem("dir/site.csv"))
}

func TestWrite(t *testing.T) {
	step := 60
	expected := 8760
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	entry := Entry{
		Tool:            "TMY_Analysis",
		GeneratedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Sources:         []string{"site.csv"},
		TimeStepMinutes: &step,
		Header:          map[string]string{"Site": "Lyon", "Meteo data": "TMY"},
		Units:           map[string]string{"temp": "°C", "ghi": "kW/m²"},
		Quality: &dataset.Quality{
			Rows:         8760,
			Start:        time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
			End:          time.Date(2001, 12, 31, 23, 0, 0, 0, time.UTC),
			ExpectedRows: &expected,
		},
	}

	require.NoError(t, Write(path, entry))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, strings.Repeat("=", 70)+"\nTMY_Analysis — PVInsight\nGenerated: 2025-01-02 03:04:05\n"))
	assert.Contains(t, text, "Sources:\n  - site.csv\n")
	assert.Contains(t, text, "Time step (min): 60\n")
	assert.Contains(t, text, "Header info:\n  Meteo data: TMY\n  Site: Lyon\n")
	assert.Contains(t, text, "Units by column:\n  ghi: kW/m²\n  temp: °C\n")
	assert.Contains(t, text, "  start: 2001-01-01 00:00:00\n")
	assert.Contains(t, text, "  expected_rows: 8760\n  warning: -\n")
	assert.True(t, strings.HasSuffix(text, "Warnings: none\n"))
}

func TestFormat_Warnings(t *testing.T) {
	text := Format(Entry{Tool: "Compare", Warnings: []string{"[units] a", "[energy] b"}})

	assert.Contains(t, text, "Warnings:\n  - [units] a\n  - [energy] b\n")
	assert.NotContains(t, text, "Quality summary")
	assert.NotContains(t, text, "Time step")
}
