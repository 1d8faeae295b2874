package ingest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hourlyExport = `PVsyst V7.4.0
Simulation date;;26/08/25 09h50
Projet;9312_LGR_9-E3.PRJ;26/08/25 09h50;
Site géographique;;;Lyon;
Données météo;;;Meteonorm 8.1;
Variante de simulation;;;VC0;

date;E_Grid;EArray;GlobHor
;kW;kW;W/m²
01/01/90 02:00;20;21;200
01/01/90 00:00;-1,5;0;0
01/01/90 01:00;10,0;11;100;extra
01/01/90 03:00;5
`

func TestReadHourlyResults(t *testing.T) {
	ds, err := ReadHourlyResults([]byte(hourlyExport), HourlyOptions{SourceName: "plant.csv", DateFormat: DefaultDateFormat})
	require.NoError(t, err)

	assert.Equal(t, DialectPVsystHourly, ds.Dialect)
	assert.Equal(t, "PVsyst V7.4.0", ds.Header["PVSyst_version"])
	assert.Equal(t, "26/08/25 09h50", ds.Header["Simulation_date"])
	assert.Equal(t, "9312_LGR_9-E3.PRJ", ds.Header["Project_file"])
	assert.Equal(t, "9312_LGR_9-E3", ds.Header["Project_code"])
	assert.Equal(t, "Lyon", ds.Header["Site_name"])
	assert.Equal(t, "Meteonorm 8.1", ds.Header["Meteo_name"])
	assert.Equal(t, "VC0", ds.Header["Variant_name"])

	require.Equal(t, 3, ds.Frame.Len(), "short rows are dropped")
	assert.Equal(t, time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), ds.Frame.Time[0])
	assert.Equal(t, []float64{-1.5, 10, 20}, ds.Frame.Column("E_Grid"))
	assert.Equal(t, []string{"E_Grid", "EArray", "GlobHor"}, ds.Frame.Columns())
	assert.Equal(t, "kW", ds.Units["E_Grid"])
	assert.Equal(t, "W/m²", ds.Units["GlobHor"])
	assert.Equal(t, 60, ds.TimeStepMinutes)
}

func TestReadHourlyResults_Latin1(t *testing.T) {
	in := "PVsyst V7\nSite g\xe9ographique;;;Gen\xe8ve;\ndate;E_Grid\n;kWh\n01/01/90 00:00;1\n01/01/90 01:00;2\n"
	ds, err := ReadHourlyResults([]byte(in), HourlyOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Genève", ds.Header["Site_name"])
	assert.Equal(t, "uploaded_hourly.csv", ds.SourceName)
}

func TestReadHourlyResults_DateFormats(t *testing.T) {
	cases := map[string]string{
		"4-digit year":  "15/06/2021 13:00",
		"seconds":       "15/06/21 13:00:00",
		"dotted":        "15.06.2021 13:00",
		"iso":           "2021-06-15 13:00",
		"quoted nbsp":   "\"15/06/2021 13:00\"",
		"day-first ISO": "2021-06-15T13:00:00",
	}
	for name, cell := range cases {
		t.Run(name, func(t *testing.T) {
			in := fmt.Sprintf("v\ndate;E_Grid\n;kWh\n%s;1\n", cell)
			ds, err := ReadHourlyResults([]byte(in), HourlyOptions{DateFormat: DefaultDateFormat})
			require.NoError(t, err)
			assert.Equal(t, time.Date(2021, 6, 15, 13, 0, 0, 0, time.UTC), ds.Frame.Time[0])
		})
	}
}

func TestReadHourlyResults_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"no table", "PVsyst\nfoo;bar\n", ErrHourlyTable},
		{"no units row", "PVsyst\ndate;E_Grid", ErrUnitsRow},
		{"no E_Grid", "PVsyst\ndate;EArray\n;kW\n01/01/90 00:00;1\n", ErrMandatoryColumn},
		{"no dates", "PVsyst\ndate;E_Grid\n;kW\nyesterday;1\n", ErrNoTimestamps},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadHourlyResults([]byte(tc.in), HourlyOptions{})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReadHourlyResults_NumericSanityGate(t *testing.T) {
	var b strings.Builder
	b.WriteString("PVsyst\ndate;E_Grid;EArray\n;kW;kW\n")
	for h := 0; h < 10; h++ {
		if h < 4 {
			fmt.Fprintf(&b, "01/01/90 %02d:00;%d;%d\n", h, h, h)
			continue
		}
		fmt.Fprintf(&b, "01/01/90 %02d:00;n/a;--\n", h)
	}

	_, err := ReadHourlyResults([]byte(b.String()), HourlyOptions{})
	require.ErrorIs(t, err, ErrNumericRows)
	assert.Contains(t, err.Error(), "50%")
}

func TestParseDateColumn_SingleCellFallsThrough(t *testing.T) {
	got := parseDateColumn([]string{"2021-06-15 13:00"}, append([]string{DefaultDateFormat}, fallbackDateFormats...))
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2021, 6, 15, 13, 0, 0, 0, time.UTC), got[0])
}

func TestReadHourlyResults_UnparsableDates(t *testing.T) {
	var b strings.Builder
	b.WriteString("PVsyst\ndate;E_Grid\n;kW\n")
	for h := 0; h < 10; h++ {
		if h == 3 || h == 6 {
			fmt.Fprintf(&b, "garbage;%d\n", h)
			continue
		}
		fmt.Fprintf(&b, "01/01/90 %02d:00;%d\n", h, h)
	}

	ds, err := ReadHourlyResults([]byte(b.String()), HourlyOptions{DateFormat: DefaultDateFormat})
	require.NoError(t, err)
	assert.Equal(t, 8, ds.Frame.Len())
	assert.Equal(t, 2, ds.Quality.MissingTimestamps)

	var found string
	for _, w := range ds.Warnings {
		if strings.HasPrefix(w, "[datetime]") {
			found = w
		}
	}
	assert.Contains(t, found, "2 row(s) dropped: unparsable date")
	assert.Contains(t, found, `"garbage"`)
}
