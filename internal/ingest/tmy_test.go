package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvinsight/internal/units"
)

const pvsystHourly = `#Meteo data;Test site
#Time Step;h
YEAR;MONTH;DAY;HOUR;GHI;DHI;DNI;Tamb;WindVel;WindDir;Extra
;;;;W/m2;W/m2;W/m2;deg.C;m/sec;°;-
2001;1;1;0;0;0;0;5,5;2;180;1
2001;1;1;1;100;50;200;6;2;180;1
2001;1;1;2;300;100;400;7;3;190;1
`

const pvsystQuarter = `#Time Step;15min
YEAR;MONTH;DAY;HOUR;GHI;Tamb
;;;;W/m2;deg.C
2001;6;1;10;100;20
2001;6;1;10;200;22
2001;6;1;10;300;24
2001;6;1;10;400;26
2001;6;1;11;500;30
`

const solargisDOY = `#Solargis TMY export
#Latitude: 45.1
#GHI - Global horizontal irradiation [Wh/m2]
#DNI - Direct normal irradiation [Wh/m2]
#TEMP - Air temperature [deg.C]
Day;Time;GHI;DNI;DIF;TEMP
1;00:30;0;0;0;-1.5
1;01:30;100;200;50;-1.0
1;02:30;300;400;80;0.5
`

const solargisISO = `timestamp,GHI,DNI,DHI,TEMP
,W/m2,W/m2,W/m2,deg.C
2020-06-01 10:00,500,600,100,20
2020-06-01 11:00,600,700,120,21
`

func TestReadPVsystTMY_Hourly(t *testing.T) {
	ds, err := ReadPVsystTMY([]byte(pvsystHourly), DefaultTMYOptions("site.csv"))
	require.NoError(t, err)

	assert.Equal(t, DialectPVsyst, ds.Dialect)
	assert.Equal(t, "site.csv", ds.SourceName)
	assert.Equal(t, 60, ds.TimeStepMinutes)
	assert.Equal(t, "Test site", ds.Header["Meteo data"])
	assert.ElementsMatch(t, []string{"ghi", "dni", "dhi", "temp", "wind_speed", "wind_direction"}, ds.Frame.Columns())
	assert.InDeltaSlice(t, []float64{0, 0.1, 0.3}, ds.Frame.Column("ghi"), 1e-12)
	assert.Equal(t, []float64{5.5, 6, 7}, ds.Frame.Column("temp"))
	assert.Equal(t, units.KiloWattPerM2, ds.Units["ghi"])
	assert.Equal(t, units.Celsius, ds.Units["temp"])
	assert.Equal(t, units.MetrePerSecond, ds.Units["wind_speed"])
	assert.Equal(t, time.Date(2001, 1, 1, 2, 0, 0, 0, time.UTC), ds.Frame.Time[2])
	assert.Equal(t, 3, ds.Quality.Rows)
	assert.Empty(t, ds.Warnings)
}

func TestReadPVsystTMY_SubHourlyOffsets(t *testing.T) {
	opts := DefaultTMYOptions("quarter.csv")
	opts.ResampleHourly = false
	opts.TargetIrradianceUnit = units.WattPerM2

	ds, err := ReadPVsystTMY([]byte(pvsystQuarter), opts)
	require.NoError(t, err)

	assert.Equal(t, 15, ds.TimeStepMinutes)
	base := time.Date(2001, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, []time.Time{
		base, base.Add(15 * time.Minute), base.Add(30 * time.Minute), base.Add(45 * time.Minute), base.Add(time.Hour),
	}, ds.Frame.Time)
	assert.Empty(t, ds.Warnings)
}

func TestReadPVsystTMY_SubHourlyResampled(t *testing.T) {
	opts := DefaultTMYOptions("quarter.csv")
	opts.TargetIrradianceUnit = units.WattPerM2

	ds, err := ReadPVsystTMY([]byte(pvsystQuarter), opts)
	require.NoError(t, err)

	assert.Equal(t, 60, ds.TimeStepMinutes)
	assert.Equal(t, []float64{1000, 500}, ds.Frame.Column("ghi"))
	assert.Equal(t, []float64{23, 30}, ds.Frame.Column("temp"))
	assert.Contains(t, ds.Warnings, resampleWarning)
}

func TestReadPVsystTMY_SplitHourWarns(t *testing.T) {
	in := `#Time Step;30min
YEAR;MONTH;DAY;HOUR;GHI
;;;;W/m2
2001;6;1;10;1
2001;6;1;11;2
2001;6;1;10;3
`
	ds, err := ReadPVsystTMY([]byte(in), DefaultTMYOptions("split.csv"))
	require.NoError(t, err)
	require.NotEmpty(t, ds.Warnings)
	assert.Contains(t, ds.Warnings[0], "not contiguous")
}

func TestReadPVsystTMY_NoYearHeader(t *testing.T) {
	_, err := ReadPVsystTMY([]byte(solargisDOY), DefaultTMYOptions("x"))
	assert.ErrorIs(t, err, ErrYearHeader)
}

func TestReadSolargisTMY_DOYAndTime(t *testing.T) {
	ds, err := ReadSolargisTMY([]byte(solargisDOY), DefaultTMYOptions("sg.csv"))
	require.NoError(t, err)

	assert.Equal(t, DialectSolargis, ds.Dialect)
	assert.Equal(t, "45.1", ds.Header["Latitude"])
	assert.Equal(t, 60, ds.TimeStepMinutes)
	assert.Equal(t, time.Date(2001, 1, 1, 1, 30, 0, 0, time.UTC), ds.Frame.Time[1])
	assert.InDeltaSlice(t, []float64{0, 0.1, 0.3}, ds.Frame.Column("ghi"), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0.2, 0.4}, ds.Frame.Column("dni"), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0.05, 0.08}, ds.Frame.Column("dhi"), 1e-12)
	assert.Equal(t, units.KiloWattPerM2, ds.Units["ghi"])
	assert.Equal(t, units.Celsius, ds.Units["temp"])
	assert.Contains(t, ds.Warnings, "[units] Missing unit for 'dhi', assuming W/m².")
}

func TestReadSolargisTMY_ExplicitDatetimeWithUnitsRow(t *testing.T) {
	opts := DefaultTMYOptions("iso.csv")
	opts.TargetIrradianceUnit = units.WattPerM2

	ds, err := ReadSolargisTMY([]byte(solargisISO), opts)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Frame.Len())
	assert.Equal(t, time.Date(2020, 6, 1, 11, 0, 0, 0, time.UTC), ds.Frame.Time[1])
	assert.Equal(t, []float64{500, 600}, ds.Frame.Column("ghi"))
	assert.Equal(t, units.WattPerM2, ds.Units["dhi"])
	assert.Empty(t, ds.Warnings)
}

func TestReadSolargisTMY_DatetimeStrategies(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "year month day hour minute",
			in:   "Year;Month;Day;Hour;Minute;GHI\n2001;3;2;5;30;10\n2001;3;2;6;30;20\n",
			want: time.Date(2001, 3, 2, 5, 30, 0, 0, time.UTC),
		},
		{
			name: "doy and fractional time",
			in:   "DOY;Time;GHI\n32;5.5;10\n32;6.5;20\n",
			want: time.Date(2001, 2, 1, 5, 30, 0, 0, time.UTC),
		},
		{
			name: "doy and hour",
			in:   "DOY;Hour;GHI\n2;23;10\n3;0;20\n",
			want: time.Date(2001, 1, 2, 23, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := ReadSolargisTMY([]byte(tc.in), DefaultTMYOptions(tc.name))
			require.NoError(t, err)
			assert.Equal(t, tc.want, ds.Frame.Time[0])
			assert.Equal(t, 60, ds.TimeStepMinutes)
		})
	}
}

func TestReadSolargisTMY_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"only header", "#a: 1\n#b: 2\n", ErrNoTable},
		{"no columns row", "1;2;3\n4;5;6\n", ErrColumnsRow},
		{"no data", "Day;Time;GHI\n", ErrNoData},
		{"bad month", "Year;Month;Day;Hour;GHI\n2001;13;1;0;5\n", ErrDatetime},
		{"bad clock", "DOY;Time;GHI\n1;noon;5\n", ErrDatetime},
		{"no time columns", "Day;Foo;GHI\n1;2;5\n", ErrTimeColumns},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadSolargisTMY([]byte(tc.in), DefaultTMYOptions(tc.name))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReadSolargisTMY_DuplicateColumns(t *testing.T) {
	in := "DOY;Hour;GHI;GHI\n1;0;10;99\n1;1;20;99\n"
	ds, err := ReadSolargisTMY([]byte(in), DefaultTMYOptions("dup"))
	require.NoError(t, err)
	assert.Contains(t, ds.Warnings, "[columns] Duplicate columns detected; keeping first occurrence: [GHI]")
	assert.InDeltaSlice(t, []float64{0.01, 0.02}, ds.Frame.Column("ghi"), 1e-12)
}

func TestReader_ReadTMYFallsBack(t *testing.T) {
	ds, err := ReadTMY([]byte(pvsystHourly), DefaultTMYOptions("a"))
	require.NoError(t, err)
	assert.Equal(t, DialectPVsyst, ds.Dialect)

	ds, err = ReadTMY([]byte(solargisDOY), DefaultTMYOptions("b"))
	require.NoError(t, err)
	assert.Equal(t, DialectSolargis, ds.Dialect)
}

func TestReader_ReadTMYBothFail(t *testing.T) {
	_, err := ReadTMY([]byte("#only\n#header\n"), DefaultTMYOptions("c"))
	require.Error(t, err)

	var de *DialectError
	require.True(t, errors.As(err, &de))
	assert.ErrorIs(t, err, ErrUnsupportedTMY)
	assert.ErrorIs(t, err, ErrNoTable)
	assert.Contains(t, err.Error(), "Unable to read TMY file with supported readers (PVSyst, SolarGIS).")
}
