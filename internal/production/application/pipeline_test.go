package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvinsight/internal/ingest"
	"pvinsight/internal/production/domain"
)

const hourlyExport = `PVsyst V7.4.0
Simulation date;;26/08/25 09h50
Project;DEMO.PRJ;26/08/25 09h50;
date;E_Grid;EGrdLim;EOutInv;IL_Pmax
;kW;kW;kW;kW
01/06/2021 00:00;-1,0;0;0;0
01/06/2021 01:00;0;0;0;0
01/06/2021 02:00;40;0;40;0
01/06/2021 03:00;80;5;80;2
`

func TestAnalyze(t *testing.T) {
	ctx, err := Analyze(Request{
		Data:            []byte(hourlyExport),
		SourceName:      "demo.csv",
		ThresholdColumn: "E_Grid",
		ThresholdValue:  50,
		GridCapacityKW:  -1,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "demo.csv", ctx.InputName)
	assert.InDelta(t, 1.0, ctx.StepHours, 1e-9)
	assert.Nil(t, ctx.Options.GridCapacityKW)
	assert.Equal(t, 6, ctx.Results.Len())

	thr, ok := domain.Lookup[domain.ThresholdResult](ctx.Results, domain.Threshold)
	require.True(t, ok)
	assert.Equal(t, 1.0, thr.HoursAbove)
	assert.InDelta(t, 1.0, thr.NightConsumptionKWh, 1e-9)

	gl, ok := domain.Lookup[domain.GridLimitResult](ctx.Results, domain.GridLimit)
	require.True(t, ok)
	assert.InDelta(t, 5.0, gl.LostKWh, 1e-9)
	assert.Nil(t, gl.LoadFactor)

	lf, _ := ctx.Results.Get(domain.LoadFactor)
	assert.False(t, lf.Available())
}

func TestAnalyze_ReaderError(t *testing.T) {
	_, err := Analyze(Request{Data: []byte("PVsyst V7\ndate;EArray\n;kW\n01/06/2021 00:00;1\n")}, nil)
	assert.ErrorIs(t, err, ingest.ErrMandatoryColumn)
}
