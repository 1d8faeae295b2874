package application

import (
	"time"

	"github.com/rs/zerolog"

	"pvinsight/internal/dataset"
	"pvinsight/internal/energy"
	"pvinsight/internal/ingest"
	"pvinsight/internal/observability/metrics"
	"pvinsight/internal/units"
)

// Source is one uploaded file.
type Source struct {
	Data []byte
	Name string
}

// CompareRequest configures a TMY comparison.
type CompareRequest struct {
	A, B                 Source
	TargetIrradianceUnit string
	EnergyUnit           string
	ResampleHourly       bool

	// ThresholdMeanPct raises the alert when a mean relative difference exceeds it.
	ThresholdMeanPct float64

	// CommonStepMinutes is the step used to integrate the aligned period.
	CommonStepMinutes int
}

// DefaultCompareRequest returns the usual comparison settings.
func DefaultCompareRequest(a, b Source) CompareRequest {
	return CompareRequest{
		A:                    a,
		B:                    b,
		TargetIrradianceUnit: units.KiloWattPerM2,
		EnergyUnit:           units.KiloWattHourPerM2,
		ResampleHourly:       true,
		ThresholdMeanPct:     5,
		CommonStepMinutes:    60,
	}
}

// ComparisonResult holds the aligned series and their metrics.
type ComparisonResult struct {
	A, B              *dataset.Dataset
	NativeStepA       int
	NativeStepB       int
	UsedStepMinutes   int
	CommonStepMinutes int

	AlignedA, AlignedB *dataset.Frame
	Variables          []string
	Alignment          Alignment
	CommonStart        time.Time
	CommonEnd          time.Time

	Metrics []VariableMetrics
	Alert   bool

	EnergyA, EnergyB             energy.Summary
	EnergyACommon, EnergyBCommon energy.Summary

	Warnings []string
}

// Comparer compares two TMY files.
type Comparer struct {
	logger zerolog.Logger
	reader *ingest.Reader
}

// NewComparer builds a Comparer.
func NewComparer(logger zerolog.Logger) *Comparer {
	return &Comparer{logger: logger, reader: ingest.NewReader(logger)}
}

// Compare runs a comparison with a silent logger.
func Compare(req CompareRequest) (*ComparisonResult, error) {
	return NewComparer(zerolog.Nop()).Compare(req)
}

// Compare reads both files, aligns them hourly on the calendar, falling
// back to (month, day, hour) keys, and computes per-variable metrics.
func (c *Comparer) Compare(req CompareRequest) (*ComparisonResult, error) {
	if req.CommonStepMinutes <= 0 {
		return nil, ErrInvalidStep
	}
	a, nativeA, err := c.read(req.A, req)
	if err != nil {
		return nil, err
	}
	b, nativeB, err := c.read(req.B, req)
	if err != nil {
		return nil, err
	}

	res := &ComparisonResult{
		A:                 a,
		B:                 b,
		NativeStepA:       nativeA,
		NativeStepB:       nativeB,
		UsedStepMinutes:   60,
		CommonStepMinutes: req.CommonStepMinutes,
	}
	if !req.ResampleHourly {
		res.UsedStepMinutes = min(nativeA, nativeB)
	}

	hourA := dataset.FloorHourly(a.Frame)
	hourB := dataset.FloorHourly(b.Frame)

	res.Alignment = AlignmentCalendar
	res.AlignedA, res.AlignedB, res.Variables = AlignCalendar(hourA, hourB, CompareVariables)
	if res.AlignedA.Len() == 0 {
		c.logger.Warn().
			Str("event", "tmy_alignment_fallback").
			Str("a", a.SourceName).
			Str("b", b.SourceName).
			Msg("no overlap on datetime, falling back to climatological alignment")
		res.Alignment = AlignmentClimatology
		res.AlignedA, res.AlignedB, res.Variables = AlignClimatology(hourA, hourB, CompareVariables)
	}
	if res.AlignedA.Len() == 0 {
		metrics.IncComparison("none", false)
		return nil, ErrNoCommonTimestamps
	}
	res.CommonStart = res.AlignedA.Time[0]
	res.CommonEnd = res.AlignedA.Time[res.AlignedA.Len()-1]

	res.Metrics, res.Alert = ComputeMetrics(res.AlignedA, res.AlignedB, res.Variables, req.ThresholdMeanPct)

	energyUnit := req.EnergyUnit
	if energyUnit == "" {
		energyUnit = units.KiloWattHourPerM2
	}
	if res.EnergyA, err = energy.AnnualIrradiation(a.Frame, a.Units, a.TimeStepMinutes, energyUnit); err != nil {
		return nil, err
	}
	if res.EnergyB, err = energy.AnnualIrradiation(b.Frame, b.Units, b.TimeStepMinutes, energyUnit); err != nil {
		return nil, err
	}
	if res.EnergyACommon, err = energy.AnnualIrradiation(res.AlignedA, a.Units, req.CommonStepMinutes, energyUnit); err != nil {
		return nil, err
	}
	if res.EnergyBCommon, err = energy.AnnualIrradiation(res.AlignedB, b.Units, req.CommonStepMinutes, energyUnit); err != nil {
		return nil, err
	}

	for _, w := range [][]string{
		a.Warnings, b.Warnings,
		res.EnergyA.Warnings, res.EnergyB.Warnings,
		res.EnergyACommon.Warnings, res.EnergyBCommon.Warnings,
	} {
		res.Warnings = append(res.Warnings, w...)
	}

	metrics.IncComparison(string(res.Alignment), res.Alert)
	c.logger.Info().
		Str("event", "tmy_compare_done").
		Str("alignment", string(res.Alignment)).
		Int("hours", res.AlignedA.Len()).
		Bool("alert", res.Alert).
		Msg("tmy comparison finished")
	return res, nil
}

// read returns the dataset to compare and the native step of the file.
func (c *Comparer) read(src Source, req CompareRequest) (*dataset.Dataset, int, error) {
	opts := ingest.TMYOptions{
		SourceName:           src.Name,
		TargetIrradianceUnit: req.TargetIrradianceUnit,
	}
	native, err := c.reader.ReadTMY(src.Data, opts)
	if err != nil {
		return nil, 0, err
	}
	metrics.IncReaderDialect(native.Dialect, len(native.Warnings))
	if !req.ResampleHourly || native.TimeStepMinutes >= 60 {
		return native, native.TimeStepMinutes, nil
	}
	opts.ResampleHourly = true
	ds, err := c.reader.ReadTMY(src.Data, opts)
	if err != nil {
		return nil, 0, err
	}
	return ds, native.TimeStepMinutes, nil
}
