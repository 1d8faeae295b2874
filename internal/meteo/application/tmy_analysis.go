package application

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"pvinsight/internal/dataset"
	"pvinsight/internal/energy"
	"pvinsight/internal/ingest"
	"pvinsight/internal/observability/metrics"
	"pvinsight/internal/units"
)

// StatsVariables are summarized by the TMY analysis, in display order.
var StatsVariables = []string{"ghi", "dni", "dhi", "temp"}

// GHIClassWidth is the width of a GHI distribution class in W/m².
const GHIClassWidth = 200

// VariableStats is the mean/min/max of one variable, NaN skipped.
type VariableStats struct {
	Variable string  `csv:"variable"`
	Unit     string  `csv:"unit"`
	Mean     float64 `csv:"mean"`
	Min      float64 `csv:"min"`
	Max      float64 `csv:"max"`
}

// GHIClass is one bin of the GHI distribution.
type GHIClass struct {
	Class string  `csv:"class"`
	N     int     `csv:"n"`
	Pct   float64 `csv:"pct"`
}

// AnalyzeRequest configures a single-file TMY analysis.
type AnalyzeRequest struct {
	Source               Source
	TargetIrradianceUnit string
	EnergyUnit           string
	ResampleHourly       bool
}

// TMYAnalysis is the outcome of AnalyzeTMY.
type TMYAnalysis struct {
	Dataset      *dataset.Dataset
	Stats        []VariableStats
	Distribution []GHIClass
	Energy       energy.Summary
	Warnings     []string
}

// Analyzer summarizes one TMY file.
type Analyzer struct {
	logger zerolog.Logger
	reader *ingest.Reader
}

// NewAnalyzer builds an Analyzer that logs to logger.
func NewAnalyzer(logger zerolog.Logger) *Analyzer {
	return &Analyzer{logger: logger, reader: ingest.NewReader(logger)}
}

// AnalyzeTMY runs an analysis with a silent logger.
func AnalyzeTMY(req AnalyzeRequest) (*TMYAnalysis, error) {
	return NewAnalyzer(zerolog.Nop()).Analyze(req)
}

// Analyze reads the file, then computes basic statistics, the GHI
// distribution (always in W/m²) and the annual irradiation.
func (a *Analyzer) Analyze(req AnalyzeRequest) (*TMYAnalysis, error) {
	target := req.TargetIrradianceUnit
	if target == "" {
		target = units.KiloWattPerM2
	}
	energyUnit := req.EnergyUnit
	if energyUnit == "" {
		energyUnit = units.KiloWattHourPerM2
	}
	ds, err := a.reader.ReadTMY(req.Source.Data, ingest.TMYOptions{
		SourceName:           req.Source.Name,
		TargetIrradianceUnit: target,
		ResampleHourly:       req.ResampleHourly,
	})
	if err != nil {
		return nil, err
	}
	metrics.IncReaderDialect(ds.Dialect, len(ds.Warnings))

	out := &TMYAnalysis{
		Dataset: ds,
		Stats:   BasicStats(ds.Frame, ds.Units),
	}
	if out.Energy, err = energy.AnnualIrradiation(ds.Frame, ds.Units, ds.TimeStepMinutes, energyUnit); err != nil {
		return nil, err
	}
	wm2, wm2Units, convWarnings, err := units.ConvertIrradiance(ds.Frame, ds.Units, units.WattPerM2)
	if err != nil {
		return nil, err
	}
	if wm2Units["ghi"] == units.WattPerM2 {
		out.Distribution = GHIDistribution(wm2.Column("ghi"), GHIClassWidth)
	}

	out.Warnings = append(out.Warnings, ds.Warnings...)
	out.Warnings = append(out.Warnings, out.Energy.Warnings...)
	out.Warnings = append(out.Warnings, convWarnings...)

	a.logger.Info().
		Str("event", "tmy_analysis_done").
		Str("source", ds.SourceName).
		Str("dialect", ds.Dialect).
		Int("rows", ds.Frame.Len()).
		Int("warnings", len(out.Warnings)).
		Msg("tmy analysis finished")
	return out, nil
}

// BasicStats returns mean/min/max of the StatsVariables present in f.
// A column with no finite value yields NaN statistics.
func BasicStats(f *dataset.Frame, unitsByColumn map[string]string) []VariableStats {
	present := lo.Filter(StatsVariables, func(v string, _ int) bool { return f.Has(v) })
	return lo.Map(present, func(v string, _ int) VariableStats {
		s := VariableStats{Variable: v, Unit: unitsByColumn[v], Mean: math.NaN(), Min: math.NaN(), Max: math.NaN()}
		finite := lo.Filter(f.Column(v), func(x float64, _ int) bool { return isFinite(x) })
		if len(finite) > 0 {
			s.Mean = stat.Mean(finite, nil)
			s.Min = floats.Min(finite)
			s.Max = floats.Max(finite)
		}
		return s
	})
}

// GHIDistribution bins strictly positive values into right-closed classes
// (0, w], (w, 2w], ... up to ceil(max/w)·w, with at least one class.
// Shares are rounded to 0.1 %.
func GHIDistribution(values []float64, width int) []GHIClass {
	positive := lo.Filter(values, func(x float64, _ int) bool { return isFinite(x) && x > 0 })
	if len(positive) == 0 || width <= 0 {
		return nil
	}
	w := float64(width)
	upper := math.Ceil(math.Max(floats.Max(positive), w)/w) * w
	n := int(upper / w)

	counts := make([]int, n)
	for _, x := range positive {
		k := int(math.Ceil(x/w)) - 1
		counts[min(max(k, 0), n-1)]++
	}
	total := float64(len(positive))
	out := make([]GHIClass, n)
	for i, c := range counts {
		out[i] = GHIClass{
			Class: fmt.Sprintf("[%d–%d] W/m²", i*width, (i+1)*width),
			N:     c,
			Pct:   math.Round(float64(c)/total*1000) / 10,
		}
	}
	return out
}
