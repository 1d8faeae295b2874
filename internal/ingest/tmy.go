package ingest

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"pvinsight/internal/columns"
	"pvinsight/internal/dataset"
	"pvinsight/internal/units"
)

// Dialect names recorded on datasets.
const (
	DialectPVsyst       = "pvsyst"
	DialectSolargis     = "solargis"
	DialectPVsystHourly = "pvsyst_hourly"
)

const resampleWarning = "[resample] Sub-hourly data resampled to 1H (sum irradiance / mean temp+wind)."

// TMYOptions control TMY post-processing.
type TMYOptions struct {
	SourceName           string
	TargetIrradianceUnit string
	ResampleHourly       bool
}

// DefaultTMYOptions returns kW/m² output with hourly resampling.
func DefaultTMYOptions(source string) TMYOptions {
	return TMYOptions{
		SourceName:           source,
		TargetIrradianceUnit: units.KiloWattPerM2,
		ResampleHourly:       true,
	}
}

func (o TMYOptions) target() string {
	if o.TargetIrradianceUnit == "" {
		return units.KiloWattPerM2
	}
	return o.TargetIrradianceUnit
}

var (
	resampleSum  = []string{"ghi", "dni", "dhi", "gpi"}
	resampleMean = []string{"temp", "wind_speed", "wind_direction"}
)

// finishTMY keeps the meteo columns, converts irradiance, optionally
// resamples to hourly and runs the quality check.
func finishTMY(ds *dataset.Dataset, f *dataset.Frame, unitsByCol map[string]string, opts TMYOptions) error {
	kept := lo.Filter(columns.MeteoColumns, func(c string, _ int) bool { return f.Has(c) })
	f = f.Select(kept...)
	keptUnits := make(map[string]string, len(kept))
	for _, c := range kept {
		keptUnits[c] = unitsByCol[c]
	}

	f, keptUnits, warnings, err := units.ConvertIrradiance(f, keptUnits, opts.target())
	if err != nil {
		return err
	}
	ds.AddWarnings(warnings...)

	if opts.ResampleHourly && ds.TimeStepMinutes < 60 {
		f = dataset.ResampleHourly(f, resampleSum, resampleMean)
		ds.TimeStepMinutes = 60
		ds.Warn(resampleWarning)
	}

	ds.Frame = f
	ds.Units = keptUnits
	ds.Quality = dataset.CheckQuality(f, ds.TimeStepMinutes)
	if ds.Quality.Warning != "" {
		ds.Warn("[quality] " + ds.Quality.Warning)
	}
	return nil
}

// Reader reads TMY files, trying each dialect in turn.
type Reader struct {
	logger zerolog.Logger
}

// NewReader creates a TMY reader.
func NewReader(logger zerolog.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadTMY tries the PVsyst dialect then the Solargis dialect. A failing
// dialect is expected for files of the other kind and only logged at debug.
func (r *Reader) ReadTMY(data []byte, opts TMYOptions) (*dataset.Dataset, error) {
	ds, err := ReadPVsystTMY(data, opts)
	if err == nil {
		r.logger.Info().Str("event", "tmy_reader_selected").Str("source", opts.SourceName).Str("dialect", DialectPVsyst).Msg("tmy reader selected")
		return ds, nil
	}
	r.logger.Debug().Err(err).Str("source", opts.SourceName).Str("dialect", DialectPVsyst).Msg("tmy dialect rejected")

	ds, err = ReadSolargisTMY(data, opts)
	if err == nil {
		r.logger.Info().Str("event", "tmy_reader_selected").Str("source", opts.SourceName).Str("dialect", DialectSolargis).Msg("tmy reader selected")
		return ds, nil
	}
	r.logger.Debug().Err(err).Str("source", opts.SourceName).Str("dialect", DialectSolargis).Msg("tmy dialect rejected")
	return nil, &DialectError{Last: err}
}

// ReadTMY reads a TMY file with a silent reader.
func ReadTMY(data []byte, opts TMYOptions) (*dataset.Dataset, error) {
	return NewReader(zerolog.Nop()).ReadTMY(data, opts)
}

func newDataset(opts TMYOptions, dialect string, header map[string]string) *dataset.Dataset {
	name := opts.SourceName
	if name == "" {
		name = fmt.Sprintf("uploaded_tmy_%s.csv", dialect)
	}
	return &dataset.Dataset{
		SourceName: name,
		Header:     header,
		Dialect:    dialect,
	}
}
