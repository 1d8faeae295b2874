package application

import (
	"fmt"

	"github.com/rs/zerolog"

	"pvinsight/internal/ingest"
	"pvinsight/internal/observability/metrics"
	"pvinsight/internal/production/domain"
	"pvinsight/internal/timestep"
)

// Request is one hourly analysis run.
type Request struct {
	Data       []byte
	SourceName string
	// DateFormat is a strftime pattern tried before the built-in formats.
	DateFormat string

	ThresholdColumn    string
	ThresholdValue     float64
	NightDisconnection bool
	// GridCapacityKW <= 0 means no capacity.
	GridCapacityKW float64
}

// Analyze reads an hourly export and runs every pass of engine on it.
// A nil engine uses DefaultEngine with a no-op logger.
func Analyze(req Request, engine *Engine) (*domain.Context, error) {
	if engine == nil {
		engine = DefaultEngine(zerolog.Nop())
	}
	ds, err := ingest.ReadHourlyResults(req.Data, ingest.HourlyOptions{
		SourceName: req.SourceName,
		DateFormat: req.DateFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("production: read hourly results: %w", err)
	}
	metrics.IncReaderDialect(ds.Dialect, len(ds.Warnings))

	stepMinutes, _ := timestep.Infer(ds.Frame.Time)
	ctx := &domain.Context{
		InputName: ds.SourceName,
		Data:      ds,
		Options: domain.Options{
			ThresholdColumn:    req.ThresholdColumn,
			ThresholdValue:     req.ThresholdValue,
			NightDisconnection: req.NightDisconnection,
			GridCapacityKW:     domain.NormalizeCapacity(req.GridCapacityKW),
		},
		StepHours: stepMinutes / 60,
	}

	results, err := engine.Run(ctx)
	if err != nil {
		return nil, err
	}
	engine.logger.Info().
		Str("event", "hourly_analysis_done").
		Str("source", ds.SourceName).
		Int("rows", ds.Frame.Len()).
		Float64("step_hours", ctx.StepHours).
		Int("analyses", results.Len()).
		Int("warnings", len(ds.Warnings)).
		Msg("hourly analysis finished")
	return ctx, nil
}
