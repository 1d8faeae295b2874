package application

import (
	"fmt"

	"github.com/rs/zerolog"

	"pvinsight/internal/observability/metrics"
	"pvinsight/internal/production/domain"
)

// Pass computes one analysis from the context. Passes return their
// contribution instead of writing into the context.
type Pass func(ctx *domain.Context) domain.Result

// Engine runs registered passes in registration order.
type Engine struct {
	logger zerolog.Logger
	order  []domain.AnalysisID
	passes map[domain.AnalysisID]Pass
}

// NewEngine builds an empty engine.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		logger: logger,
		passes: make(map[domain.AnalysisID]Pass),
	}
}

// DefaultEngine registers the six hourly passes.
func DefaultEngine(logger zerolog.Logger) *Engine {
	e := NewEngine(logger)
	e.mustRegister(domain.GlobalProduction, GlobalProductionPass)
	e.mustRegister(domain.Threshold, ThresholdPass)
	e.mustRegister(domain.PowerDistribution, PowerDistributionPass)
	e.mustRegister(domain.InverterClipping, InverterClippingPass)
	e.mustRegister(domain.GridLimit, GridLimitPass)
	e.mustRegister(domain.LoadFactor, LoadFactorPass)
	return e
}

// Register adds a pass. Ids must be unique.
func (e *Engine) Register(id domain.AnalysisID, pass Pass) error {
	if _, ok := e.passes[id]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateAnalysis, id)
	}
	e.order = append(e.order, id)
	e.passes[id] = pass
	return nil
}

func (e *Engine) mustRegister(id domain.AnalysisID, pass Pass) {
	if err := e.Register(id, pass); err != nil {
		panic(err)
	}
}

// IDs returns registered pass ids in execution order.
func (e *Engine) IDs() []domain.AnalysisID {
	return append([]domain.AnalysisID(nil), e.order...)
}

// Run executes every pass and records its result on ctx.Results.
func (e *Engine) Run(ctx *domain.Context) (*domain.Results, error) {
	if ctx == nil || ctx.Frame() == nil {
		return nil, domain.ErrNilDataset
	}
	if ctx.Results == nil {
		ctx.Results = domain.NewResults()
	}
	for _, id := range e.order {
		res := e.passes[id](ctx)
		ctx.Results.Put(id, res)

		_, empty := res.(domain.Empty)
		metrics.IncAnalysis(string(id), res.Available(), empty)
		e.logger.Debug().
			Str("event", "analysis_pass_done").
			Str("analysis", string(id)).
			Bool("available", res.Available()).
			Bool("empty", empty).
			Msg("analysis pass finished")
	}
	return ctx.Results, nil
}

// RunOne executes a single registered pass.
func (e *Engine) RunOne(ctx *domain.Context, id domain.AnalysisID) (domain.Result, error) {
	pass, ok := e.passes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAnalysis, id)
	}
	if ctx == nil || ctx.Frame() == nil {
		return nil, domain.ErrNilDataset
	}
	if ctx.Results == nil {
		ctx.Results = domain.NewResults()
	}
	res := pass(ctx)
	ctx.Results.Put(id, res)
	return res, nil
}
