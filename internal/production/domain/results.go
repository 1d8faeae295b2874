package domain

// Result is the outcome of one pass. The set of implementations is closed.
type Result interface {
	Available() bool
	isResult()
}

// Unavailable reports required columns missing from the input.
type Unavailable struct {
	MissingColumns []string
	// Suggestions holds up to three close column names per missing column.
	Suggestions map[string][]string
}

// Empty reports a pass that ran but had nothing to measure.
type Empty struct {
	Reason string
}

func (Unavailable) Available() bool { return false }
func (Empty) Available() bool       { return true }

func (Unavailable) isResult() {}
func (Empty) isResult()       {}

// GlobalProductionResult summarizes the threshold column over the year.
type GlobalProductionResult struct {
	Column             string
	Unit               string
	StepHours          float64
	NightDisconnection bool

	OperatingHours             float64
	TotalHours                 float64
	OperatingPct               float64
	NetProductionKWh           float64
	ProductionWithoutImportKWh float64
	NightConsumptionKWh        float64
	ImportHours                float64

	GridCapacityKW *float64
	// LoadFactor is set only when a capacity is known.
	LoadFactor *float64
}

// ThresholdResult counts time and energy above a user threshold.
type ThresholdResult struct {
	Column             string
	Unit               string
	Value              float64
	StepHours          float64
	NightDisconnection bool

	HoursProd             float64
	HoursAbove            float64
	PctAboveOperatingTime float64
	EnergyAboveKWh        float64
	NightImportHours      float64
	NightConsumptionKWh   float64

	Monthly      []MonthlyAbove
	Seasonal     []SeasonalAbove
	MonthlyPct   []MonthlyShare
	NightMonthly []MonthlyNight
}

// MonthlyAbove is one month with steps above the threshold.
type MonthlyAbove struct {
	MonthName      string  `csv:"month_name"`
	HoursAbove     float64 `csv:"hours_above"`
	EnergyAboveKWh float64 `csv:"energy_above_kwh"`
}

// SeasonalAbove aggregates MonthlyAbove by season.
type SeasonalAbove struct {
	Season         string  `csv:"season"`
	HoursAbove     float64 `csv:"hours_above"`
	EnergyAboveKWh float64 `csv:"energy_above_kwh"`
}

// MonthlyShare is the share of operating steps above the threshold.
type MonthlyShare struct {
	MonthName string  `csv:"month_name"`
	PctAbove  float64 `csv:"pct_above"`
}

// MonthlyNight is the import energy for one month.
type MonthlyNight struct {
	MonthName           string  `csv:"month_name"`
	ImportHours         float64 `csv:"import_hours"`
	NightConsumptionKWh float64 `csv:"night_consumption_kwh"`
}

// DistributionClass is one bucket of a normalized power distribution.
type DistributionClass struct {
	Class     string  `csv:"class"`
	Steps     int     `csv:"steps"`
	Hours     float64 `csv:"hours"`
	PctTime   float64 `csv:"pct_time"`
	EnergyKWh float64 `csv:"energy_kwh"`
}

// PowerDistributionResult buckets positive production by share of its maximum.
type PowerDistributionResult struct {
	Column             string
	Unit               string
	StepHours          float64
	MaxValue           float64
	NightDisconnection bool
	Classes            []DistributionClass
}

// InverterClippingResult compares clipped energy with inverter potential.
type InverterClippingResult struct {
	ClippedKWh    float64
	PotentialKWh  float64
	PctClipping   float64
	HoursClipping float64
	StepHours     float64
	Monthly       []MonthlyClipping
}

// MonthlyClipping is the clipping share of one month.
type MonthlyClipping struct {
	MonthName   string  `csv:"month_name"`
	ClippedKWh  float64 `csv:"clipped_kwh"`
	PctClipping float64 `csv:"pct_clipping"`
}

// LoadFactorSource tells where a reported load factor was computed.
type LoadFactorSource string

const (
	LoadFactorNone             LoadFactorSource = ""
	LoadFactorOwn              LoadFactorSource = "own"
	LoadFactorGlobalProduction LoadFactorSource = "global_production"
)

// GridLimitResult measures energy lost to grid injection limits.
type GridLimitResult struct {
	LostKWh      float64
	InjectedKWh  float64
	PotentialKWh float64
	LostPct      float64
	HoursLimited float64
	TotalHours   float64
	StepHours    float64

	GridCapacityKW   *float64
	LoadFactor       *float64
	LoadFactorSource LoadFactorSource

	Monthly           []MonthlyGridLimit
	MonthlyLoadFactor []MonthlyLoadFactor
}

// MonthlyGridLimit is one month of curtailment figures.
type MonthlyGridLimit struct {
	MonthName    string  `csv:"month_name"`
	LostKWh      float64 `csv:"lost_kwh"`
	LostPct      float64 `csv:"lost_pct"`
	HoursLimited float64 `csv:"hours_limited"`
	InjectedKWh  float64 `csv:"injected_kwh"`
}

// MonthlyLoadFactor is delivered energy over capacity for one month.
type MonthlyLoadFactor struct {
	MonthName  string  `csv:"month_name"`
	LoadFactor float64 `csv:"load_factor"`
	EnergyKWh  float64 `csv:"energy_kwh"`
}

// LoadFactorResult describes power quality at the grid connection.
type LoadFactorResult struct {
	ApparentKWh float64
	ReactiveKWh float64
	// ActiveKWh, CosPhi and ReactiveShare are nil when not computable.
	ActiveKWh     *float64
	CosPhi        *float64
	ReactiveShare *float64
	TotalHours    float64
	StepHours     float64
	ApparentMax   float64

	GridCapacityKW   *float64
	LoadFactor       *float64
	LoadFactorSource LoadFactorSource

	Monthly           []MonthlyPowerQuality
	Saturation        []SaturationClass
	MonthlyLoadFactor []MonthlyLoadFactor
}

// MonthlyPowerQuality is one month of apparent, reactive and active energy.
// Active and CosPhi are NaN when no active column exists.
type MonthlyPowerQuality struct {
	MonthName     string  `csv:"month_name"`
	ApparentKWh   float64 `csv:"s_kwh"`
	ReactiveKWh   float64 `csv:"q_kwh"`
	ActiveKWh     float64 `csv:"p_kwh"`
	CosPhi        float64 `csv:"cosphi"`
	ReactiveShare float64 `csv:"q_share"`
}

// SaturationClass is one bucket of apparent energy relative to its maximum.
type SaturationClass struct {
	Class   string  `csv:"class"`
	Steps   int     `csv:"steps"`
	Hours   float64 `csv:"hours"`
	PctTime float64 `csv:"pct_time"`
}

func (GlobalProductionResult) Available() bool  { return true }
func (ThresholdResult) Available() bool         { return true }
func (PowerDistributionResult) Available() bool { return true }
func (InverterClippingResult) Available() bool  { return true }
func (GridLimitResult) Available() bool         { return true }
func (LoadFactorResult) Available() bool        { return true }

func (GlobalProductionResult) isResult()  {}
func (ThresholdResult) isResult()         {}
func (PowerDistributionResult) isResult() {}
func (InverterClippingResult) isResult()  {}
func (GridLimitResult) isResult()         {}
func (LoadFactorResult) isResult()        {}

// Results keeps pass outcomes in execution order.
type Results struct {
	order []AnalysisID
	byID  map[AnalysisID]Result
}

// NewResults returns an empty accumulator.
func NewResults() *Results {
	return &Results{byID: make(map[AnalysisID]Result)}
}

// Put records the outcome of a pass, replacing any earlier one.
func (r *Results) Put(id AnalysisID, res Result) {
	if _, ok := r.byID[id]; !ok {
		r.order = append(r.order, id)
	}
	r.byID[id] = res
}

// Get returns the outcome of a pass.
func (r *Results) Get(id AnalysisID) (Result, bool) {
	if r == nil {
		return nil, false
	}
	res, ok := r.byID[id]
	return res, ok
}

// IDs returns recorded pass ids in execution order.
func (r *Results) IDs() []AnalysisID {
	if r == nil {
		return nil
	}
	return append([]AnalysisID(nil), r.order...)
}

// Len returns the number of recorded passes.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Lookup returns the result of id when it has concrete type T.
func Lookup[T Result](r *Results, id AnalysisID) (T, bool) {
	var zero T
	res, ok := r.Get(id)
	if !ok {
		return zero, false
	}
	typed, ok := res.(T)
	return typed, ok
}
