package domain

import (
	"math"
	"time"

	"pvinsight/internal/dataset"
)

// AnalysisID identifies one pass of the hourly engine.
type AnalysisID string

const (
	GlobalProduction  AnalysisID = "global_production"
	Threshold         AnalysisID = "threshold"
	PowerDistribution AnalysisID = "power_distribution"
	InverterClipping  AnalysisID = "inverter_clipping"
	GridLimit         AnalysisID = "grid_limit"
	LoadFactor        AnalysisID = "load_factor"
)

// DefaultThresholdColumn is the production column used when none is configured.
const DefaultThresholdColumn = "E_Grid"

// Options drive the threshold, distribution and load factor passes.
// ThresholdValue is expressed in the unit of ThresholdColumn.
type Options struct {
	ThresholdColumn    string
	ThresholdValue     float64
	NightDisconnection bool
	// GridCapacityKW is nil when no capacity was provided.
	GridCapacityKW *float64
}

// Column returns the threshold column, defaulting to E_Grid.
func (o Options) Column() string {
	if o.ThresholdColumn == "" {
		return DefaultThresholdColumn
	}
	return o.ThresholdColumn
}

// NormalizeCapacity maps non-positive or non-finite capacities to nil.
func NormalizeCapacity(kw float64) *float64 {
	if kw <= 0 || math.IsNaN(kw) || math.IsInf(kw, 0) {
		return nil
	}
	v := kw
	return &v
}

// Context is the input handed to each pass. Passes must not mutate Data;
// Results is read-only to them and filled by the engine.
type Context struct {
	InputName string
	Data      *dataset.Dataset
	Options   Options
	// StepHours is the sampling step inferred from the time index.
	StepHours float64
	Results   *Results
}

// Frame returns the raw hourly table.
func (c *Context) Frame() *dataset.Frame {
	if c == nil || c.Data == nil {
		return nil
	}
	return c.Data.Frame
}

// Unit returns the declared unit of a column.
func (c *Context) Unit(column string) string {
	if c.Data == nil {
		return ""
	}
	return c.Data.Unit(column)
}

// GeneralInfo returns the header metadata of the source export.
func (c *Context) GeneralInfo() map[string]string {
	if c.Data == nil {
		return nil
	}
	return c.Data.Header
}

// Series returns a copy of column, clamped at zero when night
// disconnection is enabled.
func (c *Context) Series(column string) []float64 {
	raw := c.Frame().Column(column)
	out := make([]float64, len(raw))
	copy(out, raw)
	if c.Options.NightDisconnection {
		for i, v := range out {
			if v < 0 {
				out[i] = 0
			}
		}
	}
	return out
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English name of month m (1-12).
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// Seasons in calendar order.
var Seasons = []string{"Winter", "Spring", "Summer", "Autumn"}

// Season maps a month to its meteorological season.
func Season(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Autumn"
	}
}
