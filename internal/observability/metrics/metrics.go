package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "pvinsight_"

	resultSuccess = "success"
	resultError   = "error"

	statusAvailable   = "available"
	statusUnavailable = "unavailable"
	statusEmpty       = "empty"
)

var (
	registerOnce sync.Once
	registry     *prometheus.Registry

	runsTotal   *prometheus.CounterVec
	runsLatency *prometheus.HistogramVec

	readerDialectTotal *prometheus.CounterVec
	datasetWarnings    *prometheus.CounterVec

	analysisTotal *prometheus.CounterVec

	comparisonTotal *prometheus.CounterVec

	reportTotal   *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec
)

// Init registers run metrics on a private registry.
func Init() {
	registerOnce.Do(func() {
		registry = prometheus.NewRegistry()

		runsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Total tool runs by tool and result",
			},
			[]string{"tool", "result"},
		)
		runsLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_duration_seconds",
				Help:    "Tool run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool", "result"},
		)

		readerDialectTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reader_dialect_total",
				Help: "Total files read by dialect",
			},
			[]string{"dialect"},
		)
		datasetWarnings = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dataset_warnings_total",
				Help: "Total warnings attached to datasets by dialect",
			},
			[]string{"dialect"},
		)

		analysisTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "analysis_total",
				Help: "Total hourly analysis passes by analysis and status",
			},
			[]string{"analysis", "status"},
		)

		comparisonTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "comparison_total",
				Help: "Total TMY comparisons by alignment and alert flag",
			},
			[]string{"alignment", "alert"},
		)

		reportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_total",
				Help: "Total reports written by format and result",
			},
			[]string{"format", "result"},
		)
		reportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_latency_seconds",
				Help:    "Report rendering latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		registry.MustRegister(
			runsTotal,
			runsLatency,
			readerDialectTotal,
			datasetWarnings,
			analysisTotal,
			comparisonTotal,
			reportTotal,
			reportLatency,
		)
	})
}

// Gatherer exposes the private registry, or nil before Init.
func Gatherer() prometheus.Gatherer {
	if registry == nil {
		return nil
	}
	return registry
}

// WriteTextfile dumps every metric in text exposition format.
func WriteTextfile(path string) error {
	Init()
	return prometheus.WriteToTextfile(path, registry)
}

// ObserveRun records a tool run duration and result.
func ObserveRun(tool, result string, duration time.Duration) {
	if tool == "" {
		tool = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if runsTotal != nil {
		runsTotal.WithLabelValues(tool, result).Inc()
	}
	if runsLatency != nil {
		runsLatency.WithLabelValues(tool, result).Observe(duration.Seconds())
	}
}

// IncReaderDialect counts a dataset read by dialect along with its warnings.
func IncReaderDialect(dialect string, warnings int) {
	if dialect == "" {
		dialect = "unknown"
	}
	if readerDialectTotal != nil {
		readerDialectTotal.WithLabelValues(dialect).Inc()
	}
	if datasetWarnings != nil && warnings > 0 {
		datasetWarnings.WithLabelValues(dialect).Add(float64(warnings))
	}
}

// IncAnalysis counts one analysis pass outcome.
func IncAnalysis(analysis string, available, empty bool) {
	status := statusAvailable
	switch {
	case !available:
		status = statusUnavailable
	case empty:
		status = statusEmpty
	}
	if analysisTotal != nil {
		analysisTotal.WithLabelValues(analysis, status).Inc()
	}
}

// IncComparison counts a comparison by alignment mode.
func IncComparison(alignment string, alert bool) {
	if alignment == "" {
		alignment = "unknown"
	}
	if comparisonTotal != nil {
		comparisonTotal.WithLabelValues(alignment, strconv.FormatBool(alert)).Inc()
	}
}

// ObserveReport records report rendering latency and result.
func ObserveReport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportTotal != nil {
		reportTotal.WithLabelValues(format, result).Inc()
	}
	if reportLatency != nil {
		reportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ResultOf maps an error to a result label.
func ResultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
