package metrics

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "solution_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	parseTotal    *prometheus.CounterVec
	parseLatency  *prometheus.HistogramVec
	rowsParsed    *prometheus.CounterVec
	entriesDrop   *prometheus.CounterVec
	sourcesMerged prometheus.Counter

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers ingestion and export metrics with the default registry.
func Init(logger *log.Logger) {
	registerOnce.Do(func() {
		parseTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "parse_total",
				Help: "Total variable parses by key and result",
			},
			[]string{"key", "result"},
		)
		parseLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "parse_latency_seconds",
				Help:    "Variable parse latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"key", "result"},
		)
		rowsParsed = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_parsed_total",
				Help: "Total rows produced by the parser by key",
			},
			[]string{"key"},
		)
		entriesDrop = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "entries_dropped_total",
				Help: "Total sparse entries dropped in lenient mode by key and reason",
			},
			[]string{"key", "reason"},
		)
		sourcesMerged = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "sources_merged_total",
				Help: "Total solution sources merged into multi-run tables",
			},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "table_export_total",
				Help: "Total table exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "table_export_latency_seconds",
				Help:    "Table export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			parseTotal,
			parseLatency,
			rowsParsed,
			entriesDrop,
			sourcesMerged,
			exportTotal,
			exportLatency,
		)
		if logger != nil {
			logger.Printf("metrics registered: prefix=%s", metricPrefix)
		}
	})
}

// ObserveParse records a parse result, latency and produced row count.
func ObserveParse(key, result string, rows int, duration time.Duration) {
	if key == "" {
		key = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if parseTotal != nil {
		parseTotal.WithLabelValues(key, result).Inc()
	}
	if parseLatency != nil {
		parseLatency.WithLabelValues(key, result).Observe(duration.Seconds())
	}
	if rowsParsed != nil && rows > 0 {
		rowsParsed.WithLabelValues(key).Add(float64(rows))
	}
}

// AddDroppedEntries counts entries skipped by the lenient parser.
func AddDroppedEntries(key, reason string, count int) {
	if count <= 0 {
		return
	}
	if key == "" {
		key = "unknown"
	}
	if reason == "" {
		reason = "unknown"
	}
	if entriesDrop != nil {
		entriesDrop.WithLabelValues(key, reason).Add(float64(count))
	}
}

// AddSourcesMerged counts sources folded into a merged table.
func AddSourcesMerged(count int) {
	if count <= 0 {
		return
	}
	if sourcesMerged != nil {
		sourcesMerged.Add(float64(count))
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Result returns the result label for an error.
func Result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	DropReasonMalformed = "malformed"
)
