// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. A batch run is short-lived, so metrics are pushed once at
// the end instead of being exposed for scraping.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"mysqlupdate/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	rows         *prometheus.CounterVec   // mysqlupdate_rows_total{kind}
	statementDur *prometheus.HistogramVec // mysqlupdate_statement_duration_seconds{status}
	runs         *prometheus.CounterVec   // mysqlupdate_run_total{status}
	runDur       *prometheus.SummaryVec   // mysqlupdate_run_duration_seconds{status}
}

// NewBackend constructs a Pushgateway backend. An empty jobName defaults to
// "mysqlupdate".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "mysqlupdate"
	}

	reg := prometheus.NewRegistry()

	rows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Row-level counts per kind (read, updated, rejected, failed).",
		},
		[]string{"kind"},
	)
	statementDur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metrics.StatementDurationSeconds,
			Help:    "Latency of single UPDATE round-trips in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"status"},
	)
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RunTotal,
			Help: "Completed runs partitioned by status.",
		},
		[]string{"status"},
	)
	runDur := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       metrics.RunDurationSeconds,
			Help:       "Wall time of a run in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"status"},
	)

	for name, c := range map[string]prometheus.Collector{
		"rows counter":       rows,
		"statement duration": statementDur,
		"run counter":        runs,
		"run duration":       runDur,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		rows:         rows,
		statementDur: statementDur,
		runs:         runs,
		runDur:       runDur,
	}, nil
}

// IncCounter implements metrics.Backend. Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.RowsTotal:
		b.rows.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.RunTotal:
		b.runs.WithLabelValues(labels["status"]).Add(delta)
	}
}

// ObserveHistogram implements metrics.Backend. Unknown names are ignored.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	switch name {
	case metrics.StatementDurationSeconds:
		b.statementDur.WithLabelValues(labels["status"]).Observe(value)
	case metrics.RunDurationSeconds:
		b.runDur.WithLabelValues(labels["status"]).Observe(value)
	}
}

// Flush pushes the registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
