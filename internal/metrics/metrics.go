// Package metrics provides a small, backend-agnostic abstraction for
// recording what a batch update did.
//
// A global, pluggable backend defaults to a no-op, so instrumentation is
// always safe to call even when no real backend is configured. Concrete
// systems (Prometheus Pushgateway, Datadog) live in subpackages and are
// installed with SetBackend by the CLI.
package metrics

import "time"

// Metric names.
const (
	RowsTotal                = "mysqlupdate_rows_total"
	StatementDurationSeconds = "mysqlupdate_statement_duration_seconds"
	RunTotal                 = "mysqlupdate_run_total"
	RunDurationSeconds       = "mysqlupdate_run_duration_seconds"
)

// Row kinds used with RecordRows.
const (
	KindRead     = "read"     // source lines consumed
	KindUpdated  = "updated"  // rows affected in the database
	KindRejected = "rejected" // lines that failed structural validation
	KindFailed   = "failed"   // statements that returned a database error
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Reset restores the no-op backend.
func Reset() { backend = nopBackend{} }

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordRows increments the row counter for kind. Non-positive deltas are
// ignored.
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordStatement observes one UPDATE round-trip.
func RecordStatement(job string, err error, d time.Duration) {
	backend.ObserveHistogram(StatementDurationSeconds, d.Seconds(), Labels{"job": job, "status": status(err)})
}

// RecordRun counts one finished or aborted run and its wall time.
func RecordRun(job string, err error, d time.Duration) {
	lbls := Labels{"job": job, "status": status(err)}
	backend.IncCounter(RunTotal, 1, lbls)
	backend.ObserveHistogram(RunDurationSeconds, d.Seconds(), lbls)
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
