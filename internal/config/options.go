package config

import (
	"fmt"
	"strings"
)

// Options holds the flag-driven knobs. They never change what a row does to
// the database; they pick the backend and shape diagnostics.
type Options struct {
	// Driver selects the registered storage backend ("mysql" by default).
	Driver string

	// Encoding names the source file charset (WHATWG label, e.g. "windows-1250").
	Encoding string

	// Logging.
	LogLevel  string
	LogFormat string

	// ProgressEvery logs a progress line every N updated rows; 0 disables it.
	ProgressEvery int

	// Metrics.
	MetricsBackend string // none, pushgateway, datadog
	PushgatewayURL string
	DatadogAddr    string
	Job            string
}

// DefaultOptions mirrors the flag defaults.
func DefaultOptions() Options {
	return Options{
		Driver:         "mysql",
		Encoding:       "utf-8",
		LogLevel:       "info",
		LogFormat:      "console",
		ProgressEvery:  10000,
		MetricsBackend: "none",
		PushgatewayURL: "http://localhost:9091",
		DatadogAddr:    "127.0.0.1:8125",
		Job:            "mysqlupdate",
	}
}

// Validate checks the option values that can be checked without I/O.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Driver) == "" {
		return &UsageError{Reason: "--driver must not be empty"}
	}
	if o.ProgressEvery < 0 {
		return &UsageError{Reason: fmt.Sprintf("--progress-every must be >= 0, got %d", o.ProgressEvery)}
	}
	switch strings.ToLower(o.LogFormat) {
	case "console", "json":
	default:
		return &UsageError{Reason: fmt.Sprintf("--log-format must be console or json, got %q", o.LogFormat)}
	}
	switch strings.ToLower(o.MetricsBackend) {
	case "", "none", "pushgateway", "datadog":
	default:
		return &UsageError{Reason: fmt.Sprintf("unknown --metrics-backend %q", o.MetricsBackend)}
	}
	return nil
}
