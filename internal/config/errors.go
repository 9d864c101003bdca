package config

import "errors"

// UsageError reports an invocation that cannot be turned into a Config. The
// caller is expected to print Usage and exit non-zero.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return "usage: " + e.Reason }

// ConfigError reports a credentials file that is missing, unreadable or
// incomplete. The run never starts when one is returned.
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "config: " + e.Path
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsUsage reports whether err is (or wraps) a *UsageError.
func IsUsage(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}
