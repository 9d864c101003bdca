package storage

import "fmt"

// DatabaseError wraps any failure reported by the database or its driver:
// connection loss, bad identifiers in the statement, constraint violations.
type DatabaseError struct {
	Kind string // backend kind
	Op   string // connect, ping, prepare, exec, close
	Err  error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }
