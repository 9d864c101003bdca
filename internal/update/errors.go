package update

import "fmt"

// StructuralRowError reports the source line that lacked enough fields. It
// wraps a *delimited.InsufficientColumnsError, so
// errors.Is(err, delimited.ErrInsufficientColumns) holds.
type StructuralRowError struct {
	Line int64
	Err  error
}

func (e *StructuralRowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *StructuralRowError) Unwrap() error { return e.Err }

// LineError attaches the source line number to a statement failure. For a
// cancelled context Line is the first line that was not read.
type LineError struct {
	Line int64
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

// SourceError reports a failure reading the source file mid-run.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string { return "read source: " + e.Err.Error() }
func (e *SourceError) Unwrap() error { return e.Err }
