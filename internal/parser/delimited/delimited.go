// Package delimited turns raw source lines into field slices.
//
// The format is simpler than RFC 4180: configured quote and escape tokens are
// removed from the whole line (not just field edges), and the result is split
// on a single delimiter character with empty fields kept. Quote characters
// are assumed never to appear inside a field.
package delimited

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientColumns is matched by errors.Is for every
// *InsufficientColumnsError.
var ErrInsufficientColumns = errors.New("insufficient columns")

// InsufficientColumnsError reports a line that is too short for the
// configured field indices.
type InsufficientColumnsError struct {
	Have int // fields found on the line
	Need int // max(match index, update index)
}

func (e *InsufficientColumnsError) Error() string {
	return fmt.Sprintf("index out of bounds for source match or update index: line has %d fields, need %d", e.Have, e.Need)
}

func (e *InsufficientColumnsError) Is(target error) bool { return target == ErrInsufficientColumns }

// Sanitize removes every occurrence of quote from line, then every occurrence
// of escape. An empty quote leaves the line untouched and disables escape
// removal too.
func Sanitize(line, quote, escape string) string {
	if quote == "" {
		return line
	}
	line = strings.ReplaceAll(line, quote, "")
	if escape != "" {
		line = strings.ReplaceAll(line, escape, "")
	}
	return line
}

// Split cuts line on every delim. Consecutive delimiters yield empty fields
// and an empty line yields a single empty field.
func Split(line string, delim rune) []string {
	return strings.Split(line, string(delim))
}

// Validate checks that fields holds at least max(matchIdx, updateIdx) entries.
// Both indices are 1-based, so a length equal to the larger index is enough.
func Validate(fields []string, matchIdx, updateIdx int) error {
	need := matchIdx
	if updateIdx > need {
		need = updateIdx
	}
	if len(fields) < need {
		return &InsufficientColumnsError{Have: len(fields), Need: need}
	}
	return nil
}

// Field returns the 1-based field idx. Callers must Validate first.
func Field(fields []string, idx int) string { return fields[idx-1] }
