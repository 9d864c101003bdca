// Package config assembles the immutable run configuration for mysqlupdate.
//
// The positional argument vector is parsed exactly once at startup into a
// Config value. Validation happens before any file or database is touched, so
// a bad invocation produces a *UsageError and nothing else. Tunables that are
// not part of the positional contract (driver kind, logging, metrics) live in
// Options and are populated from command-line flags by cmd/mysqlupdate.
//
// Typical usage:
//
//	cfg, err := config.ParseArgs(args)
//	if err != nil {
//		var uerr *config.UsageError
//		if errors.As(err, &uerr) {
//			config.WriteUsage(os.Stderr)
//		}
//	}
//	creds, err := config.LoadCredentials(cfg.CredentialsPath)
package config

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Positional argument bounds.
const (
	MinArgs = 8
	MaxArgs = 10
)

// UpdateSpec identifies the target of every statement for the run.
type UpdateSpec struct {
	Table        string // table to update
	MatchColumn  string // column used in the WHERE clause
	UpdateColumn string // column assigned in the SET clause
}

// SourceMapping describes how each source line is decoded.
type SourceMapping struct {
	// MatchField and UpdateField are 1-based field positions.
	MatchField  int
	UpdateField int

	// Delimiter separates fields on a line.
	Delimiter rune

	// Quote and Escape are stripped from every line before splitting. Escape
	// only applies when Quote is set.
	Quote  string
	Escape string
}

// HasQuote reports whether quote stripping is configured.
func (m SourceMapping) HasQuote() bool { return m.Quote != "" }

// RequiredFields is the minimum number of fields a line must carry.
func (m SourceMapping) RequiredFields() int {
	if m.MatchField > m.UpdateField {
		return m.MatchField
	}
	return m.UpdateField
}

// Config is the positional part of the invocation. All fields are plain
// values; the struct is never mutated after ParseArgs returns.
type Config struct {
	CredentialsPath string
	SourcePath      string
	Spec            UpdateSpec
	Mapping         SourceMapping

	// Extra holds arguments past the tenth; they are ignored.
	Extra []string
}

// ParseArgs builds a Config from the positional argument vector (program name
// excluded). Every failure is a *UsageError.
func ParseArgs(args []string) (Config, error) {
	if len(args) < MinArgs {
		return Config{}, &UsageError{Reason: "expected at least " + strconv.Itoa(MinArgs) + " arguments, got " + strconv.Itoa(len(args))}
	}

	cfg := Config{
		CredentialsPath: args[0],
		Spec: UpdateSpec{
			Table:        args[1],
			MatchColumn:  args[2],
			UpdateColumn: args[3],
		},
		SourcePath: args[4],
	}

	for i, name := range []string{"table name", "match column", "update column", "source file"} {
		if strings.TrimSpace(args[i+1]) == "" {
			return Config{}, &UsageError{Reason: name + " must not be empty"}
		}
	}

	var err error
	if cfg.Mapping.MatchField, err = parseFieldIndex("match field", args[5]); err != nil {
		return Config{}, err
	}
	if cfg.Mapping.UpdateField, err = parseFieldIndex("update field", args[6]); err != nil {
		return Config{}, err
	}
	if cfg.Mapping.Delimiter, err = parseDelimiter(args[7]); err != nil {
		return Config{}, err
	}

	if len(args) > 8 {
		cfg.Mapping.Quote = args[8]
	}
	if len(args) > 9 && cfg.Mapping.Quote != "" {
		cfg.Mapping.Escape = args[9]
	}
	if len(args) > MaxArgs {
		cfg.Extra = append([]string(nil), args[MaxArgs:]...)
	}
	return cfg, nil
}

// parseFieldIndex accepts a positive base-10 integer.
func parseFieldIndex(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &UsageError{Reason: name + " must be an integer: " + strconv.Quote(s)}
	}
	if n < 1 {
		return 0, &UsageError{Reason: name + " must be 1 or greater, got " + strconv.Itoa(n)}
	}
	return n, nil
}

// parseDelimiter accepts exactly one character. The spellings `\t` and "tab"
// are accepted for a tab since shells make a literal tab awkward to pass.
func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, &UsageError{Reason: "delimiter must be a single character, got " + strconv.Quote(s)}
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
