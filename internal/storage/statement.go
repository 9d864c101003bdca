package storage

import (
	"fmt"

	"mysqlupdate/internal/config"
)

// Dialect describes how a backend spells bind parameters.
type Dialect struct {
	Name string

	// Placeholder returns the marker for the n-th (1-based) parameter.
	Placeholder func(n int) string
}

// Built-in dialects.
var (
	QuestionDialect = Dialect{Name: "question", Placeholder: func(int) string { return "?" }}
	DollarDialect   = Dialect{Name: "dollar", Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }}
	AtPDialect      = Dialect{Name: "atp", Placeholder: func(n int) string { return fmt.Sprintf("@p%d", n) }}
)

// BuildUpdate renders
//
//	UPDATE <table> SET <updateColumn> = <p1> WHERE <matchColumn> = <p2>
//
// Identifiers are inserted verbatim. They are not quoted or escaped, so the
// caller is trusted to pass valid names; a bad identifier surfaces as a
// database error at prepare time.
//
// Parameter 1 is the update value and parameter 2 the match value.
func BuildUpdate(target config.UpdateSpec, d Dialect) string {
	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s",
		target.Table, target.UpdateColumn, d.Placeholder(1), target.MatchColumn, d.Placeholder(2))
}
