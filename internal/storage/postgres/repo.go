// Package postgres registers the "postgres" storage kind using pgx v5
// through its database/sql adapter.
package postgres

import (
	"context"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"mysqlupdate/internal/config"
	"mysqlupdate/internal/storage"
	"mysqlupdate/internal/storage/sqldb"
)

// Kind is the registered storage kind.
const Kind = "postgres"

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Updater, error) {
		return NewUpdater(ctx, cfg)
	})
}

// ConnString renders the credentials as a keyword/value connection string.
// The server line may carry a port ("host:5433").
func ConnString(c config.Credentials) string {
	host, port := c.Server, ""
	if h, p, err := net.SplitHostPort(c.Server); err == nil {
		host, port = h, p
	}
	parts := []string{"host=" + pgQuote(host)}
	if port != "" {
		parts = append(parts, "port="+pgQuote(port))
	}
	parts = append(parts,
		"user="+pgQuote(c.User),
		"password="+pgQuote(c.Password),
		"dbname="+pgQuote(c.Database),
	)
	return strings.Join(parts, " ")
}

// pgQuote single-quotes a keyword value, escaping backslashes and quotes.
func pgQuote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// NewUpdater connects to PostgreSQL and prepares the run's UPDATE statement.
func NewUpdater(ctx context.Context, cfg storage.Config) (*sqldb.Runner, error) {
	connCfg, err := pgx.ParseConfig(ConnString(cfg.Credentials))
	if err != nil {
		return nil, &storage.DatabaseError{Kind: Kind, Op: "connect", Err: err}
	}
	return sqldb.Open(ctx, Kind, stdlib.OpenDB(*connCfg), storage.BuildUpdate(cfg.Target, storage.DollarDialect))
}
