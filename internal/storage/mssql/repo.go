// Package mssql registers the "sqlserver" storage kind using go-mssqldb.
package mssql

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"mysqlupdate/internal/config"
	"mysqlupdate/internal/storage"
	"mysqlupdate/internal/storage/sqldb"
)

// Kind is the registered storage kind; "mssql" is accepted as an alias.
const Kind = "sqlserver"

func init() {
	f := func(ctx context.Context, cfg storage.Config) (storage.Updater, error) {
		return NewUpdater(ctx, cfg)
	}
	storage.Register(Kind, f)
	storage.Register("mssql", f)
}

// ConnString renders the credentials as a sqlserver:// URL. A server line of
// the form `host\instance` selects a named instance.
func ConnString(c config.Credentials) string {
	host, instance := c.Server, ""
	if i := strings.IndexByte(c.Server, '\\'); i >= 0 {
		host, instance = c.Server[:i], c.Server[i+1:]
	}
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(c.User, c.Password),
		Host:   host,
	}
	if instance != "" {
		u.Path = "/" + instance
	}
	q := url.Values{}
	q.Set("database", c.Database)
	u.RawQuery = q.Encode()
	return u.String()
}

// NewUpdater connects to SQL Server and prepares the run's UPDATE statement.
func NewUpdater(ctx context.Context, cfg storage.Config) (*sqldb.Runner, error) {
	dsn := ConnString(cfg.Credentials)
	// Validate early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(dsn); err != nil {
		return nil, &storage.DatabaseError{Kind: Kind, Op: "connect", Err: err}
	}
	conn, err := mssql.NewConnector(dsn)
	if err != nil {
		return nil, &storage.DatabaseError{Kind: Kind, Op: "connect", Err: err}
	}
	return sqldb.Open(ctx, Kind, sql.OpenDB(conn), storage.BuildUpdate(cfg.Target, storage.AtPDialect))
}
