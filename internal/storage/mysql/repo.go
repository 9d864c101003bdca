// Package mysql registers the "mysql" storage kind: the default backend,
// driven by github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"

	"mysqlupdate/internal/config"
	"mysqlupdate/internal/storage"
	"mysqlupdate/internal/storage/sqldb"
)

// Kind is the registered storage kind.
const Kind = "mysql"

// newUpdater is a test hook that points to NewUpdater by default.
var newUpdater = NewUpdater

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Updater, error) {
		return newUpdater(ctx, cfg)
	})
}

// DriverConfig maps the credentials file onto a driver config. A server line
// starting with "/" is taken as a unix socket path; anything else is a TCP
// address, with the driver's default port added when none is given.
//
// ClientFoundRows is set so that rows-affected counts every matched row, even
// when the new value equals the old one.
func DriverConfig(c config.Credentials) *gomysql.Config {
	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	if strings.HasPrefix(c.Server, "/") {
		cfg.Net = "unix"
	}
	cfg.Addr = c.Server
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.DBName = c.Database
	cfg.ClientFoundRows = true
	return cfg
}

// NewUpdater connects to MySQL and prepares the run's UPDATE statement.
func NewUpdater(ctx context.Context, cfg storage.Config) (*sqldb.Runner, error) {
	conn, err := gomysql.NewConnector(DriverConfig(cfg.Credentials))
	if err != nil {
		return nil, &storage.DatabaseError{Kind: Kind, Op: "connect", Err: err}
	}
	return sqldb.Open(ctx, Kind, sql.OpenDB(conn), storage.BuildUpdate(cfg.Target, storage.QuestionDialect))
}
