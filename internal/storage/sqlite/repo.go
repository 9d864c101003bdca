// Package sqlite registers the "sqlite" storage kind on modernc.org/sqlite.
// The server line of the credentials file is the database path (or any DSN
// the driver accepts); user, password and database lines are ignored.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"mysqlupdate/internal/storage"
	"mysqlupdate/internal/storage/sqldb"
)

// Kind is the registered storage kind.
const Kind = "sqlite"

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Updater, error) {
		return NewUpdater(ctx, cfg)
	})
}

// NewUpdater opens the SQLite database and prepares the run's UPDATE.
func NewUpdater(ctx context.Context, cfg storage.Config) (*sqldb.Runner, error) {
	dsn := strings.TrimSpace(cfg.Credentials.Server)
	if dsn == "" {
		return nil, &storage.DatabaseError{Kind: Kind, Op: "connect", Err: fmt.Errorf("database path must not be empty")}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &storage.DatabaseError{Kind: Kind, Op: "connect", Err: err}
	}
	return sqldb.Open(ctx, Kind, db, storage.BuildUpdate(cfg.Target, storage.QuestionDialect))
}
