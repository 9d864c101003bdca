// Package sqldb runs the per-row UPDATE for every backend that sits behind
// database/sql. The statement is prepared once and re-executed for each row
// with fresh bind values; each execution is its own round-trip with no
// enclosing transaction.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mysqlupdate/internal/storage"
)

// PingTimeout bounds the connectivity check done before preparing.
const PingTimeout = 10 * time.Second

// stmtCore is the subset of *sql.Stmt the runner uses.
type stmtCore interface {
	ExecContext(ctx context.Context, args ...any) (sql.Result, error)
	Close() error
}

// dbCore is the subset of *sql.DB the runner uses. PrepareContext returns
// stmtCore so tests can hand back fakes.
type dbCore interface {
	PingContext(ctx context.Context) error
	PrepareContext(ctx context.Context, query string) (stmtCore, error)
	Close() error
}

type realDB struct{ db *sql.DB }

func (r realDB) PingContext(ctx context.Context) error { return r.db.PingContext(ctx) }
func (r realDB) PrepareContext(ctx context.Context, q string) (stmtCore, error) {
	st, err := r.db.PrepareContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return st, nil
}
func (r realDB) Close() error { return r.db.Close() }

// Runner implements storage.Updater over one *sql.DB and one prepared
// statement. It is not safe for concurrent use.
type Runner struct {
	kind  string
	db    dbCore
	stmt  stmtCore
	query string
}

var _ storage.Updater = (*Runner)(nil)

// Open pings db, prepares query and returns a Runner that owns db. On any
// error db is closed before returning.
func Open(ctx context.Context, kind string, db *sql.DB, query string) (*Runner, error) {
	// A single connection keeps the prepared statement on one session.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return open(ctx, kind, realDB{db: db}, query)
}

func open(ctx context.Context, kind string, db dbCore, query string) (*Runner, error) {
	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, &storage.DatabaseError{Kind: kind, Op: "ping", Err: err}
	}

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		_ = db.Close()
		return nil, &storage.DatabaseError{Kind: kind, Op: "prepare", Err: err}
	}
	return &Runner{kind: kind, db: db, stmt: stmt, query: query}, nil
}

// Update executes the prepared statement with (updateValue, matchValue) and
// returns the driver's rows-affected count.
func (r *Runner) Update(ctx context.Context, matchValue, updateValue string) (int64, error) {
	res, err := r.stmt.ExecContext(ctx, updateValue, matchValue)
	if err != nil {
		return 0, &storage.DatabaseError{Kind: r.kind, Op: "exec", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &storage.DatabaseError{Kind: r.kind, Op: "rows affected", Err: err}
	}
	return n, nil
}

// Statement returns the prepared SQL text.
func (r *Runner) Statement() string { return r.query }

// Close releases the statement, then the pool.
func (r *Runner) Close() error {
	err := errors.Join(r.stmt.Close(), r.db.Close())
	if err != nil {
		return &storage.DatabaseError{Kind: r.kind, Op: "close", Err: err}
	}
	return nil
}
