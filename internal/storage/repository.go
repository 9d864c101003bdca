// Package storage holds the backend-agnostic contract for applying one
// column update per source row, and the factory that picks a backend by kind.
//
// Backends (mysql, postgres, sqlserver, sqlite) live in subpackages and
// register themselves from init(); importing storage/all enables every
// built-in kind. Callers only see Updater:
//
//	u, err := storage.New(ctx, storage.Config{Kind: "mysql", Credentials: creds, Target: cfg.Spec})
//	if err != nil { ... }
//	defer u.Close()
//	n, err := u.Update(ctx, matchValue, updateValue)
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mysqlupdate/internal/config"
)

// Updater executes the run's single prepared UPDATE once per row.
type Updater interface {
	// Update binds updateValue to the SET placeholder and matchValue to the
	// WHERE placeholder and returns the rows affected. Failures are
	// *DatabaseError.
	Update(ctx context.Context, matchValue, updateValue string) (int64, error)

	// Statement returns the SQL text that was prepared.
	Statement() string

	// Close releases the statement and the connection.
	Close() error
}

// Config is what a backend factory needs to open an Updater.
type Config struct {
	Kind        string
	Credentials config.Credentials
	Target      config.UpdateSpec
}

// Factory opens an Updater for cfg. The returned Updater is connected and
// its statement prepared.
type Factory func(ctx context.Context, cfg Config) (Updater, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens an Updater using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Updater, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds in sorted order.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
