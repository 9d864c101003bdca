package storage

import (
	"context"
	"testing"

	"mysqlupdate/internal/config"
)

// fakeUpdater is a minimal Updater for registry tests.
type fakeUpdater struct {
	cfg    Config
	closed bool
}

func (f *fakeUpdater) Update(context.Context, string, string) (int64, error) { return 1, nil }
func (f *fakeUpdater) Statement() string                                   { return "" }
func (f *fakeUpdater) Close() error                                        { f.closed = true; return nil }

// TestRegisterAndNew_Success verifies that registering a backend enables New()
// to return an updater built from the same Config.
func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake"
	Register(kind, func(ctx context.Context, cfg Config) (Updater, error) {
		return &fakeUpdater{cfg: cfg}, nil
	})

	cfg := Config{
		Kind:        kind,
		Credentials: config.Credentials{Server: "h", User: "u", Database: "d"},
		Target:      config.UpdateSpec{Table: "t", MatchColumn: "m", UpdateColumn: "u"},
	}
	u, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	fu, ok := u.(*fakeUpdater)
	if !ok {
		t.Fatalf("New returned %T", u)
	}
	if fu.cfg != cfg {
		t.Fatalf("factory saw %+v, want %+v", fu.cfg, cfg)
	}

	found := false
	for _, k := range ListKinds() {
		if k == kind {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("registered kind %q not present in ListKinds: %v", kind, ListKinds())
	}
}

// TestNew_Unsupported verifies that unknown kinds return a helpful error.
func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
	if got, want := err.Error(), "unsupported storage kind=does-not-exist"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}
}

// TestRegister_Override verifies that re-registering a kind replaces the
// previous factory.
func TestRegister_Override(t *testing.T) {
	t.Parallel()

	kind := "override"
	first, second := 0, 0
	Register(kind, func(ctx context.Context, cfg Config) (Updater, error) {
		first++
		return &fakeUpdater{}, nil
	})
	Register(kind, func(ctx context.Context, cfg Config) (Updater, error) {
		second++
		return &fakeUpdater{}, nil
	})

	if _, err := New(context.Background(), Config{Kind: kind}); err != nil {
		t.Fatalf("New error: %v", err)
	}
	if first != 0 || second != 1 {
		t.Fatalf("calls first=%d second=%d, want 0/1", first, second)
	}
}

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	target := config.UpdateSpec{Table: "users", MatchColumn: "email", UpdateColumn: "status"}
	tests := []struct {
		d    Dialect
		want string
	}{
		{QuestionDialect, "UPDATE users SET status = ? WHERE email = ?"},
		{DollarDialect, "UPDATE users SET status = $1 WHERE email = $2"},
		{AtPDialect, "UPDATE users SET status = @p1 WHERE email = @p2"},
	}
	for _, tt := range tests {
		if got := BuildUpdate(target, tt.d); got != tt.want {
			t.Fatalf("BuildUpdate(%s) = %q, want %q", tt.d.Name, got, tt.want)
		}
	}
}

// TestBuildUpdate_IdentifiersVerbatim documents that identifiers are not
// quoted or escaped.
func TestBuildUpdate_IdentifiersVerbatim(t *testing.T) {
	t.Parallel()

	target := config.UpdateSpec{Table: "shop.`order items`", MatchColumn: "sku", UpdateColumn: "qty"}
	want := "UPDATE shop.`order items` SET qty = ? WHERE sku = ?"
	if got := BuildUpdate(target, QuestionDialect); got != want {
		t.Fatalf("BuildUpdate = %q, want %q", got, want)
	}
}
