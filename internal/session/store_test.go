package session_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/nutriwell/go-admin/internal/session"
)

// openTestDB hands the bun store a shared in-memory sqlite database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	token, err := store.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}

	profile := &session.Profile{ID: "u1", Name: "Dana", Email: "dana@nutriwell.test", Role: "admin"}
	if err := store.SetToken(ctx, "bearer-123", profile); err != nil {
		t.Fatalf("set token: %v", err)
	}

	token, _ = store.Token(ctx)
	if token != "bearer-123" {
		t.Fatalf("expected stored token, got %q", token)
	}
	loaded, _ := store.Profile(ctx)
	if loaded == nil || loaded.Email != "dana@nutriwell.test" {
		t.Fatalf("unexpected profile %+v", loaded)
	}

	// mutating the returned profile must not leak into the store
	loaded.Email = "other@nutriwell.test"
	again, _ := store.Profile(ctx)
	if again.Email != "dana@nutriwell.test" {
		t.Fatal("profile copy leaked")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	token, _ = store.Token(ctx)
	if token != "" {
		t.Fatalf("expected cleared token, got %q", token)
	}
	if p, _ := store.Profile(ctx); p != nil {
		t.Fatalf("expected cleared profile, got %+v", p)
	}
}

func TestBunStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := bun.NewDB(openTestDB(t), sqlitedialect.New())
	store := session.NewBunStore(db, "")
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	if token, err := store.Token(ctx); err != nil || token != "" {
		t.Fatalf("expected empty token, got %q err %v", token, err)
	}

	profile := &session.Profile{ID: "u2", Name: "Noor", Email: "noor@nutriwell.test", Role: "editor"}
	if err := store.SetToken(ctx, "bearer-xyz", profile); err != nil {
		t.Fatalf("set token: %v", err)
	}
	// overwrite is an upsert, not a duplicate row
	if err := store.SetToken(ctx, "bearer-latest", profile); err != nil {
		t.Fatalf("overwrite token: %v", err)
	}

	token, err := store.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "bearer-latest" {
		t.Fatalf("expected latest token, got %q", token)
	}

	loaded, err := store.Profile(ctx)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if loaded == nil || loaded.Name != "Noor" {
		t.Fatalf("unexpected profile %+v", loaded)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if token, _ := store.Token(ctx); token != "" {
		t.Fatalf("expected cleared token, got %q", token)
	}
}
