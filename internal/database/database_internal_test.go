package database

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func newTestDatabase(t *testing.T, ttl time.Duration) (*Database, *time.Time) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "cache.db"), ttl, log)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return now }

	return db, &now
}

func TestDatabaseGetSet(t *testing.T) {
	db, _ := newTestDatabase(t, time.Hour)
	ctx := context.Background()

	if _, ok := db.Get(ctx, "key"); ok {
		t.Fatalf("expected miss on empty database")
	}

	db.Set(ctx, "key", "value")
	db.Set(ctx, "key", "updated")

	value, ok := db.Get(ctx, "key")
	if !ok {
		t.Fatalf("expected cached value to be present")
	}
	if value != "updated" {
		t.Fatalf("unexpected value: %q", value)
	}
}

func TestDatabaseSkipsEmptyValues(t *testing.T) {
	db, _ := newTestDatabase(t, time.Hour)
	ctx := context.Background()

	db.Set(ctx, "", "value")
	db.Set(ctx, "key", "")

	n, err := db.Count(ctx)
	if err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no entries, got %d", n)
	}
}

func TestDatabaseExpiresAndPrunes(t *testing.T) {
	db, now := newTestDatabase(t, time.Minute)
	ctx := context.Background()

	db.Set(ctx, "old", "value")
	*now = now.Add(30 * time.Second)
	db.Set(ctx, "fresh", "value")
	*now = now.Add(45 * time.Second)

	if _, ok := db.Get(ctx, "old"); ok {
		t.Fatalf("expected old entry to expire")
	}
	if _, ok := db.Get(ctx, "fresh"); !ok {
		t.Fatalf("expected fresh entry to remain")
	}

	removed, err := db.PruneExpired(ctx)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected one pruned entry, got %d", removed)
	}

	n, err := db.Count(ctx)
	if err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one remaining entry, got %d", n)
	}
}

func TestDatabaseReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	db, err := New(ctx, path, time.Hour, log)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.Set(ctx, "key", "value")
	if err := db.Close(); err != nil {
		t.Fatalf("close database: %v", err)
	}

	db, err = New(ctx, path, time.Hour, log)
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	defer db.Close()

	if value, ok := db.Get(ctx, "key"); !ok || value != "value" {
		t.Fatalf("expected entry to survive reopen, got %q %v", value, ok)
	}
}
