package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Get implements cache.Cache. Expired entries and read failures are
// misses.
func (d *Database) Get(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}

	query := "select value from cache_entries where key = ? and expires_at > ?"

	var value string
	err := d.db.QueryRowContext(ctx, query, key, d.now().Unix()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		d.log.WarnContext(ctx, "Failed to read cache entry",
			"error", err,
			"key", key)

		return "", false
	}

	return value, true
}

// Set implements cache.Cache. Empty values are not stored.
func (d *Database) Set(ctx context.Context, key string, value string) {
	if err := d.Put(ctx, key, value); err != nil {
		d.log.WarnContext(ctx, "Failed to write cache entry",
			"error", err,
			"key", key)
	}
}

func (d *Database) Put(ctx context.Context, key string, value string) error {
	if key == "" || value == "" {
		return nil
	}

	now := d.now()

	query := "insert into cache_entries (key, value, created_at, expires_at) values (?, ?, ?, ?) " +
		"on conflict (key) do update set value = excluded.value, " +
		"created_at = excluded.created_at, expires_at = excluded.expires_at"

	if _, err := d.db.ExecContext(ctx, query, key, value, now.Unix(), now.Add(d.ttl).Unix()); err != nil {
		return fmt.Errorf("execute query: %w", err)
	}

	return nil
}

// PruneExpired deletes expired entries and reports how many were removed.
func (d *Database) PruneExpired(ctx context.Context) (int64, error) {
	query := "delete from cache_entries where expires_at <= ?"

	res, err := d.db.ExecContext(ctx, query, d.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("execute query: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return n, nil
}

// Count returns the number of stored entries, expired ones included.
func (d *Database) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := d.db.QueryRowContext(ctx, "select count(*) from cache_entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("execute query: %w", err)
	}

	return n, nil
}
