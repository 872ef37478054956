// Package quota enforces the shared daily message budget. The counter is
// keyed by calendar date and persisted in SQLite so the budget survives
// process restarts, unlike the in-memory rate-limit windows.
package quota

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/shagarchive/shagqa/internal/log"
)

// DefaultDailyLimit is the default messages-per-day budget shared by all
// clients.
const DefaultDailyLimit = 50

const schema = `
CREATE TABLE IF NOT EXISTS daily_count (
	date  TEXT PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 0
)`

// Counter tracks messages sent per calendar day.
type Counter struct {
	db     *sql.DB
	limit  int
	logger log.Logger
}

// Open opens (creating if necessary) the quota database at path.
func Open(path string, limit int, logger log.Logger) (*Counter, error) {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening quota database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing quota schema: %w", err)
	}

	logger.Info("quota store opened", "path", path, "daily_limit", limit)
	return &Counter{db: db, limit: limit, logger: logger}, nil
}

// Close releases the underlying database handle.
func (c *Counter) Close() error {
	return c.db.Close()
}

// Limit returns the configured daily budget.
func (c *Counter) Limit() int {
	return c.limit
}

// Allow reports whether another message fits in today's budget, along with
// the count used so far.
func (c *Counter) Allow(ctx context.Context, now time.Time) (bool, int, error) {
	day := now.Format(time.DateOnly)

	var used int
	err := c.db.QueryRowContext(ctx,
		`SELECT count FROM daily_count WHERE date = ?`, day).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("reading quota: %w", err)
	}

	return used < c.limit, used, nil
}

// Record counts one sent message against today's budget. Called only after
// a model call succeeds; failed requests are not charged.
func (c *Counter) Record(ctx context.Context, now time.Time) error {
	day := now.Format(time.DateOnly)

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO daily_count (date, count) VALUES (?, 1)
		 ON CONFLICT(date) DO UPDATE SET count = count + 1`, day)
	if err != nil {
		return fmt.Errorf("recording quota: %w", err)
	}
	return nil
}
