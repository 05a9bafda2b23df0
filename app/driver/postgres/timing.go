package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// slowQueryThreshold is where a query stops being routine and gets logged
const slowQueryThreshold = 250 * time.Millisecond

// TimedQueryer is an explicit decorator around a Queryer that records query
// durations. It implements the same interface, so it composes with any
// repository without that repository knowing about timing.
type TimedQueryer struct {
	inner  Queryer
	logger *slog.Logger
}

// NewTimedQueryer wraps a Queryer with duration logging
func NewTimedQueryer(inner Queryer, logger *slog.Logger) *TimedQueryer {
	return &TimedQueryer{
		inner:  inner,
		logger: logger.With("component", "db_timing"),
	}
}

// Exec implements Queryer
func (t *TimedQueryer) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := t.inner.Exec(ctx, sql, arguments...)
	t.observe(sql, start, err)
	return tag, err
}

// Query implements Queryer
func (t *TimedQueryer) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	start := time.Now()
	rows, err := t.inner.Query(ctx, sql, args...)
	t.observe(sql, start, err)
	return rows, err
}

// QueryRow implements Queryer
func (t *TimedQueryer) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	start := time.Now()
	row := t.inner.QueryRow(ctx, sql, args...)
	t.observe(sql, start, nil)
	return row
}

func (t *TimedQueryer) observe(sql string, start time.Time, err error) {
	elapsed := time.Since(start)

	if err != nil {
		t.logger.Error("query failed", "duration_ms", elapsed.Milliseconds(), "error", err)
		return
	}

	if elapsed >= slowQueryThreshold {
		t.logger.Warn("slow query", "duration_ms", elapsed.Milliseconds(), "sql", sql)
	} else {
		t.logger.Debug("query completed", "duration_ms", elapsed.Milliseconds())
	}
}
