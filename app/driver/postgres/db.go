package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopcore/app/config"
)

// PoolSettings bound the pgx connection pool. RLS-guarded work holds a
// transaction for its whole unit of work, so the pool needs enough headroom
// for concurrent guarded requests plus the single-statement repositories.
type PoolSettings struct {
	MaxConns     int32
	MinConns     int32
	ConnLifetime time.Duration
	ConnIdleTime time.Duration
}

// DefaultPoolSettings returns the settings used in production
func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		MaxConns:     25,
		MinConns:     5,
		ConnLifetime: time.Hour,
		ConnIdleTime: 30 * time.Minute,
	}
}

// DB owns the service's pgx connection pool
type DB struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open connects to Postgres, applies the pool settings and verifies the
// connection with a ping before handing the pool to callers.
func Open(ctx context.Context, cfg *config.Config, settings PoolSettings, logger *slog.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = settings.MaxConns
	poolConfig.MinConns = settings.MinConns
	poolConfig.MaxConnLifetime = settings.ConnLifetime
	poolConfig.MaxConnIdleTime = settings.ConnIdleTime

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		"host", cfg.DatabaseHost,
		"database", cfg.DatabaseName,
		"max_conns", settings.MaxConns)

	return &DB{pool: pool, logger: logger}, nil
}

// Pool returns the underlying connection pool
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close drains and closes the pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
		db.logger.Info("database connection closed")
	}
}

// HealthCheck pings the database with a short deadline
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.pool == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.pool.Ping(ctx)
}

// dsn prefers a full DATABASE_URL and otherwise assembles the connection
// string from the discrete settings.
func dsn(cfg *config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
}
