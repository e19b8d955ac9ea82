package postgres

import (
	"context"
	"fmt"

	"github.com/go-api-otp/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a bounded PostgreSQL connection pool and verifies the
// database is reachable. The pool is the single shared resource crossing
// request boundaries; it is created at process start, passed into the
// repositories explicitly, and closed at shutdown.
func NewPool(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)

	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Bootstrap creates the tables and indexes if they don't already exist.
// Safe to call on every startup.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			transaction_ref_number TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			mobile_number TEXT NOT NULL,
			partner_name TEXT NOT NULL,
			identifier_name TEXT NOT NULL,
			identifier_value TEXT NOT NULL,
			product_name TEXT NOT NULL,
			preferred_lang TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS users_identifier_idx
			ON users (identifier_name, identifier_value, email)`,
		`CREATE TABLE IF NOT EXISTS otps (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			identifier_type TEXT NOT NULL,
			identifier_value TEXT NOT NULL,
			otp TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS otps_code_idx ON otps (otp, created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
