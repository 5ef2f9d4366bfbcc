package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
)

// PostgresKV stores desk documents in a single key/value table. The desk
// persists two whole JSON blobs, so one table with upsert-by-key is all the
// schema there is.
type PostgresKV struct {
	pool *pgxpool.Pool
}

// NewPostgresKV establishes a connection pool using the provided DSN.
func NewPostgresKV(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PostgresKV, error) {
	if cfg.DSN == "" {
		return nil, errors.New("POSTGRES_DSN required for the postgres storage driver")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &PostgresKV{pool: pool}, nil
}

// EnsureSchema creates the documents table when it does not exist yet.
func (p *PostgresKV) EnsureSchema(ctx context.Context, logger *zap.Logger) error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS desk_documents (
            key        TEXT PRIMARY KEY,
            value      TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return err
	}
	logger.Info("desk_documents schema ensured")
	return nil
}

// Get fetches the document under key; a missing row is not an error.
func (p *PostgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM desk_documents WHERE key=$1`
	var value string
	err := p.pool.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts the document under key.
func (p *PostgresKV) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO desk_documents (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	_, err := p.pool.Exec(ctx, query, key, value)
	return err
}

// Ping verifies connectivity.
func (p *PostgresKV) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.pool.Ping(ctx)
}

// Close releases pool resources.
func (p *PostgresKV) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}
