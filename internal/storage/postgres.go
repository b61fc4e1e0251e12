package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS ledger_slots (
    key        TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresSlot stores keys in the ledger_slots table through a pgx pool.
type PostgresSlot struct {
	pool *pgxpool.Pool
}

// NewPostgresSlot connects to url and creates the table if needed.
func NewPostgresSlot(ctx context.Context, url string) (*PostgresSlot, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create ledger_slots table: %w", err)
	}
	return &PostgresSlot{pool: pool}, nil
}

func (p *PostgresSlot) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresSlot) Read(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM ledger_slots WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select slot %q: %w", ErrRead, key, err)
	}
	return value, nil
}

func (p *PostgresSlot) Write(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO ledger_slots (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("%w: upsert slot %q: %w", ErrWrite, key, err)
	}
	return nil
}
