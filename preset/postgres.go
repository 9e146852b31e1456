package preset

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS filter_presets (
	key        TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists preset blobs in PostgreSQL.
// Use this when presets are shared between users or hosts; the
// IsShared and CreatedBy preset fields are meaningful here.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects using the given DSN and ensures the
// preset table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("preset: failed to connect: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("preset: failed to create schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context, key string) ([]Preset, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM filter_presets WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("preset: failed to load %q: %w", key, err)
	}
	return decodeList(data), nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, key string, presets []Preset) error {
	data, err := encodeList(presets)
	if err != nil {
		return fmt.Errorf("preset: failed to encode %q: %w", key, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO filter_presets (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			data = excluded.data,
			updated_at = now()`,
		key, data)
	if err != nil {
		return fmt.Errorf("preset: failed to save %q: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
