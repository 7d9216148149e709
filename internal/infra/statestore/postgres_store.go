package statestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/critter-checklist/internal/domain/checklist"
)

const createStateTable = `
	CREATE TABLE IF NOT EXISTS checklist_state (
		key TEXT PRIMARY KEY,
		data BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresStore keeps the state blob as one row of checklist_state.
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool, key string) *PostgresStore {
	if key == "" {
		key = checklist.StorageKey
	}
	return &PostgresStore{pool: pool, key: key}
}

// EnsureSchema creates the state table when it is missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createStateTable); err != nil {
		return fmt.Errorf("create checklist_state: %w", err)
	}
	return nil
}

// Load implements checklist.Store.
func (s *PostgresStore) Load(ctx context.Context) ([]byte, bool, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `
		SELECT data
		FROM checklist_state
		WHERE key = $1
	`, s.key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select state: %w", err)
	}
	return data, true, nil
}

// Save implements checklist.Store.
func (s *PostgresStore) Save(ctx context.Context, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO checklist_state (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`, s.key, data)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

var _ checklist.Store = (*PostgresStore)(nil)
