package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-core/internal/domain"
)

// PostgresStore is a key-value store backed by the kv_store table.
type PostgresStore struct {
	db dbtx
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

func NewPostgresStoreWithTx(tx pgx.Tx) *PostgresStore {
	return &PostgresStore{db: tx}
}

const getValueSQL = `SELECT value FROM kv_store WHERE key = $1`

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	var value []byte
	err := s.db.QueryRow(ctx, getValueSQL, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	return value, nil
}

const setValueSQL = `
INSERT INTO kv_store (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	if value == nil {
		value = []byte{}
	}

	if _, err := s.db.Exec(ctx, setValueSQL, key, value); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

const deleteValueSQL = `DELETE FROM kv_store WHERE key = $1`

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := s.db.Exec(ctx, deleteValueSQL, key); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}
