package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/geoquiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/geoquiz-bot/internal/repository"
)

// KVRepository stores JSON documents by key in the kv_store table.
type KVRepository struct {
	db postgres.DBTX
}

// NewKVRepository creates a new KVRepository with the provided database handle.
func NewKVRepository(db postgres.DBTX) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the document stored under key.
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var value []byte
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get kv %q: %w", key, err)
	}

	return value, nil
}

// Put inserts or fully replaces the document stored under key.
func (r *KVRepository) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("put kv %q: %w", key, err)
	}

	return nil
}
