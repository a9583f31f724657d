package postgres

import (
	"context"
	"errors"
	"fmt"
	"fxconv/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type KVStore struct {
	pool *pgxpool.Pool
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `select value from kv_store where key = $1;`

	var value []byte
	if err := s.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select key %q: %w", key, err)
	}
	return value, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	const q = `
		insert into kv_store (key, value, updated_at)
		values ($1, $2, now())
		on conflict (key) do update
		set value = excluded.value, updated_at = now();
	`

	if _, err := s.pool.Exec(ctx, q, key, value); err != nil {
		return fmt.Errorf("failed to upsert key %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	const q = `delete from kv_store where key = $1;`

	if _, err := s.pool.Exec(ctx, q, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func NewKVStore(pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool}
}
