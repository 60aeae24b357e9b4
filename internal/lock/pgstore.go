package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore — хранилище блокировок в PostgreSQL.
//
// Использует таблицу:
//
//	CREATE TABLE sync_locks (
//	    name       text PRIMARY KEY,
//	    token      uuid NOT NULL,
//	    expires_at timestamptz NOT NULL
//	);
//
// Захват — одиночный атомарный запрос: INSERT перехватывает строку
// через ON CONFLICT только если существующая блокировка истекла.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore создаёт новый PGStore.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// TryAcquire реализует Store.
func (s *PGStore) TryAcquire(ctx context.Context, name string, token uuid.UUID, ttl time.Duration) (bool, error) {
	query := `
		INSERT INTO sync_locks (name, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
		WHERE sync_locks.expires_at <= now()
	`
	result, err := s.pool.Exec(ctx, query, name, token, time.Now().Add(ttl))
	if err != nil {
		return false, fmt.Errorf("try acquire: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Release реализует Store.
func (s *PGStore) Release(ctx context.Context, name string, token uuid.UUID) error {
	query := `DELETE FROM sync_locks WHERE name = $1 AND token = $2`

	if _, err := s.pool.Exec(ctx, query, name, token); err != nil {
		return fmt.Errorf("release: %w", err)
	}
	return nil
}
