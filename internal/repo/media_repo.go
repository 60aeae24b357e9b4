package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Radiola/internal/domain"
)

// MediaRepo — репозиторий медиатеки (read-only для sync-задач).
type MediaRepo struct {
	pool *pgxpool.Pool
}

// NewMediaRepo создаёт новый MediaRepo.
func NewMediaRepo(pool *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{pool: pool}
}

const mediaColumns = `id, station_id, unique_id, path, title, artist, length_sec`

// GetByID возвращает трек по ID.
func (r *MediaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StationMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM station_media WHERE id = $1`
	return scanMedia(r.pool.QueryRow(ctx, query, id))
}

// GetByUniqueID возвращает трек станции по стабильному идентификатору
// содержимого (им оперируют on-air метаданные backend'а).
func (r *MediaRepo) GetByUniqueID(ctx context.Context, stationID uuid.UUID, uniqueID string) (*domain.StationMedia, error) {
	query := `SELECT ` + mediaColumns + ` FROM station_media WHERE station_id = $1 AND unique_id = $2`
	return scanMedia(r.pool.QueryRow(ctx, query, stationID, uniqueID))
}

// scanMedia сканирует одну строку в StationMedia.
func scanMedia(row pgx.Row) (*domain.StationMedia, error) {
	var m domain.StationMedia
	err := row.Scan(
		&m.ID,
		&m.StationID,
		&m.UniqueID,
		&m.Path,
		&m.Title,
		&m.Artist,
		&m.LengthSec,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan media: %w", err)
	}
	return &m, nil
}
