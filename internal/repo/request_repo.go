package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Radiola/internal/domain"
)

// recentlyCuedWindow — окно, в течение которого трек, уже поставленный
// в очередь станции, не выдаётся как следующая играбельная заявка.
const recentlyCuedWindow = 15 * time.Minute

// RequestRepo — репозиторий заявок слушателей.
type RequestRepo struct {
	pool *pgxpool.Pool
}

// NewRequestRepo создаёт новый RequestRepo.
func NewRequestRepo(pool *pgxpool.Pool) *RequestRepo {
	return &RequestRepo{pool: pool}
}

// NextPlayable возвращает следующую играбельную заявку станции.
//
// Политика упорядочивания: невыполненные заявки, oldest-first.
// Трек, недавно поставленный в очередь станции (по song_history),
// пропускается — кроме случая, когда постановка была по этой же
// заявке: такую заявку нужно выдать снова, чтобы workflow мог
// повторить прерванную отправку.
//
// Возвращает ErrNotFound, если играбельных заявок нет.
func (r *RequestRepo) NextPlayable(ctx context.Context, stationID uuid.UUID) (*domain.StationRequest, error) {
	query := `
		SELECT r.id, r.station_id, r.track_id, r.played_at, r.created_at,
		       m.id, m.station_id, m.unique_id, m.path, m.title, m.artist, m.length_sec
		FROM station_requests r
		JOIN station_media m ON m.id = r.track_id
		WHERE r.station_id = $1
		  AND r.played_at IS NULL
		  AND NOT EXISTS (
			SELECT 1 FROM song_history h
			WHERE h.station_id = r.station_id
			  AND h.track_id = r.track_id
			  AND h.timestamp_cued > $2
			  AND h.request_id IS DISTINCT FROM r.id
		  )
		ORDER BY r.created_at ASC
		LIMIT 1
	`
	row := r.pool.QueryRow(ctx, query, stationID, time.Now().Add(-recentlyCuedWindow))

	var req domain.StationRequest
	var track domain.StationMedia
	err := row.Scan(
		&req.ID,
		&req.StationID,
		&req.TrackID,
		&req.PlayedAt,
		&req.CreatedAt,
		&track.ID,
		&track.StationID,
		&track.UniqueID,
		&track.Path,
		&track.Title,
		&track.Artist,
		&track.LengthSec,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan request: %w", err)
	}

	req.Track = &track
	return &req, nil
}

// MarkPlayed помечает заявку выполненной.
func (r *RequestRepo) MarkPlayed(ctx context.Context, id uuid.UUID, playedAt time.Time) error {
	query := `UPDATE station_requests SET played_at = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, playedAt)
	if err != nil {
		return fmt.Errorf("mark request played: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PendingCount — количество невыполненных заявок станции.
type PendingCount struct {
	StationID   uuid.UUID
	StationName string
	Pending     int64
}

// PendingCounts возвращает размер очереди заявок по станциям.
func (r *RequestRepo) PendingCounts(ctx context.Context) ([]PendingCount, error) {
	query := `
		SELECT s.id, s.short_name, count(r.id)
		FROM stations s
		LEFT JOIN station_requests r ON r.station_id = s.id AND r.played_at IS NULL
		GROUP BY s.id, s.short_name
		ORDER BY s.short_name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pending counts: %w", err)
	}
	defer rows.Close()

	var counts []PendingCount
	for rows.Next() {
		var c PendingCount
		if err := rows.Scan(&c.StationID, &c.StationName, &c.Pending); err != nil {
			return nil, fmt.Errorf("scan pending count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
