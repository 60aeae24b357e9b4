package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Radiola/internal/domain"
)

// HistoryRepo — репозиторий истории воспроизведения.
type HistoryRepo struct {
	pool *pgxpool.Pool
}

// NewHistoryRepo создаёт новый HistoryRepo.
func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

const historyColumns = `
	id, station_id, request_id, track_id, song_text,
	timestamp_cued, sent_to_autodj, timestamp_start
`

// Create сохраняет новую запись истории.
//
// Уникальность пары (station, request) дополнительно обеспечивается
// частичным уникальным индексом: конкурентная вставка по той же паре
// возвращает ErrAlreadyExists, и вызывающий код перечитывает
// существующую запись.
func (r *HistoryRepo) Create(ctx context.Context, h *domain.SongHistory) error {
	query := `
		INSERT INTO song_history
			(id, station_id, request_id, track_id, song_text,
			 timestamp_cued, sent_to_autodj, timestamp_start)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		h.ID,
		h.StationID,
		h.RequestID,
		h.TrackID,
		h.SongText,
		h.TimestampCued,
		h.SentToAutoDJ,
		h.TimestampStart,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert song history: %w", err)
	}
	return nil
}

// FindByStationAndRequest возвращает запись истории по паре
// (станция, заявка). Возвращает ErrNotFound, если записи нет.
func (r *HistoryRepo) FindByStationAndRequest(ctx context.Context, stationID, requestID uuid.UUID) (*domain.SongHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM song_history
		WHERE station_id = $1 AND request_id = $2
	`
	return scanHistory(r.pool.QueryRow(ctx, query, stationID, requestID))
}

// FindCued возвращает последнюю запись трека, переданную AutoDJ,
// но ещё не вышедшую в эфир. Возвращает ErrNotFound, если такой нет.
func (r *HistoryRepo) FindCued(ctx context.Context, stationID, trackID uuid.UUID) (*domain.SongHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM song_history
		WHERE station_id = $1 AND track_id = $2
		  AND sent_to_autodj AND timestamp_start IS NULL
		ORDER BY timestamp_cued DESC
		LIMIT 1
	`
	return scanHistory(r.pool.QueryRow(ctx, query, stationID, trackID))
}

// Current возвращает последнюю запись станции, вышедшую в эфир.
// Возвращает ErrNotFound, если станция ещё ничего не играла.
func (r *HistoryRepo) Current(ctx context.Context, stationID uuid.UUID) (*domain.SongHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM song_history
		WHERE station_id = $1 AND timestamp_start IS NOT NULL
		ORDER BY timestamp_start DESC
		LIMIT 1
	`
	return scanHistory(r.pool.QueryRow(ctx, query, stationID))
}

// MarkStarted отмечает фактический старт воспроизведения записи.
func (r *HistoryRepo) MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE song_history SET timestamp_start = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("mark history started: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOlderThan удаляет записи, поставленные в очередь раньше cutoff.
// Возвращает количество удалённых строк.
func (r *HistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM song_history WHERE timestamp_cued < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old history: %w", err)
	}
	return result.RowsAffected(), nil
}

// scanHistory сканирует одну строку в SongHistory.
func scanHistory(row pgx.Row) (*domain.SongHistory, error) {
	var h domain.SongHistory
	err := row.Scan(
		&h.ID,
		&h.StationID,
		&h.RequestID,
		&h.TrackID,
		&h.SongText,
		&h.TimestampCued,
		&h.SentToAutoDJ,
		&h.TimestampStart,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan song history: %w", err)
	}
	return &h, nil
}
