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

// StationRepo — репозиторий станций.
type StationRepo struct {
	pool *pgxpool.Pool
}

// NewStationRepo создаёт новый StationRepo.
func NewStationRepo(pool *pgxpool.Pool) *StationRepo {
	return &StationRepo{pool: pool}
}

const stationColumns = `
	id, name, short_name, backend_type, backend_host, backend_port,
	enable_requests, use_manual_autodj, created_at, updated_at
`

// ListAll возвращает все станции, отсортированные по имени.
func (r *StationRepo) ListAll(ctx context.Context) ([]domain.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	defer rows.Close()

	var stations []domain.Station
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *st)
	}
	return stations, rows.Err()
}

// GetByID возвращает станцию по ID.
func (r *StationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`
	return scanStation(r.pool.QueryRow(ctx, query, id))
}

// scanStation сканирует одну строку в Station.
func scanStation(row pgx.Row) (*domain.Station, error) {
	var st domain.Station
	err := row.Scan(
		&st.ID,
		&st.Name,
		&st.ShortName,
		&st.BackendType,
		&st.BackendHost,
		&st.BackendPort,
		&st.EnableRequests,
		&st.UseManualAutoDJ,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan station: %w", err)
	}
	return &st, nil
}
