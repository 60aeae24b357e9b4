package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Radiola/internal/domain"
	"github.com/shaiso/Radiola/internal/mq"
	"github.com/shaiso/Radiola/internal/radio"
)

// StationLister — источник списка станций.
type StationLister interface {
	ListAll(ctx context.Context) ([]domain.Station, error)
}

// RequestStore — операции над заявками слушателей.
type RequestStore interface {
	// NextPlayable возвращает следующую играбельную заявку станции
	// или repo.ErrNotFound.
	NextPlayable(ctx context.Context, stationID uuid.UUID) (*domain.StationRequest, error)

	// MarkPlayed помечает заявку выполненной.
	MarkPlayed(ctx context.Context, id uuid.UUID, playedAt time.Time) error
}

// HistoryStore — операции над историей воспроизведения.
type HistoryStore interface {
	// FindByStationAndRequest — поиск записи по паре (станция, заявка)
	// или repo.ErrNotFound.
	FindByStationAndRequest(ctx context.Context, stationID, requestID uuid.UUID) (*domain.SongHistory, error)

	// Create сохраняет новую запись; конфликт уникальности —
	// repo.ErrAlreadyExists.
	Create(ctx context.Context, h *domain.SongHistory) error

	// Current — последняя запись станции, вышедшая в эфир.
	Current(ctx context.Context, stationID uuid.UUID) (*domain.SongHistory, error)

	// FindCued — переданная AutoDJ, но не вышедшая в эфир запись трека.
	FindCued(ctx context.Context, stationID, trackID uuid.UUID) (*domain.SongHistory, error)

	// MarkStarted отмечает фактический старт воспроизведения.
	MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error
}

// MediaStore — чтение медиатеки.
type MediaStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StationMedia, error)
	GetByUniqueID(ctx context.Context, stationID uuid.UUID, uniqueID string) (*domain.StationMedia, error)
}

// BackendResolver резолвит backend-адаптер станции.
type BackendResolver interface {
	BackendFor(station *domain.Station) (radio.Backend, bool)
}

// EventPublisher публикует события эфира. Может быть nil —
// тогда уведомления не отправляются.
type EventPublisher interface {
	PublishRequestSubmitted(ctx context.Context, payload mq.RequestSubmittedPayload) error
	PublishNowPlaying(ctx context.Context, payload mq.NowPlayingPayload) error
}
