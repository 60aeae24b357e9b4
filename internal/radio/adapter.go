package radio

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/Radiola/internal/annotate"
	"github.com/shaiso/Radiola/internal/domain"
)

// Backend — адаптер automation backend'а станции.
//
// Ошибки различаются по типу: errors.Is(err, ErrUnreachable) —
// backend недоступен, errors.Is(err, ErrRejected) — backend отверг
// команду или payload.
type Backend interface {
	// IsQueueEmpty сообщает, пуста ли очередь заявок backend'а.
	IsQueueEmpty(ctx context.Context, station *domain.Station) (bool, error)

	// Enqueue ставит аннотированный трек в очередь backend'а.
	// Возвращает сырой ответ backend'а (идентификатор запроса).
	Enqueue(ctx context.Context, station *domain.Station, ann *annotate.Annotation) (string, error)
}

// NowPlayingProvider — опциональное расширение Backend: backend умеет
// сообщать идентификатор трека, находящегося в эфире.
type NowPlayingProvider interface {
	// NowPlaying возвращает unique_id трека в эфире
	// (пустая строка — в эфире ничего нет).
	NowPlaying(ctx context.Context, station *domain.Station) (string, error)
}

// Adapters резолвит backend-адаптер для станции.
type Adapters struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewAdapters создаёт новый резолвер.
// timeout — таймаут одного телнет-вызова (default: 3s, как у
// HTTP-клиентов внешних сервисов).
func NewAdapters(timeout time.Duration, logger *slog.Logger) *Adapters {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapters{
		timeout: timeout,
		logger:  logger,
	}
}

// BackendFor возвращает адаптер для станции.
// false — у станции нет AutoDJ-способного backend'а; это сигнал
// о несовпадении конфигурации, а не ошибка.
func (a *Adapters) BackendFor(station *domain.Station) (Backend, bool) {
	switch station.BackendType {
	case domain.BackendLiquidsoap:
		return NewLiquidsoap(a.timeout, a.logger), true
	default:
		return nil, false
	}
}
