package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Radiola/internal/annotate"
	"github.com/shaiso/Radiola/internal/domain"
	"github.com/shaiso/Radiola/internal/mq"
	"github.com/shaiso/Radiola/internal/repo"
)

// RadioRequests отправляет заявки слушателей в AutoDJ станций,
// работающих в ручном режиме (UseManualAutoDJ).
//
// За один запуск станция получает не более одной заявки, и только
// если очередь backend'а пуста. Станции с автоматическим режимом
// не затрагиваются — их заявки подбирает сам backend.
//
// Идемпотентность: перед отправкой задача ищет запись song_history
// по паре (станция, заявка). Существующая запись означает, что
// предыдущий запуск был прерван после постановки в историю —
// тогда дубликат не создаётся, а отправка продолжается с
// существующей записью.
type RadioRequests struct {
	stations  StationLister
	requests  RequestStore
	histories HistoryStore
	adapters  BackendResolver
	annotate  *annotate.Registry
	publisher EventPublisher
	logger    *slog.Logger
}

// RadioRequestsConfig — конфигурация задачи RadioRequests.
type RadioRequestsConfig struct {
	Stations  StationLister
	Requests  RequestStore
	Histories HistoryStore
	Adapters  BackendResolver
	Annotate  *annotate.Registry
	Publisher EventPublisher // опционально
	Logger    *slog.Logger
}

// NewRadioRequests создаёт задачу RadioRequests.
func NewRadioRequests(cfg RadioRequestsConfig) *RadioRequests {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := cfg.Annotate
	if reg == nil {
		reg = annotate.NewRegistry()
	}

	return &RadioRequests{
		stations:  cfg.Stations,
		requests:  cfg.Requests,
		histories: cfg.Histories,
		adapters:  cfg.Adapters,
		annotate:  reg,
		publisher: cfg.Publisher,
		logger:    logger,
	}
}

// Name реализует sched.Task.
func (t *RadioRequests) Name() string {
	return "radio_requests"
}

// Run реализует sched.Task.
//
// Ошибка одной станции логируется и не блокирует остальные:
// её заявка остаётся pending и будет повторена следующим запуском.
func (t *RadioRequests) Run(ctx context.Context, _ bool) error {
	stations, err := t.stations.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list stations: %w", err)
	}

	for i := range stations {
		station := &stations[i]
		if !station.UseManualAutoDJ {
			continue
		}

		if err := t.submitNext(ctx, station); err != nil {
			t.logger.Error("failed to submit request",
				"station", station.ShortName,
				"error", err,
			)
		}
	}
	return nil
}

// submitNext отправляет следующую играбельную заявку станции.
func (t *RadioRequests) submitNext(ctx context.Context, station *domain.Station) error {
	request, err := t.requests.NextPlayable(ctx, station.ID)
	if errors.Is(err, repo.ErrNotFound) {
		// Играбельных заявок нет — станция не даёт работы.
		return nil
	}
	if err != nil {
		return fmt.Errorf("next playable request: %w", err)
	}

	backend, ok := t.adapters.BackendFor(station)
	if !ok {
		// Несовпадение конфигурации: заявки включены, а AutoDJ нет.
		t.logger.Debug("station has no AutoDJ-capable backend, skipping",
			"station", station.ShortName,
		)
		return nil
	}

	history, err := t.findOrCreateHistory(ctx, station, request)
	if err != nil {
		return err
	}

	ann, err := t.annotate.Build(ctx, history, request.Track)
	if err != nil {
		return fmt.Errorf("build annotation: %w", err)
	}

	// Предусловие: очередь backend'а должна быть пуста, иначе заявка
	// перезаписала бы уже ожидающий элемент. Проверка оптимистичная —
	// атомарного check-and-enqueue у backend'а нет.
	empty, err := backend.IsQueueEmpty(ctx, station)
	if err != nil {
		return fmt.Errorf("check backend queue: %w", err)
	}
	if !empty {
		t.logger.Error("skipping request submission: backend queue is occupied",
			"station", station.ShortName,
			"request_id", request.ID,
		)
		return nil
	}

	t.logger.Debug("submitting request to AutoDJ",
		"station", station.ShortName,
		"request_id", request.ID,
		"track", ann.URI(),
	)

	resp, err := backend.Enqueue(ctx, station, ann)
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	t.logger.Debug("AutoDJ enqueue response",
		"station", station.ShortName,
		"response", resp,
	)

	playedAt := time.Now()
	if err := t.requests.MarkPlayed(ctx, request.ID, playedAt); err != nil {
		return fmt.Errorf("mark request played: %w", err)
	}

	if t.publisher != nil {
		if err := t.publisher.PublishRequestSubmitted(ctx, mq.RequestSubmittedPayload{
			StationID: station.ID,
			RequestID: request.ID,
			TrackID:   request.TrackID,
			Song:      request.Track.Song(),
			PlayedAt:  playedAt,
		}); err != nil {
			// Заявка уже отправлена; пропавшее уведомление не повод для retry.
			t.logger.Warn("failed to publish request.submitted",
				"station", station.ShortName,
				"request_id", request.ID,
				"error", err,
			)
		}
	}

	return nil
}

// findOrCreateHistory возвращает запись истории пары (станция, заявка),
// создавая её при отсутствии.
//
// Новая запись сохраняется ДО любых внешних вызовов: падение после
// этой точки не потеряет факт попытки отправки, и повторный запуск
// найдёт запись вместо создания дубликата.
func (t *RadioRequests) findOrCreateHistory(ctx context.Context, station *domain.Station, request *domain.StationRequest) (*domain.SongHistory, error) {
	history, err := t.histories.FindByStationAndRequest(ctx, station.ID, request.ID)
	if err == nil {
		return history, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("find history: %w", err)
	}

	history = domain.NewSongHistory(station, request.Track)
	history.LinkRequest(request.ID)
	history.MarkSentToAutoDJ()

	if err := t.histories.Create(ctx, history); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			// Конкурентный запуск успел первым — берём его запись.
			return t.histories.FindByStationAndRequest(ctx, station.ID, request.ID)
		}
		return nil, fmt.Errorf("create history: %w", err)
	}
	return history, nil
}
