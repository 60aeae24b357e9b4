package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Radiola/internal/domain"
	"github.com/shaiso/Radiola/internal/mq"
	"github.com/shaiso/Radiola/internal/radio"
	"github.com/shaiso/Radiola/internal/repo"
)

// NowPlaying отслеживает смену трека в эфире станций.
//
// Для каждой станции с AutoDJ-backend'ом задача спрашивает
// идентификатор трека в эфире. При смене трека соответствующая
// cued-запись истории помечается стартовавшей (или создаётся новая,
// если backend поставил трек сам), и публикуется событие nowplaying.
//
// QueueStation — ручной вход того же контура: внешний скрипт
// (например, callback backend'а) сообщает о смене трека напрямую,
// не дожидаясь опроса.
type NowPlaying struct {
	stations  StationLister
	histories HistoryStore
	media     MediaStore
	adapters  BackendResolver
	publisher EventPublisher
	logger    *slog.Logger
}

// NowPlayingConfig — конфигурация задачи NowPlaying.
type NowPlayingConfig struct {
	Stations  StationLister
	Histories HistoryStore
	Media     MediaStore
	Adapters  BackendResolver
	Publisher EventPublisher // опционально
	Logger    *slog.Logger
}

// NewNowPlaying создаёт задачу NowPlaying.
func NewNowPlaying(cfg NowPlayingConfig) *NowPlaying {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &NowPlaying{
		stations:  cfg.Stations,
		histories: cfg.Histories,
		media:     cfg.Media,
		adapters:  cfg.Adapters,
		publisher: cfg.Publisher,
		logger:    logger,
	}
}

// Name реализует sched.Task.
func (t *NowPlaying) Name() string {
	return "nowplaying"
}

// Run реализует sched.Task.
func (t *NowPlaying) Run(ctx context.Context, _ bool) error {
	stations, err := t.stations.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list stations: %w", err)
	}

	for i := range stations {
		station := &stations[i]

		if err := t.pollStation(ctx, station); err != nil {
			t.logger.Error("failed to poll now playing",
				"station", station.ShortName,
				"error", err,
			)
		}
	}
	return nil
}

// pollStation опрашивает эфир одной станции.
func (t *NowPlaying) pollStation(ctx context.Context, station *domain.Station) error {
	backend, ok := t.adapters.BackendFor(station)
	if !ok {
		return nil
	}
	np, ok := backend.(radio.NowPlayingProvider)
	if !ok {
		return nil
	}

	uniqueID, err := np.NowPlaying(ctx, station)
	if err != nil {
		return fmt.Errorf("now playing: %w", err)
	}
	if uniqueID == "" {
		// В эфире ничего нет.
		return nil
	}

	track, err := t.media.GetByUniqueID(ctx, station.ID, uniqueID)
	if errors.Is(err, repo.ErrNotFound) {
		// Трек вне медиатеки (live-вставка и т.п.) — не наша забота.
		t.logger.Debug("on-air track not in media library",
			"station", station.ShortName,
			"unique_id", uniqueID,
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve on-air track: %w", err)
	}

	current, err := t.histories.Current(ctx, station.ID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("current history: %w", err)
	}
	if current != nil && current.TrackID == track.ID {
		// Трек не сменился.
		return nil
	}

	return t.recordStarted(ctx, station, track)
}

// QueueStation — ручной feedback о смене трека в эфире станции.
// meta указывает трек по media id либо по song (unique) id.
func (t *NowPlaying) QueueStation(ctx context.Context, station *domain.Station, meta FeedbackMeta) error {
	track, err := t.resolveTrack(ctx, station, meta)
	if err != nil {
		return err
	}
	return t.recordStarted(ctx, station, track)
}

// FeedbackMeta — параметры ручного feedback.
type FeedbackMeta struct {
	// SongID — unique_id трека (приоритет ниже MediaID).
	SongID string

	// MediaID — id записи медиатеки.
	MediaID string

	// PlaylistID — плейлист-источник (пока только для логов).
	PlaylistID string
}

// resolveTrack находит трек медиатеки по метаданным feedback.
func (t *NowPlaying) resolveTrack(ctx context.Context, station *domain.Station, meta FeedbackMeta) (*domain.StationMedia, error) {
	if meta.MediaID != "" {
		id, err := uuid.Parse(meta.MediaID)
		if err != nil {
			return nil, fmt.Errorf("invalid media id %q: %w", meta.MediaID, err)
		}
		track, err := t.media.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve media %s: %w", meta.MediaID, err)
		}
		return track, nil
	}

	if meta.SongID != "" {
		track, err := t.media.GetByUniqueID(ctx, station.ID, meta.SongID)
		if err != nil {
			return nil, fmt.Errorf("resolve song %s: %w", meta.SongID, err)
		}
		return track, nil
	}

	return nil, fmt.Errorf("feedback without song or media id")
}

// recordStarted фиксирует выход трека в эфир: помечает cued-запись
// стартовавшей (или создаёт новую) и публикует событие.
func (t *NowPlaying) recordStarted(ctx context.Context, station *domain.Station, track *domain.StationMedia) error {
	startedAt := time.Now()

	history, err := t.histories.FindCued(ctx, station.ID, track.ID)
	switch {
	case err == nil:
		// Трек ставил планировщик — запись уже есть.
		if err := t.histories.MarkStarted(ctx, history.ID, startedAt); err != nil {
			return fmt.Errorf("mark history started: %w", err)
		}
		history.MarkStarted(startedAt)

	case errors.Is(err, repo.ErrNotFound):
		// Backend поставил трек сам (AutoDJ-ротация).
		history = domain.NewSongHistory(station, track)
		history.MarkStarted(startedAt)
		if err := t.histories.Create(ctx, history); err != nil {
			return fmt.Errorf("create history: %w", err)
		}

	default:
		return fmt.Errorf("find cued history: %w", err)
	}

	t.logger.Info("now playing",
		"station", station.ShortName,
		"song", history.SongText,
	)

	if t.publisher != nil {
		if err := t.publisher.PublishNowPlaying(ctx, mq.NowPlayingPayload{
			StationID: station.ID,
			HistoryID: history.ID,
			TrackID:   track.ID,
			Song:      history.SongText,
			StartedAt: startedAt,
		}); err != nil {
			t.logger.Warn("failed to publish nowplaying",
				"station", station.ShortName,
				"error", err,
			)
		}
	}
	return nil
}
