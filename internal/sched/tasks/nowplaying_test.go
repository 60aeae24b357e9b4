package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Radiola/internal/domain"
)

// --- NowPlaying Poll Tests ---

func TestNowPlaying_MarksCuedHistoryStarted(t *testing.T) {
	station := manualStation("lofi")
	track := testTrack(&station)

	// Планировщик поставил трек, backend вывел его в эфир
	cued := domain.NewSongHistory(&station, track)
	cued.MarkSentToAutoDJ()
	histories := newStubHistories()
	histories.cued = cued

	publisher := &stubPublisher{}
	task := NewNowPlaying(NowPlayingConfig{
		Stations:  &stubStations{list: []domain.Station{station}},
		Histories: histories,
		Media:     &stubMedia{byUnique: map[string]*domain.StationMedia{track.UniqueID: track}},
		Adapters:  &stubResolver{backend: &stubBackend{onAir: track.UniqueID}},
		Publisher: publisher,
		Logger:    testLogger(),
	})

	if err := task.Run(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Существующая cued-запись помечена стартовавшей, дубликат не создан
	if _, ok := histories.started[cued.ID]; !ok {
		t.Error("cued history should be marked started")
	}
	if len(histories.created) != 0 {
		t.Errorf("expected no new history records, got %d", len(histories.created))
	}

	if len(publisher.nowPlaying) != 1 {
		t.Fatalf("expected 1 nowplaying event, got %d", len(publisher.nowPlaying))
	}
	if publisher.nowPlaying[0].TrackID != track.ID {
		t.Error("event should reference the on-air track")
	}
}

func TestNowPlaying_BackendOwnRotation(t *testing.T) {
	station := manualStation("lofi")
	track := testTrack(&station)

	// Backend поставил трек сам — cued-записи нет
	histories := newStubHistories()
	task := NewNowPlaying(NowPlayingConfig{
		Stations:  &stubStations{list: []domain.Station{station}},
		Histories: histories,
		Media:     &stubMedia{byUnique: map[string]*domain.StationMedia{track.UniqueID: track}},
		Adapters:  &stubResolver{backend: &stubBackend{onAir: track.UniqueID}},
		Logger:    testLogger(),
	})

	if err := task.Run(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(histories.created) != 1 {
		t.Fatalf("expected a new history record, got %d", len(histories.created))
	}
	if !histories.created[0].IsStarted() {
		t.Error("new record should be started immediately")
	}
}

func TestNowPlaying_UnchangedTrack(t *testing.T) {
	station := manualStation("lofi")
	track := testTrack(&station)

	// Трек уже числится в эфире
	current := domain.NewSongHistory(&station, track)
	current.MarkStarted(time.Now().Add(-time.Minute))
	histories := newStubHistories()
	histories.current = current

	publisher := &stubPublisher{}
	task := NewNowPlaying(NowPlayingConfig{
		Stations:  &stubStations{list: []domain.Station{station}},
		Histories: histories,
		Media:     &stubMedia{byUnique: map[string]*domain.StationMedia{track.UniqueID: track}},
		Adapters:  &stubResolver{backend: &stubBackend{onAir: track.UniqueID}},
		Publisher: publisher,
		Logger:    testLogger(),
	})

	if err := task.Run(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(histories.created) != 0 || len(histories.started) != 0 {
		t.Error("unchanged track must not touch history")
	}
	if len(publisher.nowPlaying) != 0 {
		t.Error("unchanged track must not emit events")
	}
}

func TestNowPlaying_SilentStation(t *testing.T) {
	station := manualStation("lofi")

	histories := newStubHistories()
	task := NewNowPlaying(NowPlayingConfig{
		Stations:  &stubStations{list: []domain.Station{station}},
		Histories: histories,
		Media:     &stubMedia{},
		Adapters:  &stubResolver{backend: &stubBackend{onAir: ""}},
		Logger:    testLogger(),
	})

	if err := task.Run(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(histories.created) != 0 {
		t.Error("silent station must not produce history")
	}
}

func TestNowPlaying_TrackOutsideLibrary(t *testing.T) {
	station := manualStation("lofi")

	histories := newStubHistories()
	task := NewNowPlaying(NowPlayingConfig{
		Stations:  &stubStations{list: []domain.Station{station}},
		Histories: histories,
		Media:     &stubMedia{},
		Adapters:  &stubResolver{backend: &stubBackend{onAir: "live-insert"}},
		Logger:    testLogger(),
	})

	// Live-вставка вне медиатеки — не ошибка и не история
	if err := task.Run(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(histories.created) != 0 {
		t.Error("unknown tracks must not produce history")
	}
}

// --- Feedback Tests ---

func TestQueueStation_ByMediaID(t *testing.T) {
	station := manualStation("lofi")
	track := testTrack(&station)

	histories := newStubHistories()
	task := NewNowPlaying(NowPlayingConfig{
		Histories: histories,
		Media:     &stubMedia{byID: map[uuid.UUID]*domain.StationMedia{track.ID: track}},
		Logger:    testLogger(),
	})

	err := task.QueueStation(context.Background(), &station, FeedbackMeta{MediaID: track.ID.String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(histories.created) != 1 {
		t.Fatalf("expected a history record, got %d", len(histories.created))
	}
	if histories.created[0].TrackID != track.ID {
		t.Error("record should reference the feedback track")
	}
}

func TestQueueStation_BySongID(t *testing.T) {
	station := manualStation("lofi")
	track := testTrack(&station)

	// Cued-запись от планировщика — feedback помечает её стартовавшей
	cued := domain.NewSongHistory(&station, track)
	cued.MarkSentToAutoDJ()
	histories := newStubHistories()
	histories.cued = cued

	task := NewNowPlaying(NowPlayingConfig{
		Histories: histories,
		Media:     &stubMedia{byUnique: map[string]*domain.StationMedia{track.UniqueID: track}},
		Logger:    testLogger(),
	})

	err := task.QueueStation(context.Background(), &station, FeedbackMeta{SongID: track.UniqueID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := histories.started[cued.ID]; !ok {
		t.Error("cued history should be marked started")
	}
	if len(histories.created) != 0 {
		t.Error("feedback for a cued track must not duplicate history")
	}
}

func TestQueueStation_MediaIDTakesPriority(t *testing.T) {
	station := manualStation("lofi")
	byMedia := testTrack(&station)
	bySong := testTrack(&station)
	bySong.UniqueID = "other"

	histories := newStubHistories()
	task := NewNowPlaying(NowPlayingConfig{
		Histories: histories,
		Media: &stubMedia{
			byID:     map[uuid.UUID]*domain.StationMedia{byMedia.ID: byMedia},
			byUnique: map[string]*domain.StationMedia{bySong.UniqueID: bySong},
		},
		Logger: testLogger(),
	})

	err := task.QueueStation(context.Background(), &station, FeedbackMeta{
		MediaID: byMedia.ID.String(),
		SongID:  bySong.UniqueID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if histories.created[0].TrackID != byMedia.ID {
		t.Error("media id should take priority over song id")
	}
}

func TestQueueStation_InvalidMeta(t *testing.T) {
	station := manualStation("lofi")
	task := NewNowPlaying(NowPlayingConfig{
		Histories: newStubHistories(),
		Media:     &stubMedia{},
		Logger:    testLogger(),
	})

	if err := task.QueueStation(context.Background(), &station, FeedbackMeta{}); err == nil {
		t.Error("expected error for feedback without track identity")
	}

	err := task.QueueStation(context.Background(), &station, FeedbackMeta{MediaID: "not-a-uuid"})
	if err == nil {
		t.Error("expected error for malformed media id")
	}
}

func TestQueueStation_UnknownTrack(t *testing.T) {
	station := manualStation("lofi")
	task := NewNowPlaying(NowPlayingConfig{
		Histories: newStubHistories(),
		Media:     &stubMedia{},
		Logger:    testLogger(),
	})

	err := task.QueueStation(context.Background(), &station, FeedbackMeta{SongID: "missing"})
	if err == nil {
		t.Error("expected error for a track outside the library")
	}
}
