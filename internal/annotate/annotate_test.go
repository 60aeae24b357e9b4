package annotate

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/Radiola/internal/domain"
)

func testMedia() *domain.StationMedia {
	return &domain.StationMedia{
		ID:        uuid.New(),
		UniqueID:  "a1b2c3",
		Path:      "/media/song.mp3",
		Title:     "Song",
		Artist:    "Artist",
		LengthSec: 180.5,
	}
}

// --- Annotation Tests ---

func TestAnnotation_URI(t *testing.T) {
	ann := &Annotation{
		Path:   "/media/song.mp3",
		Fields: map[string]string{},
	}
	ann.Set("title", "Song")
	ann.Set("artist", "Artist")
	ann.Set("duration", "180.50")

	// Поля отсортированы по ключу
	want := `annotate:artist="Artist",duration="180.50",title="Song":/media/song.mp3`
	if got := ann.URI(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAnnotation_URI_Deterministic(t *testing.T) {
	ann := &Annotation{
		Path:   "/media/song.mp3",
		Fields: map[string]string{},
	}
	ann.Set("b", "2")
	ann.Set("a", "1")
	ann.Set("c", "3")

	first := ann.URI()
	for i := 0; i < 10; i++ {
		if got := ann.URI(); got != first {
			t.Fatalf("URI should be deterministic: %s != %s", got, first)
		}
	}
}

func TestAnnotation_URI_NoFields(t *testing.T) {
	ann := &Annotation{
		Path:   "/media/song.mp3",
		Fields: map[string]string{},
	}

	// Без полей annotate-обёртка не нужна
	if got := ann.URI(); got != "/media/song.mp3" {
		t.Errorf("expected bare path, got %s", got)
	}
}

func TestAnnotation_URI_QuotesValues(t *testing.T) {
	ann := &Annotation{
		Path:   "/media/song.mp3",
		Fields: map[string]string{},
	}
	ann.Set("title", `Song "Live"`)

	want := `annotate:title="Song \"Live\"":/media/song.mp3`
	if got := ann.URI(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// --- Registry Tests ---

func TestRegistry_Build_MediaFields(t *testing.T) {
	media := testMedia()
	history := &domain.SongHistory{ID: uuid.New(), TrackID: media.ID}

	ann, err := NewRegistry().Build(context.Background(), history, media)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ann.Path != media.Path {
		t.Errorf("expected path %s, got %s", media.Path, ann.Path)
	}
	if ann.Fields["title"] != "Song" {
		t.Errorf("expected title Song, got %s", ann.Fields["title"])
	}
	if ann.Fields["artist"] != "Artist" {
		t.Errorf("expected artist Artist, got %s", ann.Fields["artist"])
	}
	if ann.Fields["duration"] != "180.50" {
		t.Errorf("expected duration 180.50, got %s", ann.Fields["duration"])
	}
	if ann.Fields["song_id"] != media.UniqueID {
		t.Errorf("expected song_id %s, got %s", media.UniqueID, ann.Fields["song_id"])
	}
}

func TestRegistry_Build_RequestFields(t *testing.T) {
	media := testMedia()
	requestID := uuid.New()
	history := &domain.SongHistory{ID: uuid.New(), TrackID: media.ID}
	history.LinkRequest(requestID)

	ann, err := NewRegistry().Build(context.Background(), history, media)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ann.Fields["is_request"] != "true" {
		t.Error("request-sourced track should carry is_request")
	}
	if ann.Fields["request_id"] != requestID.String() {
		t.Errorf("expected request_id %s, got %s", requestID, ann.Fields["request_id"])
	}
}

func TestRegistry_Build_NonRequest(t *testing.T) {
	media := testMedia()
	history := &domain.SongHistory{ID: uuid.New(), TrackID: media.ID}

	ann, err := NewRegistry().Build(context.Background(), history, media)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := ann.Fields["is_request"]; ok {
		t.Error("track without a request must not carry request fields")
	}
}

type overrideAnnotator struct{}

func (*overrideAnnotator) Annotate(_ context.Context, _ *domain.SongHistory, _ *domain.StationMedia, ann *Annotation) error {
	ann.Set("title", "Override")
	return nil
}

func TestRegistry_Register_LaterWins(t *testing.T) {
	media := testMedia()
	history := &domain.SongHistory{ID: uuid.New(), TrackID: media.ID}

	reg := NewRegistry()
	reg.Register(&overrideAnnotator{})

	ann, err := reg.Build(context.Background(), history, media)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Поздняя стратегия переопределяет поле ранней
	if ann.Fields["title"] != "Override" {
		t.Errorf("expected later annotator to win, got %s", ann.Fields["title"])
	}
}
