package annotate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shaiso/Radiola/internal/domain"
)

// Annotation — метаданные трека для постановки в очередь backend'а.
//
// Сериализуется в Liquidsoap annotate-URI:
//
//	annotate:artist="...",duration="180.00",title="...":/path/to.mp3
type Annotation struct {
	// Path — путь к файлу трека.
	Path string

	// Fields — пары ключ/значение аннотации.
	Fields map[string]string
}

// Set задаёт поле аннотации.
func (a *Annotation) Set(key, value string) {
	a.Fields[key] = value
}

// URI сериализует аннотацию в annotate-URI.
// Поля сортируются по ключу — вывод детерминирован.
func (a *Annotation) URI() string {
	if len(a.Fields) == 0 {
		return a.Path
	}

	keys := make([]string, 0, len(a.Fields))
	for k := range a.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%q", k, a.Fields[k])
	}
	return "annotate:" + strings.Join(pairs, ",") + ":" + a.Path
}

// Annotator — стратегия, дополняющая аннотацию полями.
//
// Реализации по умолчанию: MediaAnnotator, RequestAnnotator.
// Другие модули подключают свои стратегии через Registry.Register.
type Annotator interface {
	Annotate(ctx context.Context, history *domain.SongHistory, media *domain.StationMedia, ann *Annotation) error
}

// Registry — упорядоченный набор стратегий аннотирования.
// Стратегии применяются в порядке регистрации; поздняя может
// переопределить поле ранней.
type Registry struct {
	annotators []Annotator
}

// NewRegistry создаёт Registry со стратегиями по умолчанию.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(&MediaAnnotator{})
	r.Register(&RequestAnnotator{})
	return r
}

// Register добавляет стратегию в конец цепочки.
func (r *Registry) Register(a Annotator) {
	r.annotators = append(r.annotators, a)
}

// Build строит аннотацию для записи истории.
// media — трек записи (история хранит только ссылку).
func (r *Registry) Build(ctx context.Context, history *domain.SongHistory, media *domain.StationMedia) (*Annotation, error) {
	ann := &Annotation{
		Path:   media.Path,
		Fields: make(map[string]string),
	}

	for _, a := range r.annotators {
		if err := a.Annotate(ctx, history, media, ann); err != nil {
			return nil, fmt.Errorf("annotate: %w", err)
		}
	}
	return ann, nil
}

// MediaAnnotator заполняет базовые поля трека.
type MediaAnnotator struct{}

// Annotate реализует Annotator.
func (*MediaAnnotator) Annotate(_ context.Context, _ *domain.SongHistory, media *domain.StationMedia, ann *Annotation) error {
	ann.Set("title", media.Title)
	ann.Set("artist", media.Artist)
	ann.Set("duration", fmt.Sprintf("%.2f", media.LengthSec))
	ann.Set("song_id", media.UniqueID)
	return nil
}

// RequestAnnotator помечает треки, поставленные по заявке слушателя.
type RequestAnnotator struct{}

// Annotate реализует Annotator.
func (*RequestAnnotator) Annotate(_ context.Context, history *domain.SongHistory, _ *domain.StationMedia, ann *Annotation) error {
	if history.RequestID == nil {
		return nil
	}
	ann.Set("request_id", history.RequestID.String())
	ann.Set("is_request", "true")
	return nil
}
