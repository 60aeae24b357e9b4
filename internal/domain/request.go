package domain

import (
	"time"

	"github.com/google/uuid"
)

// StationRequest — заявка слушателя на конкретный трек станции.
//
// Жизненный цикл:
//
//	pending (PlayedAt == nil) → played (PlayedAt задан)
//
// Заявка создаётся внешним контуром приёма заявок и помечается played
// ровно один раз — когда планировщик успешно передал её backend'у.
// Заявки никогда не удаляются sync-задачами.
type StationRequest struct {
	// ID — уникальный идентификатор заявки.
	ID uuid.UUID `json:"id"`

	// StationID — станция, для которой сделана заявка.
	StationID uuid.UUID `json:"station_id"`

	// TrackID — заказанный трек.
	TrackID uuid.UUID `json:"track_id"`

	// Track — загруженный трек (заполняется репозиторием).
	Track *StationMedia `json:"track,omitempty"`

	// PlayedAt — время отправки в эфир. nil, пока заявка не выполнена.
	PlayedAt *time.Time `json:"played_at,omitempty"`

	// CreatedAt — время создания заявки. Используется репозиторием
	// для упорядочивания (oldest-first).
	CreatedAt time.Time `json:"created_at"`
}

// IsPlayed возвращает true, если заявка уже выполнена.
func (r *StationRequest) IsPlayed() bool {
	return r.PlayedAt != nil
}
