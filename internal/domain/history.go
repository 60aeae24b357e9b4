package domain

import (
	"time"

	"github.com/google/uuid"
)

// SongHistory — долговечная запись о том, что трек был поставлен
// в очередь воспроизведения станции.
//
// Инвариант: на пару (station, request) существует не более одной
// записи. Это якорь идемпотентности отправки заявок: если задача
// выполнится дважды до того, как заявка помечена played, вторая
// попытка найдёт существующую запись и не создаст дубликат.
//
// После создания запись не изменяется, кроме отметки о старте
// воспроизведения (TimestampStart) из now-playing контура.
type SongHistory struct {
	// ID — уникальный идентификатор записи.
	ID uuid.UUID `json:"id"`

	// StationID — станция, для которой поставлен трек.
	StationID uuid.UUID `json:"station_id"`

	// RequestID — заявка-источник, если трек поставлен по заявке.
	RequestID *uuid.UUID `json:"request_id,omitempty"`

	// TrackID — поставленный трек.
	TrackID uuid.UUID `json:"track_id"`

	// SongText — отображаемое название на момент постановки
	// (денормализовано: медиатека может измениться позже).
	SongText string `json:"song_text"`

	// TimestampCued — время постановки в очередь.
	TimestampCued time.Time `json:"timestamp_cued"`

	// SentToAutoDJ — трек передан AutoDJ backend'у.
	SentToAutoDJ bool `json:"sent_to_autodj"`

	// TimestampStart — время фактического начала воспроизведения.
	// nil, пока backend не вывел трек в эфир.
	TimestampStart *time.Time `json:"timestamp_start,omitempty"`
}

// NewSongHistory создаёт запись для трека, поставленного в очередь сейчас.
func NewSongHistory(station *Station, track *StationMedia) *SongHistory {
	return &SongHistory{
		ID:            uuid.New(),
		StationID:     station.ID,
		TrackID:       track.ID,
		SongText:      track.Song(),
		TimestampCued: time.Now(),
	}
}

// LinkRequest связывает запись с заявкой-источником.
func (h *SongHistory) LinkRequest(requestID uuid.UUID) {
	h.RequestID = &requestID
}

// MarkSentToAutoDJ отмечает, что трек передан backend'у.
func (h *SongHistory) MarkSentToAutoDJ() {
	h.SentToAutoDJ = true
}

// MarkStarted отмечает фактический старт воспроизведения.
func (h *SongHistory) MarkStarted(at time.Time) {
	h.TimestampStart = &at
}

// IsStarted возвращает true, если трек уже выходил в эфир.
func (h *SongHistory) IsStarted() bool {
	return h.TimestampStart != nil
}
