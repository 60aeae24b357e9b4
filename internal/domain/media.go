package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// StationMedia — трек из медиатеки станции.
//
// Медиатека принадлежит внешнему контуру (сканер файлов); sync-задачи
// только читают треки по ссылкам из заявок.
type StationMedia struct {
	// ID — уникальный идентификатор трека.
	ID uuid.UUID `json:"id"`

	// StationID — станция, которой принадлежит трек.
	StationID uuid.UUID `json:"station_id"`

	// UniqueID — стабильный идентификатор содержимого файла.
	// Используется для сопоставления on-air метаданных backend'а
	// с записями медиатеки.
	UniqueID string `json:"unique_id"`

	// Path — путь к файлу относительно корня медиатеки станции.
	Path string `json:"path"`

	// Title и Artist — теги трека.
	Title  string `json:"title"`
	Artist string `json:"artist"`

	// LengthSec — длительность трека в секундах.
	LengthSec float64 `json:"length_sec"`
}

// Song возвращает отображаемое название в формате "Artist - Title".
func (m *StationMedia) Song() string {
	if m.Artist == "" {
		return m.Title
	}
	return fmt.Sprintf("%s - %s", m.Artist, m.Title)
}
