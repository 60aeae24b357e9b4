package domain

import (
	"time"

	"github.com/google/uuid"
)

// BackendType — тип automation backend станции.
type BackendType string

const (
	// BackendLiquidsoap — станция управляется Liquidsoap AutoDJ.
	BackendLiquidsoap BackendType = "liquidsoap"

	// BackendNone — станция без automation backend (ручное вещание).
	BackendNone BackendType = "none"
)

// Station — одна управляемая радиостанция.
//
// Станция создаётся и настраивается через внешний контур (панель
// управления); sync-задачи читают её состояние и не изменяют его.
type Station struct {
	// ID — уникальный идентификатор станции.
	ID uuid.UUID `json:"id"`

	// Name — отображаемое имя станции.
	Name string `json:"name"`

	// ShortName — короткое имя для телнет-команд backend'а
	// и служебных идентификаторов. Пример: "lofi_24_7".
	ShortName string `json:"short_name"`

	// BackendType — тип automation backend.
	BackendType BackendType `json:"backend_type"`

	// BackendHost и BackendPort — адрес телнет-интерфейса backend'а.
	BackendHost string `json:"backend_host"`
	BackendPort int    `json:"backend_port"`

	// EnableRequests — разрешены ли заявки слушателей.
	EnableRequests bool `json:"enable_requests"`

	// UseManualAutoDJ — режим ручной отправки заявок.
	// Если true, backend НЕ подбирает заявки сам: их проталкивает
	// sync-задача RadioRequests. Если false, заявки обрабатывает
	// сам backend, и планировщик станцию не трогает.
	UseManualAutoDJ bool `json:"use_manual_autodj"`

	// CreatedAt — время создания станции.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAutoDJ возвращает true, если у станции есть AutoDJ-способный backend.
func (s *Station) HasAutoDJ() bool {
	return s.BackendType == BackendLiquidsoap
}
