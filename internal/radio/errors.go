package radio

import "errors"

// Ошибки backend-адаптеров.
var (
	// ErrUnreachable — backend недоступен (dial/таймаут/обрыв).
	ErrUnreachable = errors.New("backend unreachable")

	// ErrRejected — backend принял соединение, но отверг команду.
	ErrRejected = errors.New("backend rejected command")
)
