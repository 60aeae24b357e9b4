// Package telemetry — настройка structured logging (log/slog)
// и общие хелперы контекстных полей логов.
package telemetry
