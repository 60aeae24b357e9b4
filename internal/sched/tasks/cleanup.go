package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// defaultHistoryKeepDays — срок хранения истории по умолчанию.
const defaultHistoryKeepDays = 30

// HistoryCleaner — операция очистки истории.
type HistoryCleaner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// HistoryCleanup удаляет записи истории старше срока хранения.
type HistoryCleanup struct {
	histories HistoryCleaner
	keepDays  int
	logger    *slog.Logger
}

// NewHistoryCleanup создаёт задачу очистки.
// keepDays <= 0 — срок по умолчанию (30 дней).
func NewHistoryCleanup(histories HistoryCleaner, keepDays int, logger *slog.Logger) *HistoryCleanup {
	if keepDays <= 0 {
		keepDays = defaultHistoryKeepDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryCleanup{
		histories: histories,
		keepDays:  keepDays,
		logger:    logger,
	}
}

// Name реализует sched.Task.
func (t *HistoryCleanup) Name() string {
	return "history_cleanup"
}

// Run реализует sched.Task.
func (t *HistoryCleanup) Run(ctx context.Context, _ bool) error {
	cutoff := time.Now().AddDate(0, 0, -t.keepDays)

	deleted, err := t.histories.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete old history: %w", err)
	}

	if deleted > 0 {
		t.logger.Info("cleaned up song history",
			"deleted", deleted,
			"keep_days", t.keepDays,
		)
	}
	return nil
}
