package sched

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Radiola/internal/domain"
	"github.com/shaiso/Radiola/internal/lock"
)

// Runner выполняет задачи одного яруса под межпроцессной блокировкой.
type Runner struct {
	locks  *lock.Manager
	logger *slog.Logger
	tiers  map[domain.Tier][]Task
}

// Config — конфигурация Runner.
//
// Списки задач фиксируются при сборке процесса; порядок в списке —
// порядок выполнения.
type Config struct {
	Locks  *lock.Manager
	Logger *slog.Logger

	FastTasks       []Task
	MinuteTasks     []Task
	FiveMinuteTasks []Task
	HourlyTasks     []Task
}

// New создаёт новый Runner.
func New(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		locks:  cfg.Locks,
		logger: logger,
		tiers: map[domain.Tier][]Task{
			domain.TierFast:       cfg.FastTasks,
			domain.TierMinute:     cfg.MinuteTasks,
			domain.TierFiveMinute: cfg.FiveMinuteTasks,
			domain.TierHourly:     cfg.HourlyTasks,
		},
	}
}

// RunTier выполняет один вызов яруса.
//
// 1. Захватывает блокировку яруса. Занято — debug-лог и успешный
//    выход (пропущенный запуск не ошибка); force продолжает без
//    блокировки.
// 2. Выполняет задачи яруса по порядку. Ошибки и паники отдельных
//    задач логируются и не прерывают остальные.
// 3. Блокировка снимается в defer — на любом пути выхода.
//
// Ошибку возвращает только недоступность хранилища блокировок:
// без него эксклюзивность гарантировать нельзя, и весь запуск
// яруса прерывается.
func (r *Runner) RunTier(ctx context.Context, tier domain.Tier, force bool) error {
	logger := r.logger.With("tier", tier.String())

	l, err := r.locks.Acquire(ctx, tier.LockName(), tier.LockTTL())
	if err != nil {
		if errors.Is(err, lock.ErrBusy) {
			if !force {
				tierSkips.WithLabelValues(tier.String()).Inc()
				logger.Debug("tier lock busy, skipping run")
				return nil
			}
			logger.Warn("tier lock busy, proceeding without lock (force)")
		} else {
			return fmt.Errorf("tier %s: %w", tier, err)
		}
	}
	defer r.locks.Release(ctx, l)

	tasks := r.tiers[tier]
	start := time.Now()

	var failed int
	for _, task := range tasks {
		if err := r.runTask(ctx, tier, task, force); err != nil {
			failed++
		}
	}

	logger.Info("tier run completed",
		"tasks", len(tasks),
		"failed", failed,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

// runTask выполняет одну задачу, изолируя ошибки и паники.
func (r *Runner) runTask(ctx context.Context, tier domain.Tier, task Task, force bool) (err error) {
	logger := r.logger.With("tier", tier.String(), "task", task.Name())
	start := time.Now()

	outcome := "ok"
	defer func() {
		if p := recover(); p != nil {
			// Программная ошибка задачи не должна валить планировщик.
			err = fmt.Errorf("panic: %v", p)
			outcome = "panic"
		}
		if err != nil && outcome == "ok" {
			outcome = "error"
		}

		elapsed := time.Since(start)
		taskDuration.WithLabelValues(tier.String(), task.Name()).Observe(elapsed.Seconds())
		taskRuns.WithLabelValues(tier.String(), task.Name(), outcome).Inc()

		if err != nil {
			logger.Error("sync task failed",
				"error", err,
				"duration", elapsed.Round(time.Millisecond).String(),
			)
		} else {
			logger.Debug("sync task completed",
				"duration", elapsed.Round(time.Millisecond).String(),
			)
		}
	}()

	return task.Run(ctx, force)
}
