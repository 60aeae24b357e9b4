package sched

import "context"

// Task — единица работы планировщика.
//
// Runner обращается со всеми задачами одинаково через этот контракт,
// независимо от их назначения. Реализации не должны паниковать, но
// Runner на всякий случай изолирует и паники.
type Task interface {
	// Name — имя задачи для логов и метрик.
	Name() string

	// Run выполняет задачу. force=true — ручной запуск оператором:
	// задача может ослабить собственные предусловия.
	Run(ctx context.Context, force bool) error
}
