// Package tasks содержит конкретные sync-задачи Radiola.
//
// Каждая задача реализует sched.Task и получает коллабораторов
// (репозитории, backend-резолвер, publisher) явными параметрами
// конструктора. Коллабораторы описаны интерфейсами в этом пакете —
// потребитель объявляет то, что потребляет; боевые реализации
// живут в internal/repo, internal/radio и internal/mq.
//
// Задачи:
//   - RadioRequests  — отправка заявок слушателей в AutoDJ (minute)
//   - NowPlaying     — отслеживание эфира и ручной feedback (fast)
//   - HistoryCleanup — очистка старой истории (hourly)
//   - Analytics      — метрики очереди заявок (hourly)
package tasks
