// Package sched реализует ярусный планировщик sync-задач.
//
// Задачи сгруппированы в четыре фиксированных яруса
// (fast/minute/five_minute/hourly). Внешний триггер (cron) вызывает
// Runner.RunTier один раз на ярус на тик; сам Runner периодичности
// не знает.
//
// Гарантии одного вызова RunTier:
//   - межпроцессная эксклюзивность яруса через lock.Manager
//     (занятый ярус — пропуск, не ошибка);
//   - задачи выполняются последовательно в объявленном порядке;
//   - ошибка или паника одной задачи не прерывает остальные;
//   - блокировка снимается на любом пути выхода;
//   - наружу эскалирует только недоступность хранилища блокировок.
package sched
