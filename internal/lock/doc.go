// Package lock реализует именованные межпроцессные блокировки с TTL.
//
// Блокировки разделяются всеми процессами планировщика через общее
// хранилище (Store). Захват атомарный и неблокирующий: если живая
// блокировка с тем же именем существует, Acquire сразу возвращает
// ErrBusy — очереди ожидания нет.
//
// TTL гарантирует, что блокировка упавшего или зависшего держателя
// станет доступной после истечения срока. Обратная сторона: задача,
// работающая дольше TTL, допускает теоретический двойной запуск.
//
// Хранилища:
//   - MemStore   — in-memory (тесты, single-node)
//   - PGStore    — PostgreSQL (общая БД планировщика)
//   - RedisStore — Redis (SET NX PX)
//
// Использование:
//
//	mgr := lock.NewManager(store, logger)
//
//	l, err := mgr.Acquire(ctx, "sync_minute", 5*time.Minute)
//	if errors.Is(err, lock.ErrBusy) {
//	    return nil // кто-то уже работает
//	}
//	if err != nil {
//	    return err // хранилище недоступно
//	}
//	defer mgr.Release(ctx, l)
package lock
