package domain

import (
	"fmt"
	"time"
)

// Tier — ярус планировщика: фиксированная группа задач,
// выполняемых с одной периодичностью.
type Tier string

// Ярусы. Списки задач каждого яруса собираются при старте процесса.
const (
	// TierFast — каждые 15 секунд (now-playing и прочая "живая" синхронизация).
	TierFast Tier = "fast"

	// TierMinute — каждую минуту (отправка заявок и т.п.).
	TierMinute Tier = "minute"

	// TierFiveMinute — каждые 5 минут.
	TierFiveMinute Tier = "five_minute"

	// TierHourly — каждый час (очистка истории, аналитика).
	TierHourly Tier = "hourly"
)

// Tiers — все ярусы в порядке возрастания периода.
var Tiers = []Tier{TierFast, TierMinute, TierFiveMinute, TierHourly}

// ParseTier парсит имя яруса.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFast, TierMinute, TierFiveMinute, TierHourly:
		return Tier(s), nil
	default:
		return "", fmt.Errorf("unknown tier %q", s)
	}
}

// String возвращает имя яруса.
func (t Tier) String() string {
	return string(t)
}

// LockName возвращает имя межпроцессной блокировки яруса.
func (t Tier) LockName() string {
	return "sync_" + string(t)
}

// LockTTL возвращает TTL блокировки яруса.
//
// TTL заметно больше периода яруса: блокировка зависшего процесса
// истечёт сама и ярус снова станет доступен. Обратная сторона —
// задача, работающая дольше TTL, допускает теоретический двойной
// запуск; это принятый компромисс в пользу liveness.
func (t Tier) LockTTL() time.Duration {
	switch t {
	case TierFast:
		return time.Minute
	case TierMinute:
		return 5 * time.Minute
	case TierFiveMinute:
		return 15 * time.Minute
	case TierHourly:
		return 2 * time.Hour
	default:
		return time.Minute
	}
}

// CronSpec возвращает cron-выражение (с секундами) для внешнего триггера.
func (t Tier) CronSpec() string {
	switch t {
	case TierFast:
		return "*/15 * * * * *"
	case TierMinute:
		return "0 * * * * *"
	case TierFiveMinute:
		return "0 */5 * * * *"
	case TierHourly:
		return "0 0 * * * *"
	default:
		return "0 * * * * *"
	}
}
