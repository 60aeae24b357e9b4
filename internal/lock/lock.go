package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrBusy — живая блокировка с таким именем уже захвачена.
// Это ожидаемый исход, а не ошибка инфраструктуры.
var ErrBusy = errors.New("lock busy")

// Lock — захваченная блокировка.
//
// Токен уникален для каждого захвата: Release снимает блокировку
// только если она всё ещё принадлежит этому захвату. Блокировку,
// перехваченную другим процессом после истечения TTL, чужой Release
// не тронет.
type Lock struct {
	// Name — имя блокировки.
	Name string

	// ExpiresAt — время истечения TTL.
	ExpiresAt time.Time

	token uuid.UUID
}

// Store — общее хранилище блокировок.
//
// Реализации: MemStore, PGStore, RedisStore.
type Store interface {
	// TryAcquire атомарно пытается захватить имя с данным токеном.
	// Возвращает false, если живая блокировка уже существует.
	// Ошибка означает недоступность хранилища.
	TryAcquire(ctx context.Context, name string, token uuid.UUID, ttl time.Duration) (bool, error)

	// Release снимает блокировку, если она принадлежит токену.
	// Отсутствующая, истёкшая или чужая блокировка — no-op.
	Release(ctx context.Context, name string, token uuid.UUID) error
}

// Manager выдаёт и снимает именованные блокировки поверх Store.
type Manager struct {
	store  Store
	logger *slog.Logger
}

// NewManager создаёт новый Manager.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// Acquire пытается захватить имя на время ttl.
//
// Возвращает ErrBusy при конкуренции (без ожидания). Любая другая
// ошибка означает недоступность хранилища: гарантировать
// эксклюзивность невозможно, вызывающий код должен прервать работу.
func (m *Manager) Acquire(ctx context.Context, name string, ttl time.Duration) (*Lock, error) {
	token := uuid.New()

	ok, err := m.store.TryAcquire(ctx, name, token, ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire lock %q: %w", name, err)
	}
	if !ok {
		return nil, ErrBusy
	}

	m.logger.Debug("lock acquired", "name", name, "ttl", ttl)

	return &Lock{
		Name:      name,
		ExpiresAt: time.Now().Add(ttl),
		token:     token,
	}, nil
}

// Release снимает блокировку. Идемпотентен: повторное снятие,
// истёкшая или перехваченная блокировка — no-op. nil-блокировка
// тоже no-op, чтобы defer-путь не требовал проверок.
func (m *Manager) Release(ctx context.Context, l *Lock) {
	if l == nil {
		return
	}
	if err := m.store.Release(ctx, l.Name, l.token); err != nil {
		// Блокировка истечёт сама по TTL; достаточно предупреждения.
		m.logger.Warn("failed to release lock", "name", l.Name, "error", err)
		return
	}
	m.logger.Debug("lock released", "name", l.Name)
}
