package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore — in-memory хранилище блокировок.
//
// Не разделяется между процессами: подходит для тестов и для
// single-node установки, где все ярусы обслуживает один процесс.
type MemStore struct {
	mu    sync.Mutex
	locks map[string]memLock
	now   func() time.Time
}

type memLock struct {
	token     uuid.UUID
	expiresAt time.Time
}

// NewMemStore создаёт новый MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		locks: make(map[string]memLock),
		now:   time.Now,
	}
}

// TryAcquire реализует Store.
func (s *MemStore) TryAcquire(_ context.Context, name string, token uuid.UUID, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.locks[name]; ok && existing.expiresAt.After(now) {
		return false, nil
	}

	s.locks[name] = memLock{
		token:     token,
		expiresAt: now.Add(ttl),
	}
	return true, nil
}

// Release реализует Store.
func (s *MemStore) Release(_ context.Context, name string, token uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.locks[name]; ok && existing.token == token {
		delete(s.locks, name)
	}
	return nil
}
