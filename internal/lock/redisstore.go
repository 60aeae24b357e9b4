package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix — пространство имён ключей блокировок в Redis.
const keyPrefix = "radiola:lock:"

// releaseScript атомарно удаляет ключ, только если он всё ещё
// принадлежит токену (compare-and-delete).
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore — хранилище блокировок в Redis.
//
// Захват — SET NX PX: ключ создаётся только при отсутствии, TTL
// обеспечивается самим Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создаёт новый RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// TryAcquire реализует Store.
func (s *RedisStore) TryAcquire(ctx context.Context, name string, token uuid.UUID, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, keyPrefix+name, token.String(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("try acquire: %w", err)
	}
	return ok, nil
}

// Release реализует Store.
func (s *RedisStore) Release(ctx context.Context, name string, token uuid.UUID) error {
	if err := releaseScript.Run(ctx, s.client, []string{keyPrefix + name}, token.String()).Err(); err != nil {
		return fmt.Errorf("release: %w", err)
	}
	return nil
}
