package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/caixa-pdv/internal/application/inventory"
)

var _ inventory.Locker = (*RedisLocker)(nil)

// RedisLocker lock distribuido con redislock. Un solo intento, sin reintentos.
type RedisLocker struct {
	locker *redislock.Client
}

// NewRedisLocker construye el locker sobre el cliente compartido.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{locker: redislock.New(client)}
}

// Lock implementa inventory.Locker.
func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.locker.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, inventory.ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return lock.Release, nil
}
