package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
)

const defaultLockTTL = 2 * time.Hour

// Lock coordinates exclusive runner cycles across instances.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// lockStore is the slice of the redis client used by RedisLock.
type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock holds a SETNX lease under a namespaced key. The TTL bounds how
// long a crashed holder can block other instances.
type RedisLock struct {
	store lockStore
	key   string
	ttl   time.Duration
	lease string
}

// NewRedisLock builds a lock on the given namespaced key.
func NewRedisLock(store lockStore, key string, ttl time.Duration) (*RedisLock, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "lock store required")
	}
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "lock key required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{store: store, key: key, ttl: ttl}, nil
}

// Acquire claims the lease for the configured TTL.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	lease := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, lease, l.ttl)
	if err != nil {
		return false, fmt.Errorf("claim job lock: %w", err)
	}
	if ok {
		l.lease = lease
	}
	return ok, nil
}

// Release frees the lease unless another instance has taken it over.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.lease == "" {
		return nil
	}
	current, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			l.lease = ""
			return nil
		}
		return fmt.Errorf("read job lock: %w", err)
	}
	if current != l.lease {
		l.lease = ""
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("release job lock: %w", err)
	}
	l.lease = ""
	return nil
}
