package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/redis"
)

// redisStore is the subset of the redis client the cart storage needs.
type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(namespace, ownerID string) string
}

// RedisStorage persists the snapshot as JSON in Redis, keyed per owner under
// the fixed cart namespace. Snapshots do not expire.
type RedisStorage struct {
	store   redisStore
	ownerID string
}

var _ Storage = (*RedisStorage)(nil)

func NewRedisStorage(client *redis.Client, ownerID string) (*RedisStorage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ownerID == "" {
		return nil, fmt.Errorf("owner id required")
	}
	return &RedisStorage{store: client, ownerID: ownerID}, nil
}

func (r *RedisStorage) Load(ctx context.Context) (State, error) {
	raw, err := r.store.Get(ctx, r.store.CartKey(StorageNamespace, r.ownerID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return State{}, nil
		}
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart snapshot")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding cart snapshot")
	}
	return state, nil
}

func (r *RedisStorage) Save(ctx context.Context, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart snapshot")
	}
	if err := r.store.Set(ctx, r.store.CartKey(StorageNamespace, r.ownerID), raw, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart snapshot")
	}
	return nil
}
