package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type fakeRedisStore struct {
	values map[string]string
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}}
}

func (f *fakeRedisStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedisStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return nil
}

func (f *fakeRedisStore) CartKey(namespace, ownerID string) string {
	return "flk:cart:" + namespace + ":" + ownerID
}

func TestRedisStorageRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := &RedisStorage{store: newFakeRedisStore(), ownerID: "owner-1"}

	loaded, err := storage.Load(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(loaded.Items) != 0 {
		t.Fatalf("missing key should load as empty state")
	}

	state := State{Items: []Item{{
		ProductID: uuid.New(),
		SKUCode:   "TEE-M",
		Name:      "Tee",
		Quantity:  4,
		UnitPrice: decimal.RequireFromString("12.50"),
	}}}
	if err := storage.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err = storage.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(loaded.Items))
	}
	if loaded.Items[0].SKUCode != "TEE-M" || loaded.Items[0].Quantity != 4 {
		t.Fatalf("unexpected line %+v", loaded.Items[0])
	}
	if !loaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("price did not round-trip: %s", loaded.Items[0].UnitPrice)
	}
}

func TestRedisStorageIsolatesOwners(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeRedisStore()
	first := &RedisStorage{store: store, ownerID: "owner-1"}
	second := &RedisStorage{store: store, ownerID: "owner-2"}

	if err := first.Save(ctx, State{Items: []Item{{ProductID: uuid.New(), SKUCode: "A", Quantity: 1, UnitPrice: decimal.New(1, 0)}}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Items) != 0 {
		t.Fatalf("owners must not share carts")
	}
}
