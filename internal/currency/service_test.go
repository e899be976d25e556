package currency

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/fabrikline/wholesale-backend/pkg/enums"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
)

type stubFetcher struct {
	rates map[enums.Currency]decimal.Decimal
	err   error
	calls int
}

func (s *stubFetcher) FetchRates(_ context.Context, _ enums.Currency) (map[enums.Currency]decimal.Decimal, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rates, nil
}

type stubRatesCache struct {
	values map[string]string
}

func newStubRatesCache() *stubRatesCache {
	return &stubRatesCache{values: map[string]string{}}
}

func (s *stubRatesCache) Get(_ context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (s *stubRatesCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if raw, ok := value.([]byte); ok {
		s.values[key] = string(raw)
	}
	return nil
}

func (s *stubRatesCache) RatesKey(base string) string {
	return "flk:rates:" + base
}

func TestRefreshReplacesTable(t *testing.T) {
	t.Parallel()

	store := NewStore(enums.CurrencyUSD)
	fetcher := &stubFetcher{rates: map[enums.Currency]decimal.Decimal{
		enums.CurrencyEUR: decimal.RequireFromString("0.9"),
	}}

	svc, err := NewService(store, fetcher, nil, nil, nil)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !store.Rate(enums.CurrencyEUR).Equal(decimal.RequireFromString("0.9")) {
		t.Fatalf("refresh should install fetched rates")
	}
}

func TestRefreshFailureKeepsStaleTable(t *testing.T) {
	t.Parallel()

	store := NewStore(enums.CurrencyUSD)
	store.Replace(map[enums.Currency]decimal.Decimal{
		enums.CurrencyEUR: decimal.RequireFromString("0.9"),
	})

	fetcher := &stubFetcher{err: pkgerrors.New(pkgerrors.CodeDependency, "provider unreachable")}
	svc, err := NewService(store, fetcher, nil, nil, nil)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	refreshErr := svc.Refresh(context.Background())
	if refreshErr == nil {
		t.Fatalf("expected refresh error")
	}
	coded := pkgerrors.As(refreshErr)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected transient dependency error, got %v", refreshErr)
	}
	if !pkgerrors.IsRetryable(refreshErr) {
		t.Fatalf("dependency errors must be retryable")
	}
	if !store.Rate(enums.CurrencyEUR).Equal(decimal.RequireFromString("0.9")) {
		t.Fatalf("failed refresh must not touch the table")
	}
}

func TestRefreshWritesCacheAndHydrateReads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newStubRatesCache()

	store := NewStore(enums.CurrencyUSD)
	fetcher := &stubFetcher{rates: map[enums.Currency]decimal.Decimal{
		enums.CurrencyGBP: decimal.RequireFromString("0.8"),
	}}
	svc, err := NewService(store, fetcher, cache, nil, nil)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	raw, ok := cache.values[cache.RatesKey("USD")]
	if !ok {
		t.Fatalf("refresh should snapshot the table to cache")
	}
	var snapshot map[string]string
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		t.Fatalf("cached snapshot should be JSON: %v", err)
	}

	// a fresh service with a broken provider recovers the table from cache
	fresh := NewStore(enums.CurrencyUSD)
	recovered, err := NewService(fresh, &stubFetcher{err: pkgerrors.New(pkgerrors.CodeDependency, "down")}, cache, nil, nil)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	recovered.Hydrate(ctx)

	if !fresh.Rate(enums.CurrencyGBP).Equal(decimal.RequireFromString("0.8")) {
		t.Fatalf("hydrate should restore cached rates")
	}
}
