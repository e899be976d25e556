package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fabrikline/wholesale-backend/pkg/enums"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
	"github.com/fabrikline/wholesale-backend/pkg/metrics"
)

// RatesFetcher abstracts the upstream provider for tests.
type RatesFetcher interface {
	FetchRates(ctx context.Context, base enums.Currency) (map[enums.Currency]decimal.Decimal, error)
}

// ratesCache is the subset of the redis client used to snapshot the table
// across restarts.
type ratesCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	RatesKey(base string) string
}

// Service owns the rate store and refreshes it from the provider.
type Service struct {
	store    *Store
	provider RatesFetcher
	cache    ratesCache
	logg     *logger.Logger
	metrics  *metrics.RatesMetrics
}

// NewService builds the currency service. Cache is optional.
func NewService(store *Store, provider RatesFetcher, cache ratesCache, logg *logger.Logger, m *metrics.RatesMetrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("rate store required")
	}
	if provider == nil {
		return nil, fmt.Errorf("rates provider required")
	}
	return &Service{
		store:    store,
		provider: provider,
		cache:    cache,
		logg:     logg,
		metrics:  m,
	}, nil
}

// Store exposes the underlying rate store.
func (s *Service) Store() *Store {
	return s.store
}

// Refresh fetches the full table and replaces the store wholesale. A failed
// fetch leaves the previous table untouched and is reported as transient.
func (s *Service) Refresh(ctx context.Context) error {
	rates, err := s.provider.FetchRates(ctx, s.store.Base())
	if err != nil {
		s.metrics.IncFailure()
		if s.logg != nil {
			s.logg.Error(ctx, "exchange rate refresh failed, keeping stale table", err)
		}
		return err
	}

	s.store.Replace(rates)
	s.metrics.IncSuccess()
	s.writeCache(ctx)

	if s.logg != nil {
		s.logg.Info(ctx, "exchange rate table refreshed")
	}
	return nil
}

// Hydrate primes the store from the cached snapshot, if one exists. Used at
// boot so a provider outage does not start the service with an empty table.
func (s *Service) Hydrate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	raw, err := s.cache.Get(ctx, s.cache.RatesKey(string(s.store.Base())))
	if err != nil || raw == "" {
		return
	}

	var snapshot map[enums.Currency]decimal.Decimal
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "discarding unreadable cached rate table")
		}
		return
	}
	if len(snapshot) == 0 {
		return
	}

	s.store.Replace(snapshot)
	if s.logg != nil {
		s.logg.Info(ctx, "exchange rate table hydrated from cache")
	}
}

func (s *Service) writeCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(s.store.Snapshot())
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.RatesKey(string(s.store.Base())), raw, 0); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "caching rate table failed")
	}
}
