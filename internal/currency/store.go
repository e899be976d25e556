package currency

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fabrikline/wholesale-backend/pkg/enums"
)

// Store holds the exchange rate table relative to the base currency and the
// currently selected display currency. The base currency always carries
// rate 1 and survives every replace.
type Store struct {
	mu       sync.RWMutex
	base     enums.Currency
	selected enums.Currency
	rates    map[enums.Currency]decimal.Decimal
}

// NewStore builds a store seeded with the base currency at rate 1.
func NewStore(base enums.Currency) *Store {
	return &Store{
		base:     base,
		selected: base,
		rates: map[enums.Currency]decimal.Decimal{
			base: decimal.New(1, 0),
		},
	}
}

// Base returns the fixed base currency.
func (s *Store) Base() enums.Currency {
	return s.base
}

// Selected returns the current display currency.
func (s *Store) Selected() enums.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Select switches the display currency.
func (s *Store) Select(code enums.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = code
}

// Replace swaps the rate table wholesale. The base currency is reasserted
// at rate 1 regardless of the incoming table.
func (s *Store) Replace(rates map[enums.Currency]decimal.Decimal) {
	next := make(map[enums.Currency]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		next[code] = rate
	}
	next[s.base] = decimal.New(1, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = next
}

// Rate returns the rate for the given currency, failing open to 1 when the
// table has no entry.
func (s *Store) Rate(code enums.Currency) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rate, ok := s.rates[code]; ok {
		return rate
	}
	return decimal.New(1, 0)
}

// Convert renders a base-currency amount in the selected display currency.
func (s *Store) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.Rate(s.Selected()))
}

// ConvertTo renders a base-currency amount in an explicit currency.
func (s *Store) ConvertTo(amount decimal.Decimal, code enums.Currency) decimal.Decimal {
	return amount.Mul(s.Rate(code))
}

// Snapshot returns a copy of the current table.
func (s *Store) Snapshot() map[enums.Currency]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[enums.Currency]decimal.Decimal, len(s.rates))
	for code, rate := range s.rates {
		out[code] = rate
	}
	return out
}
