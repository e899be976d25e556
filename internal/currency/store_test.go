package currency

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fabrikline/wholesale-backend/pkg/enums"
)

func TestStoreBaseAlwaysRateOne(t *testing.T) {
	t.Parallel()

	store := NewStore(enums.CurrencyUSD)

	if !store.Rate(enums.CurrencyUSD).Equal(decimal.New(1, 0)) {
		t.Fatalf("fresh store must carry base at rate 1")
	}

	// replace omitting the base, and even trying to override it
	store.Replace(map[enums.Currency]decimal.Decimal{
		enums.CurrencyEUR: decimal.RequireFromString("0.9"),
		enums.CurrencyUSD: decimal.RequireFromString("2"),
	})

	if !store.Rate(enums.CurrencyUSD).Equal(decimal.New(1, 0)) {
		t.Fatalf("base rate must stay pinned at 1 across replaces")
	}
	if !store.Rate(enums.CurrencyEUR).Equal(decimal.RequireFromString("0.9")) {
		t.Fatalf("replace should install incoming rates")
	}
}

func TestStoreReplaceIsWholesale(t *testing.T) {
	t.Parallel()

	store := NewStore(enums.CurrencyUSD)
	store.Replace(map[enums.Currency]decimal.Decimal{
		enums.CurrencyEUR: decimal.RequireFromString("0.9"),
		enums.CurrencyGBP: decimal.RequireFromString("0.8"),
	})
	store.Replace(map[enums.Currency]decimal.Decimal{
		enums.CurrencyEUR: decimal.RequireFromString("0.95"),
	})

	if !store.Rate(enums.CurrencyEUR).Equal(decimal.RequireFromString("0.95")) {
		t.Fatalf("second replace should win")
	}
	// GBP dropped from the table, so lookups fail open
	if !store.Rate(enums.CurrencyGBP).Equal(decimal.New(1, 0)) {
		t.Fatalf("dropped currency must fail open to rate 1")
	}
}

func TestStoreConvertUsesSelectedCurrency(t *testing.T) {
	t.Parallel()

	store := NewStore(enums.CurrencyUSD)
	store.Replace(map[enums.Currency]decimal.Decimal{
		enums.CurrencyEUR: decimal.RequireFromString("0.5"),
	})

	amount := decimal.RequireFromString("100")

	if got := store.Convert(amount); !got.Equal(amount) {
		t.Fatalf("base selection should convert 1:1, got %s", got)
	}

	store.Select(enums.CurrencyEUR)
	if got := store.Convert(amount); !got.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected 50 EUR, got %s", got)
	}

	// unknown selected currency fails open
	store.Select(enums.CurrencyJPY)
	if got := store.Convert(amount); !got.Equal(amount) {
		t.Fatalf("unknown currency must convert at rate 1, got %s", got)
	}
}

func TestFormatInFallsBackForUnknownISO(t *testing.T) {
	t.Parallel()

	got := FormatIn(decimal.RequireFromString("12.5"), enums.Currency("ZZZ"))
	if got != "ZZZ 12.50" {
		t.Fatalf("unexpected fallback rendering %q", got)
	}
}

func TestFormatInRendersSymbol(t *testing.T) {
	t.Parallel()

	got := FormatIn(decimal.RequireFromString("1234.5"), enums.CurrencyUSD)
	if !strings.Contains(got, "$") {
		t.Fatalf("expected dollar symbol in %q", got)
	}
}
