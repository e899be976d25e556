package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fabrikline/wholesale-backend/pkg/enums"
)

var printer = message.NewPrinter(language.English)

// Format converts a base-currency amount into the selected display currency
// and renders it with the currency symbol.
func (s *Store) Format(amount decimal.Decimal) string {
	code := s.Selected()
	return FormatIn(s.Convert(amount), code)
}

// FormatIn renders an amount already expressed in the given currency.
func FormatIn(amount decimal.Decimal, code enums.Currency) string {
	unit, err := xcurrency.ParseISO(string(code))
	if err != nil {
		return fmt.Sprintf("%s %s", code, amount.StringFixed(2))
	}
	value, _ := amount.Round(2).Float64()
	return printer.Sprintf("%v", xcurrency.Symbol(unit.Amount(value)))
}
