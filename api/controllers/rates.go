package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fabrikline/wholesale-backend/api/responses"
	"github.com/fabrikline/wholesale-backend/api/validators"
	"github.com/fabrikline/wholesale-backend/internal/currency"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

type ratesResponse struct {
	Base     enums.Currency                     `json:"base"`
	Selected enums.Currency                     `json:"selected"`
	Rates    map[enums.Currency]decimal.Decimal `json:"rates"`
}

// ExchangeRatesGet serves the current conversion table.
func ExchangeRatesGet(store *currency.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate store unavailable"))
			return
		}

		responses.WriteSuccess(w, ratesResponse{
			Base:     store.Base(),
			Selected: store.Selected(),
			Rates:    store.Snapshot(),
		})
	}
}

type selectCurrencyRequest struct {
	Currency string `json:"currency" validate:"required"`
}

// ExchangeRateSelect changes the display currency used for conversions.
func ExchangeRateSelect(store *currency.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate store unavailable"))
			return
		}

		var body selectCurrencyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code, err := enums.ParseCurrency(body.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported currency"))
			return
		}

		store.Select(code)
		responses.WriteSuccess(w, ratesResponse{
			Base:     store.Base(),
			Selected: store.Selected(),
			Rates:    store.Snapshot(),
		})
	}
}

type convertResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  enums.Currency  `json:"currency"`
	Converted decimal.Decimal `json:"converted"`
	Formatted string          `json:"formatted"`
}

// ExchangeRateConvert converts a base-currency amount into a display currency.
func ExchangeRateConvert(store *currency.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate store unavailable"))
			return
		}

		rawAmount := validators.ParseQueryString(r, "amount")
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal number"))
			return
		}

		code := store.Selected()
		if rawTo := validators.ParseQueryString(r, "to"); rawTo != "" {
			parsed, err := enums.ParseCurrency(rawTo)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported currency"))
				return
			}
			code = parsed
		}

		converted := store.ConvertTo(amount, code)
		responses.WriteSuccess(w, convertResponse{
			Amount:    amount,
			Currency:  code,
			Converted: converted,
			Formatted: currency.FormatIn(converted, code),
		})
	}
}
