package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fabrikline/wholesale-backend/api/responses"
	"github.com/fabrikline/wholesale-backend/api/validators"
	pricingsvc "github.com/fabrikline/wholesale-backend/internal/pricing"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

// PricingQuote resolves the unit price for a SKU at a quantity.
func PricingQuote(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		skuCode := validators.ParseQueryString(r, "sku")
		if skuCode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sku is required"))
			return
		}

		qty, err := validators.ParseQueryInt(r, "qty", 0, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.ResolveUnitPrice(r.Context(), skuCode, qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

type replaceTiersRequest struct {
	Tiers []pricingsvc.TierInput `json:"tiers" validate:"required,dive"`
}

// AdminReplaceTiers swaps a SKU's volume tier ladder wholesale.
func AdminReplaceTiers(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		skuCode := strings.TrimSpace(chi.URLParam(r, "skuCode"))
		if skuCode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sku code is required"))
			return
		}

		var payload replaceTiersRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sku, err := svc.ReplaceTiers(r.Context(), skuCode, payload.Tiers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sku)
	}
}
