package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabrikline/wholesale-backend/api/middleware"
	"github.com/fabrikline/wholesale-backend/api/responses"
	"github.com/fabrikline/wholesale-backend/api/validators"
	cartsvc "github.com/fabrikline/wholesale-backend/internal/cart"
	"github.com/fabrikline/wholesale-backend/internal/currency"
	pricingsvc "github.com/fabrikline/wholesale-backend/internal/pricing"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
	"github.com/fabrikline/wholesale-backend/pkg/redis"
)

// CartDeps bundles what the cart endpoints need to assemble a container
// for the authenticated buyer.
type CartDeps struct {
	Redis   *redis.Client
	Pricing pricingsvc.Service
	Rates   *currency.Store
	Logger  *logger.Logger
}

type cartResponse struct {
	Items          []cartsvc.Item  `json:"items"`
	TotalItems     int             `json:"total_items"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	FormattedTotal string          `json:"formatted_total,omitempty"`
}

func (d CartDeps) container(r *http.Request) (*cartsvc.Container, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	storage, err := cartsvc.NewRedisStorage(d.Redis, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building cart storage")
	}
	return cartsvc.NewContainer(r.Context(), storage)
}

func (d CartDeps) respond(w http.ResponseWriter, container *cartsvc.Container) {
	resp := cartResponse{
		Items:      container.Items(),
		TotalItems: container.TotalItems(),
		TotalPrice: container.TotalPrice(),
	}
	if d.Rates != nil {
		resp.FormattedTotal = d.Rates.Format(resp.TotalPrice)
	}
	responses.WriteSuccess(w, resp)
}

// CartGet returns the buyer's current cart.
func CartGet(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		container, err := deps.container(r)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		deps.respond(w, container)
	}
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	SKUCode   string    `json:"sku_code" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Size      string    `json:"size"`
	ImageURL  string    `json:"image_url"`
}

// CartAddItem prices the line through the tier ladder and merges it in.
func CartAddItem(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Pricing == nil {
			responses.WriteError(r.Context(), deps.Logger, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		container, err := deps.container(r)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		quote, err := deps.Pricing.ResolveUnitPrice(r.Context(), payload.SKUCode, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		item := cartsvc.Item{
			ProductID: payload.ProductID,
			SKUCode:   payload.SKUCode,
			Name:      validators.SanitizeString(payload.Name, 200),
			Color:     validators.SanitizeString(payload.Color, 50),
			Size:      validators.SanitizeString(payload.Size, 50),
			Quantity:  payload.Quantity,
			UnitPrice: quote.UnitPrice,
			ImageURL:  validators.SanitizeString(payload.ImageURL, 500),
		}
		if err := container.AddItem(r.Context(), item); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		deps.respond(w, container)
	}
}

type updateCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	SKUCode   string    `json:"sku_code" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
}

// CartUpdateItem sets the quantity on an existing line. A quantity of zero
// keeps the line with a zero count.
func CartUpdateItem(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		container, err := deps.container(r)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		if err := container.UpdateQuantity(r.Context(), payload.ProductID, payload.SKUCode, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		deps.respond(w, container)
	}
}

type removeCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	SKUCode   string    `json:"sku_code" validate:"required"`
}

// CartRemoveItem drops a line from the cart.
func CartRemoveItem(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload removeCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		container, err := deps.container(r)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		if err := container.RemoveItem(r.Context(), payload.ProductID, payload.SKUCode); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		deps.respond(w, container)
	}
}

// CartClear empties the cart and persists the empty snapshot.
func CartClear(deps CartDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		container, err := deps.container(r)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		if err := container.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		deps.respond(w, container)
	}
}
