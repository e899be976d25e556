package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
)

// TierInput is one volume break supplied by an admin write.
type TierInput struct {
	MinQty int             `json:"min_qty" validate:"required,gt=0"`
	Price  decimal.Decimal `json:"price" validate:"required"`
}

// Quote is the resolved price for a SKU at a requested quantity.
type Quote struct {
	SKUCode   string          `json:"sku_code"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	// TierMinQty is zero when the base price applied.
	TierMinQty int `json:"tier_min_qty,omitempty"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service resolves unit prices against a SKU's volume tiers.
type Service interface {
	ResolveUnitPrice(ctx context.Context, skuCode string, qty int) (*Quote, error)
	ReplaceTiers(ctx context.Context, skuCode string, tiers []TierInput) (*models.ProductSKU, error)
}

type service struct {
	repo SKURepository
	tx   txRunner
}

// NewService builds a pricing service backed by the provided repository.
func NewService(repo SKURepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sku repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// ResolveUnitPrice applies the highest tier whose minimum quantity is within
// the requested quantity, falling back to the SKU base price.
func (s *service) ResolveUnitPrice(ctx context.Context, skuCode string, qty int) (*Quote, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, fmt.Sprintf("quantity %d is not a positive integer", qty))
	}

	sku, err := s.repo.GetSKUByCode(ctx, skuCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("sku %q not found", skuCode))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sku")
	}

	unit := sku.BasePrice
	tierMin := 0
	if tier := selectTier(qty, sku.Tiers); tier != nil {
		unit = tier.UnitPrice
		tierMin = tier.MinQty
	}

	return &Quote{
		SKUCode:    sku.Code,
		Quantity:   qty,
		UnitPrice:  unit,
		Subtotal:   unit.Mul(decimal.NewFromInt(int64(qty))),
		TierMinQty: tierMin,
	}, nil
}

// ReplaceTiers swaps the SKU's tier table wholesale after validating it.
func (s *service) ReplaceTiers(ctx context.Context, skuCode string, tiers []TierInput) (*models.ProductSKU, error) {
	sku, err := s.repo.GetSKUByCode(ctx, skuCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("sku %q not found", skuCode))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sku")
	}

	if err := validateTiers(sku.BasePrice, tiers); err != nil {
		return nil, err
	}

	rows := make([]models.PriceTier, 0, len(tiers))
	for _, t := range tiers {
		rows = append(rows, models.PriceTier{
			ID:        uuid.New(),
			SKUID:     sku.ID,
			MinQty:    t.MinQty,
			UnitPrice: t.Price,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplaceTiers(ctx, sku.ID, rows)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing tiers")
	}

	sku.Tiers = rows
	return sku, nil
}

// validateTiers enforces strictly increasing minimum quantities and keeps
// every tier at or below the base price.
func validateTiers(basePrice decimal.Decimal, tiers []TierInput) error {
	prevMin := 0
	for i, t := range tiers {
		if t.MinQty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %d: min_qty must be positive", i))
		}
		if t.MinQty <= prevMin {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %d: min_qty %d must be greater than %d", i, t.MinQty, prevMin))
		}
		if t.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %d: price must not be negative", i))
		}
		if t.Price.GreaterThan(basePrice) {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %d: price exceeds base price", i))
		}
		prevMin = t.MinQty
	}
	return nil
}

func selectTier(qty int, tiers []models.PriceTier) *models.PriceTier {
	var selected *models.PriceTier
	for _, tier := range tiers {
		if tier.MinQty <= qty {
			if selected == nil || tier.MinQty > selected.MinQty {
				copy := tier
				selected = &copy
			}
		}
	}
	return selected
}
