package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
)

type stubSKURepo struct {
	skus     map[string]*models.ProductSKU
	replaced map[uuid.UUID][]models.PriceTier
}

func newStubSKURepo() *stubSKURepo {
	return &stubSKURepo{
		skus:     map[string]*models.ProductSKU{},
		replaced: map[uuid.UUID][]models.PriceTier{},
	}
}

func (s *stubSKURepo) GetSKUByCode(_ context.Context, code string) (*models.ProductSKU, error) {
	sku, ok := s.skus[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sku, nil
}

func (s *stubSKURepo) ReplaceTiers(_ context.Context, skuID uuid.UUID, tiers []models.PriceTier) error {
	s.replaced[skuID] = tiers
	return nil
}

func (s *stubSKURepo) WithTx(_ *gorm.DB) SKURepository { return s }

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func tieredSKU(code, base string, tiers map[int]string) *models.ProductSKU {
	sku := &models.ProductSKU{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Code:      code,
		BasePrice: decimal.RequireFromString(base),
	}
	for minQty, price := range tiers {
		sku.Tiers = append(sku.Tiers, models.PriceTier{
			ID:        uuid.New(),
			SKUID:     sku.ID,
			MinQty:    minQty,
			UnitPrice: decimal.RequireFromString(price),
		})
	}
	return sku
}

func newTestService(t *testing.T, repo SKURepository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestResolveUnitPriceTierBoundaries(t *testing.T) {
	t.Parallel()

	repo := newStubSKURepo()
	repo.skus["TEE-1"] = tieredSKU("TEE-1", "100", map[int]string{5: "95", 10: "90", 20: "85"})
	svc := newTestService(t, repo)

	cases := []struct {
		qty  int
		want string
	}{
		{1, "100"},
		{4, "100"},
		{5, "95"},
		{9, "95"},
		{10, "90"},
		{20, "85"},
		{100, "85"},
	}

	for _, tc := range cases {
		quote, err := svc.ResolveUnitPrice(context.Background(), "TEE-1", tc.qty)
		if err != nil {
			t.Fatalf("qty %d: unexpected error: %v", tc.qty, err)
		}
		if !quote.UnitPrice.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("qty %d: unit price %s, want %s", tc.qty, quote.UnitPrice, tc.want)
		}
		wantSubtotal := quote.UnitPrice.Mul(decimal.NewFromInt(int64(tc.qty)))
		if !quote.Subtotal.Equal(wantSubtotal) {
			t.Errorf("qty %d: subtotal %s, want %s", tc.qty, quote.Subtotal, wantSubtotal)
		}
	}
}

func TestResolveUnitPriceNoTiersUsesBase(t *testing.T) {
	t.Parallel()

	repo := newStubSKURepo()
	repo.skus["PLAIN"] = tieredSKU("PLAIN", "42.50", nil)
	svc := newTestService(t, repo)

	quote, err := svc.ResolveUnitPrice(context.Background(), "PLAIN", 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.UnitPrice.Equal(decimal.RequireFromString("42.50")) {
		t.Fatalf("unit price %s, want base 42.50", quote.UnitPrice)
	}
	if quote.TierMinQty != 0 {
		t.Fatalf("expected no tier applied, got min qty %d", quote.TierMinQty)
	}
}

func TestResolveUnitPriceRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	repo := newStubSKURepo()
	repo.skus["TEE-1"] = tieredSKU("TEE-1", "100", nil)
	svc := newTestService(t, repo)

	for _, qty := range []int{0, -1, -50} {
		_, err := svc.ResolveUnitPrice(context.Background(), "TEE-1", qty)
		coded := pkgerrors.As(err)
		if coded == nil || coded.Code() != pkgerrors.CodeInvalidQuantity {
			t.Errorf("qty %d: expected invalid quantity error, got %v", qty, err)
		}
	}
}

func TestResolveUnitPriceMissingSKU(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubSKURepo())

	_, err := svc.ResolveUnitPrice(context.Background(), "GHOST", 5)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestReplaceTiersValidation(t *testing.T) {
	t.Parallel()

	repo := newStubSKURepo()
	repo.skus["TEE-1"] = tieredSKU("TEE-1", "100", nil)
	svc := newTestService(t, repo)

	cases := []struct {
		name  string
		tiers []TierInput
	}{
		{"duplicate min qty", []TierInput{
			{MinQty: 5, Price: decimal.RequireFromString("95")},
			{MinQty: 5, Price: decimal.RequireFromString("90")},
		}},
		{"decreasing min qty", []TierInput{
			{MinQty: 10, Price: decimal.RequireFromString("90")},
			{MinQty: 5, Price: decimal.RequireFromString("95")},
		}},
		{"zero min qty", []TierInput{
			{MinQty: 0, Price: decimal.RequireFromString("95")},
		}},
		{"price above base", []TierInput{
			{MinQty: 5, Price: decimal.RequireFromString("120")},
		}},
		{"negative price", []TierInput{
			{MinQty: 5, Price: decimal.RequireFromString("-1")},
		}},
	}

	for _, tc := range cases {
		_, err := svc.ReplaceTiers(context.Background(), "TEE-1", tc.tiers)
		coded := pkgerrors.As(err)
		if coded == nil || coded.Code() != pkgerrors.CodeValidation {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestReplaceTiersPersistsRows(t *testing.T) {
	t.Parallel()

	repo := newStubSKURepo()
	repo.skus["TEE-1"] = tieredSKU("TEE-1", "100", nil)
	svc := newTestService(t, repo)

	sku, err := svc.ReplaceTiers(context.Background(), "TEE-1", []TierInput{
		{MinQty: 5, Price: decimal.RequireFromString("95")},
		{MinQty: 10, Price: decimal.RequireFromString("90")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.replaced[sku.ID]
	if len(stored) != 2 {
		t.Fatalf("expected 2 tiers stored, got %d", len(stored))
	}
	if stored[0].MinQty != 5 || stored[1].MinQty != 10 {
		t.Fatalf("unexpected tier order: %+v", stored)
	}
}
