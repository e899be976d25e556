package pricing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
)

// SKURepository exposes the SKU and tier persistence used by price resolution.
type SKURepository interface {
	GetSKUByCode(ctx context.Context, code string) (*models.ProductSKU, error)
	ReplaceTiers(ctx context.Context, skuID uuid.UUID, tiers []models.PriceTier) error
	WithTx(tx *gorm.DB) SKURepository
}

// Repository wires together SKU and tier persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) SKURepository {
	return &Repository{db: tx}
}

// GetSKUByCode fetches a SKU with its tiers ordered low to high.
func (r *Repository) GetSKUByCode(ctx context.Context, code string) (*models.ProductSKU, error) {
	var sku models.ProductSKU
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_qty ASC")
		}).
		First(&sku, "code = ?", code).
		Error
	if err != nil {
		return nil, err
	}
	return &sku, nil
}

// ReplaceTiers replaces all volume tiers for the SKU.
func (r *Repository) ReplaceTiers(ctx context.Context, skuID uuid.UUID, tiers []models.PriceTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("sku_id = ?", skuID).Delete(&models.PriceTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return tx.Create(&tiers).Error
}
