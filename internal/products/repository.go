package products

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	"github.com/fabrikline/wholesale-backend/pkg/pagination"
)

// ProductRepository defines read operations over the catalog.
type ProductRepository interface {
	GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Product, error)
}

// Repository wires product persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetProductDetail fetches a product with SKUs and their tiers.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("SKUs", func(db *gorm.DB) *gorm.DB {
			return db.Order("code ASC")
		}).
		Preload("SKUs.Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_qty ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns active products newest first, keyset-paginated.
func (r *Repository) ListProducts(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TouchUpdatedAt bumps the product's updated_at, used when nested rows change.
func (r *Repository) TouchUpdatedAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}
