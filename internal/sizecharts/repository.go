package sizecharts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
)

// ChartRepository exposes size chart reads.
type ChartRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.SizeChart, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SizeChart, error) {
	var chart models.SizeChart
	if err := r.db.WithContext(ctx).First(&chart, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &chart, nil
}
