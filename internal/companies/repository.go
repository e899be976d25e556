package companies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
)

// CompanyRepository exposes tenant persistence.
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	List(ctx context.Context, status *enums.CompanyStatus) ([]models.Company, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CompanyStatus) error
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// List returns companies oldest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.CompanyStatus) ([]models.Company, error) {
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var rows []models.Company
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.CompanyStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
