package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fabrikline/wholesale-backend/pkg/enums"
)

// Company represents the canonical tenant model. Every buyer belongs to
// exactly one company and catalog visibility is scoped by it.
type Company struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string              `gorm:"column:name;not null"`
	LegalName    *string             `gorm:"column:legal_name"`
	TaxID        *string             `gorm:"column:tax_id"`
	Status       enums.CompanyStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ContactEmail *string             `gorm:"column:contact_email"`
	ContactPhone *string             `gorm:"column:contact_phone"`
	Country      *string             `gorm:"column:country"`
	OwnerID      uuid.UUID           `gorm:"column:owner_id;type:uuid;not null"`
	LastActiveAt *time.Time          `gorm:"column:last_active_at"`
	ApprovedAt   *time.Time          `gorm:"column:approved_at"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
