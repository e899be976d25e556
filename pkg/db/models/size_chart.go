package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fabrikline/wholesale-backend/pkg/types"
)

// SizeChart holds the measurement grid shown on product detail pages.
type SizeChart struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string                `gorm:"column:name;not null"`
	Unit      string                `gorm:"column:unit;not null;default:'cm'"`
	Rows      types.MeasurementGrid `gorm:"column:rows;type:jsonb;not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
