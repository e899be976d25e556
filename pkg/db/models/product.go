package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents the canonical catalog listing. Pricing lives on the
// SKU level so that variants of one product can carry independent tiers.
type Product struct {
	ID          uuid.UUID    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string       `gorm:"column:title;not null"`
	Subtitle    *string      `gorm:"column:subtitle"`
	Description *string      `gorm:"column:description"`
	Brand       *string      `gorm:"column:brand"`
	SizeChartID *uuid.UUID   `gorm:"column:size_chart_id;type:uuid"`
	IsActive    bool         `gorm:"column:is_active;not null;default:true"`
	IsFeatured  bool         `gorm:"column:is_featured;not null;default:false"`
	ImageURL    *string      `gorm:"column:image_url"`
	SKUs        []ProductSKU `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}
