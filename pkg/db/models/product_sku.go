package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSKU is a purchasable variant. BasePrice is the unit price that
// applies when no volume tier matches the requested quantity.
type ProductSKU struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Code      string          `gorm:"column:code;type:text;not null;uniqueIndex"`
	Size      *string         `gorm:"column:size"`
	Color     *string         `gorm:"column:color"`
	BasePrice decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null"`
	MOQ       int             `gorm:"column:moq;not null;default:1"`
	InStock   bool            `gorm:"column:in_stock;not null;default:true"`
	Tiers     []PriceTier     `gorm:"foreignKey:SKUID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
