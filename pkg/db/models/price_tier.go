package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceTier captures one volume break for a SKU. The tier applies to any
// quantity at or above MinQty until a higher tier takes over.
type PriceTier struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKUID     uuid.UUID       `gorm:"column:sku_id;type:uuid;not null;index"`
	MinQty    int             `gorm:"column:min_qty;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
