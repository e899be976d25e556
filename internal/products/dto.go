package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
)

// TierDTO is one volume break on a SKU.
type TierDTO struct {
	MinQty int             `json:"min_qty"`
	Price  decimal.Decimal `json:"price"`
}

// SKUDTO is a purchasable variant with its tier ladder.
type SKUDTO struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Size      *string         `json:"size,omitempty"`
	Color     *string         `json:"color,omitempty"`
	BasePrice decimal.Decimal `json:"base_price"`
	MOQ       int             `json:"moq"`
	InStock   bool            `json:"in_stock"`
	Tiers     []TierDTO       `json:"tiers"`
}

// ProductDTO is the catalog listing shape returned by read endpoints.
type ProductDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Subtitle    *string    `json:"subtitle,omitempty"`
	Description *string    `json:"description,omitempty"`
	Brand       *string    `json:"brand,omitempty"`
	SizeChartID *uuid.UUID `json:"size_chart_id,omitempty"`
	IsFeatured  bool       `json:"is_featured"`
	ImageURL    *string    `json:"image_url,omitempty"`
	SKUs        []SKUDTO   `json:"skus,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListPage is one page of catalog results with the follow-up cursor.
type ListPage struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func fromModel(p *models.Product, includeSKUs bool) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		Description: p.Description,
		Brand:       p.Brand,
		SizeChartID: p.SizeChartID,
		IsFeatured:  p.IsFeatured,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if !includeSKUs {
		return dto
	}

	dto.SKUs = make([]SKUDTO, 0, len(p.SKUs))
	for _, sku := range p.SKUs {
		tiers := make([]TierDTO, 0, len(sku.Tiers))
		for _, tier := range sku.Tiers {
			tiers = append(tiers, TierDTO{MinQty: tier.MinQty, Price: tier.UnitPrice})
		}
		dto.SKUs = append(dto.SKUs, SKUDTO{
			ID:        sku.ID,
			Code:      sku.Code,
			Size:      sku.Size,
			Color:     sku.Color,
			BasePrice: sku.BasePrice,
			MOQ:       sku.MOQ,
			InStock:   sku.InStock,
			Tiers:     tiers,
		})
	}
	return dto
}
