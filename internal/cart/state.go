package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line. Identity is the product and SKU pair; every other
// field is display data captured at add time and never re-resolved.
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKUCode   string          `json:"sku_code"`
	Name      string          `json:"name"`
	Color     string          `json:"color,omitempty"`
	Size      string          `json:"size,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// identity returns the composite key two lines merge on.
func (i Item) identity() string {
	return i.ProductID.String() + "|" + i.SKUCode
}

// State is the serialized cart snapshot the storage port round-trips.
type State struct {
	Items []Item `json:"items"`
}
