package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/woodkari/woodkari-backend/internal/checkout"
)

// ItemDTO is one cart line joined with its live product.
type ItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductSlug   string          `json:"product_slug"`
	ProductImage  string          `json:"product_image,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Stock         int             `json:"stock"`
	IsActive      bool            `json:"is_active"`
	SelectedColor string          `json:"selected_color,omitempty"`
	Quantity      int             `json:"quantity"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// CartDTO is the full cart view with an advisory totals preview. The preview
// uses the same pricing engine as checkout, so the two always agree.
type CartDTO struct {
	Items  []ItemDTO       `json:"items"`
	Totals checkout.Totals `json:"totals"`
}

// AddItemRequest adds one unit of a product to the cart.
type AddItemRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	SelectedColor string    `json:"selected_color"`
}

// SetQuantityRequest overwrites a line quantity; zero or below removes it.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GuestItem is one line of a client-held guest cart submitted for merging.
type GuestItem struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	SelectedColor string    `json:"selected_color"`
	Quantity      int       `json:"quantity" validate:"required,gt=0"`
}

// MergeRequest carries the guest cart lines in their original order.
type MergeRequest struct {
	Items []GuestItem `json:"items" validate:"dive"`
}

// MergeResult reports how many guest lines were merged.
type MergeResult struct {
	Merged int `json:"merged"`
}
