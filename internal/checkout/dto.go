package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/woodkari/woodkari-backend/pkg/types"
)

// PlaceOrderInput is the checkout payload. Prices and totals are never part
// of it; the server computes all money.
type PlaceOrderInput struct {
	ShippingAddress types.ShippingAddress `json:"shipping_address" validate:"required"`
	Notes           string                `json:"notes"`
}

// PlaceOrderResult is returned to the storefront confirmation page.
type PlaceOrderResult struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
}
