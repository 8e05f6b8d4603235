package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
	"github.com/woodkari/woodkari-backend/pkg/enums"
	"github.com/woodkari/woodkari-backend/pkg/types"
)

// ItemDTO is one immutable order line.
type ItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	ProductName   string          `json:"product_name"`
	ProductImage  string          `json:"product_image,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	SelectedColor string          `json:"selected_color,omitempty"`
}

// OrderDTO is the history shape for a placed order.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	Number          string                `json:"number"`
	Status          enums.OrderStatus     `json:"status"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	ShippingCost    decimal.Decimal       `json:"shipping_cost"`
	Tax             decimal.Decimal       `json:"tax"`
	Total           decimal.Decimal       `json:"total"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	Notes           string                `json:"notes,omitempty"`
	Items           []ItemDTO             `json:"items"`
	CreatedAt       time.Time             `json:"created_at"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemDTO{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			ProductImage:  item.ProductImage,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			SelectedColor: item.SelectedColor,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		Number:          o.Number(),
		Status:          o.Status,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Tax:             o.Tax,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

func fromModels(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
