package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/woodkari/woodkari-backend/pkg/enums"
	"github.com/woodkari/woodkari-backend/pkg/types"
)

// Order is a placed checkout. All money columns are computed server-side and
// never accepted from the client.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          *uuid.UUID            `gorm:"column:user_id;type:uuid;index"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	Subtotal        decimal.Decimal       `gorm:"column:subtotal;type:numeric(10,2);not null"`
	ShippingCost    decimal.Decimal       `gorm:"column:shipping_cost;type:numeric(10,2);not null"`
	Tax             decimal.Decimal       `gorm:"column:tax;type:numeric(10,2);not null"`
	Total           decimal.Decimal       `gorm:"column:total;type:numeric(10,2);not null"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Notes           string                `gorm:"column:notes;not null;default:''"`
	Items           []OrderItem           `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// Number renders the customer-facing order number from the id and the year
// the order was placed.
func (o Order) Number() string {
	id := o.ID.String()
	suffix := id
	if len(id) > 6 {
		suffix = id[len(id)-6:]
	}
	return fmt.Sprintf("ORD-%d-%s", o.CreatedAt.Year(), strings.ToUpper(suffix))
}
