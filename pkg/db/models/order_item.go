package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one purchased line. Product name, image and unit price
// are copied at checkout so later catalog edits never rewrite order history.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID     *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	ProductName   string          `gorm:"column:product_name;not null"`
	ProductImage  string          `gorm:"column:product_image;not null;default:''"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	SelectedColor string          `gorm:"column:selected_color;not null;default:''"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
