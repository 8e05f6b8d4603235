package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a customer's cart. The empty selected color is the
// no-color sentinel so the uniqueness constraint covers colorless products.
type CartItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_product_color"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_product_color"`
	SelectedColor string    `gorm:"column:selected_color;not null;default:'';uniqueIndex:idx_cart_items_user_product_color"`
	Quantity      int       `gorm:"column:quantity;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
