package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a saved shipping destination in the customer's address book.
type Address struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	FullName     string    `gorm:"column:full_name;not null"`
	Phone        string    `gorm:"column:phone;not null;default:''"`
	AddressLine1 string    `gorm:"column:address_line1;not null"`
	AddressLine2 string    `gorm:"column:address_line2;not null;default:''"`
	City         string    `gorm:"column:city;not null"`
	State        string    `gorm:"column:state;not null;default:''"`
	PostalCode   string    `gorm:"column:postal_code;not null"`
	Country      string    `gorm:"column:country;not null;default:'Italy'"`
	IsDefault    bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
