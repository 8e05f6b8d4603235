package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/woodkari/woodkari-backend/pkg/types"
)

// Product is a catalog item. Images keep their insertion order; the first URL
// is the primary listing image.
type Product struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string           `gorm:"column:name;not null"`
	Slug              string           `gorm:"column:slug;not null;uniqueIndex"`
	Description       string           `gorm:"column:description;not null;default:''"`
	LongDescription   string           `gorm:"column:long_description;not null;default:''"`
	Price             decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	Stock             int              `gorm:"column:stock;not null;default:0"`
	Images            pq.StringArray   `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	HoverImage        string           `gorm:"column:hover_image;not null;default:''"`
	Materials         pq.StringArray   `gorm:"column:materials;type:text[];not null;default:ARRAY[]::text[]"`
	CareInstructions  pq.StringArray   `gorm:"column:care_instructions;type:text[];not null;default:ARRAY[]::text[]"`
	Colors            []types.Color    `gorm:"column:colors;type:jsonb;serializer:json"`
	Dimensions        types.Dimensions `gorm:"column:dimensions;type:jsonb;serializer:json"`
	Customizable      bool             `gorm:"column:customizable;not null;default:false"`
	Craftsman         string           `gorm:"column:craftsman;not null;default:''"`
	MadeIn            string           `gorm:"column:made_in;not null;default:''"`
	EstimatedDelivery string           `gorm:"column:estimated_delivery;not null;default:''"`
	IsActive          bool             `gorm:"column:is_active;not null;default:true"`
	CategoryID        *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// PrimaryImage returns the first image URL or the empty string.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
