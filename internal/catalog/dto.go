package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
	"github.com/woodkari/woodkari-backend/pkg/types"
)

// CategoryDTO is the browse shape for a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	SortOrder   int       `json:"sort_order"`
}

// ProductDTO is the storefront shape for a product.
type ProductDTO struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Slug              string           `json:"slug"`
	Description       string           `json:"description,omitempty"`
	LongDescription   string           `json:"long_description,omitempty"`
	Price             decimal.Decimal  `json:"price"`
	Stock             int              `json:"stock"`
	Images            []string         `json:"images"`
	HoverImage        string           `json:"hover_image,omitempty"`
	Materials         []string         `json:"materials"`
	CareInstructions  []string         `json:"care_instructions"`
	Colors            []types.Color    `json:"colors"`
	Dimensions        types.Dimensions `json:"dimensions"`
	Customizable      bool             `json:"customizable"`
	Craftsman         string           `json:"craftsman,omitempty"`
	MadeIn            string           `json:"made_in,omitempty"`
	EstimatedDelivery string           `json:"estimated_delivery,omitempty"`
	IsActive          bool             `json:"is_active"`
	CategoryID        *uuid.UUID       `json:"category_id,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ProductForm is the form-shaped admin input for create and update. Raw
// string fields mirror what the dashboard submits; parsing happens in the
// admin service.
type ProductForm struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	LongDescription   string `json:"long_description"`
	Price             string `json:"price"`
	Stock             string `json:"stock"`
	Images            string `json:"images"`
	HoverImage        string `json:"hover_image"`
	Materials         string `json:"materials"`
	CareInstructions  string `json:"care_instructions"`
	Colors            string `json:"colors"`
	Dimensions        string `json:"dimensions"`
	Customizable      bool   `json:"customizable"`
	Craftsman         string `json:"craftsman"`
	MadeIn            string `json:"made_in"`
	EstimatedDelivery string `json:"estimated_delivery"`
	IsActive          *bool  `json:"is_active,omitempty"`
	CategoryID        string `json:"category_id"`
}

// CategoryForm is the admin input for category create and update.
type CategoryForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	SortOrder   int    `json:"sort_order"`
}

// ListProductsInput captures the storefront browse filters.
type ListProductsInput struct {
	CategorySlug string
	Page         int
	PageSize     int
}

// ProductPage is one page of storefront results.
type ProductPage struct {
	Products []ProductDTO `json:"products"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Total    int64        `json:"total"`
}

func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Image:       c.Image,
		SortOrder:   c.SortOrder,
	}
}

func ProductFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:                p.ID,
		Name:              p.Name,
		Slug:              p.Slug,
		Description:       p.Description,
		LongDescription:   p.LongDescription,
		Price:             p.Price,
		Stock:             p.Stock,
		Images:            append([]string(nil), p.Images...),
		HoverImage:        p.HoverImage,
		Materials:         append([]string(nil), p.Materials...),
		CareInstructions:  append([]string(nil), p.CareInstructions...),
		Colors:            p.Colors,
		Dimensions:        p.Dimensions,
		Customizable:      p.Customizable,
		Craftsman:         p.Craftsman,
		MadeIn:            p.MadeIn,
		EstimatedDelivery: p.EstimatedDelivery,
		IsActive:          p.IsActive,
		CategoryID:        p.CategoryID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func productsFromModels(items []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(items))
	for i := range items {
		out = append(out, *ProductFromModel(&items[i]))
	}
	return out
}
