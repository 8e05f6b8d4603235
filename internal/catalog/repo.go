package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
)

// Repository wires together catalog persistence for products and categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListCategories returns all categories ordered for display.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindCategoryBySlug loads one category by slug.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory saves all category fields.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindCategoryByID loads one category by id.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes the category row. Product references are nulled by
// the FK, products themselves survive.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// ListActiveProducts returns one page of active products with the total count.
func (r *Repository) ListActiveProducts(ctx context.Context, categoryID *uuid.UUID, offset, limit int) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := query.
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListAllProducts returns every product for the admin dashboard.
func (r *Repository) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindActiveProductBySlug loads one active product by slug.
func (r *Repository) FindActiveProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		First(&product, "slug = ? AND is_active = ?", slug, true).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductByID loads one product regardless of status.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListRelatedProducts returns active products sharing the category first,
// then fills the remainder with other active products.
func (r *Repository) ListRelatedProducts(ctx context.Context, product *models.Product, limit int) ([]models.Product, error) {
	var related []models.Product

	if product.CategoryID != nil {
		if err := r.db.WithContext(ctx).
			Where("is_active = ? AND category_id = ? AND id <> ?", true, *product.CategoryID, product.ID).
			Order("name ASC").
			Limit(limit).
			Find(&related).Error; err != nil {
			return nil, err
		}
	}

	if remaining := limit - len(related); remaining > 0 {
		exclude := make([]uuid.UUID, 0, len(related)+1)
		exclude = append(exclude, product.ID)
		for _, p := range related {
			exclude = append(exclude, p.ID)
		}

		var filler []models.Product
		if err := r.db.WithContext(ctx).
			Where("is_active = ? AND id NOT IN ?", true, exclude).
			Order("name ASC").
			Limit(remaining).
			Find(&filler).Error; err != nil {
			return nil, err
		}
		related = append(related, filler...)
	}

	return related, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves all product fields.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product row.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// SetProductActive flips the is_active flag.
func (r *Repository) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active).Error
}
