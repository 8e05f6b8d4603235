package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
	"github.com/woodkari/woodkari-backend/pkg/logger"
	"github.com/woodkari/woodkari-backend/pkg/types"
)

// AdminService exposes the dashboard catalog mutations.
type AdminService interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, form ProductForm) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, form ProductForm) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ToggleProductStatus(ctx context.Context, id uuid.UUID, active bool) error
	CreateCategory(ctx context.Context, form CategoryForm) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, form CategoryForm) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type adminRepository interface {
	ListAllProducts(ctx context.Context) ([]models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SetProductActive(ctx context.Context, id uuid.UUID, active bool) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type mediaCleaner interface {
	CleanupURLs(ctx context.Context, urls []string)
}

type adminService struct {
	repo  adminRepository
	media mediaCleaner
	logg  *logger.Logger
}

// AdminServiceParams bundles the dependencies for the admin catalog service.
type AdminServiceParams struct {
	Repo   adminRepository
	Media  mediaCleaner
	Logger *logger.Logger
}

// NewAdminService constructs the admin catalog service.
func NewAdminService(params AdminServiceParams) (AdminService, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &adminService{
		repo:  params.Repo,
		media: params.Media,
		logg:  params.Logger,
	}, nil
}

func (s *adminService) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListAllProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return productsFromModels(products), nil
}

func (s *adminService) CreateProduct(ctx context.Context, form ProductForm) (*ProductDTO, error) {
	product := &models.Product{}
	if err := applyProductForm(product, form); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return ProductFromModel(created), nil
}

func (s *adminService) UpdateProduct(ctx context.Context, id uuid.UUID, form ProductForm) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProductForm(product, form); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return ProductFromModel(updated), nil
}

// DeleteProduct removes the row first, then makes a best-effort pass over the
// product's hosted images. A failed cleanup never resurrects the product.
func (s *adminService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	urls := append([]string(nil), product.Images...)
	if product.HoverImage != "" {
		urls = append(urls, product.HoverImage)
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}

	if s.media != nil {
		s.media.CleanupURLs(ctx, urls)
	}
	return nil
}

func (s *adminService) ToggleProductStatus(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.findProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetProductActive(ctx, id, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle product status")
	}
	return nil
}

func (s *adminService) CreateCategory(ctx context.Context, form CategoryForm) (*CategoryDTO, error) {
	category := &models.Category{}
	if err := applyCategoryForm(category, form); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return CategoryFromModel(created), nil
}

func (s *adminService) UpdateCategory(ctx context.Context, id uuid.UUID, form CategoryForm) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}
	if err := applyCategoryForm(category, form); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	return CategoryFromModel(updated), nil
}

func (s *adminService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *adminService) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return product, nil
}

// applyProductForm validates and copies the form values onto the model. The
// slug is always recomputed from the name.
func applyProductForm(product *models.Product, form ProductForm) error {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]any{"field": "name"})
	}
	description := strings.TrimSpace(form.Description)
	if description == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description is required").
			WithDetails(map[string]any{"field": "description"})
	}

	price, err := decimal.NewFromString(strings.TrimSpace(form.Price))
	if err != nil || price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative number").
			WithDetails(map[string]any{"field": "price"})
	}

	// A malformed stock value falls back to zero instead of failing the save.
	stock, err := strconv.Atoi(strings.TrimSpace(form.Stock))
	if err != nil || stock < 0 {
		stock = 0
	}

	colors, err := types.ParseColors(form.Colors)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidFormat, err, "invalid colors or dimensions format")
	}
	dimensions, err := types.ParseDimensions(form.Dimensions)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidFormat, err, "invalid colors or dimensions format")
	}

	var categoryID *uuid.UUID
	if raw := strings.TrimSpace(form.CategoryID); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid category id").
				WithDetails(map[string]any{"field": "category_id"})
		}
		categoryID = &parsed
	}

	product.Name = name
	product.Slug = Slugify(name)
	product.Description = description
	product.LongDescription = strings.TrimSpace(form.LongDescription)
	product.Price = price
	product.Stock = stock
	product.Images = splitCommaList(form.Images)
	product.HoverImage = strings.TrimSpace(form.HoverImage)
	product.Materials = splitLines(form.Materials)
	product.CareInstructions = splitLines(form.CareInstructions)
	product.Colors = colors
	product.Dimensions = dimensions
	product.Customizable = form.Customizable
	product.Craftsman = strings.TrimSpace(form.Craftsman)
	product.MadeIn = strings.TrimSpace(form.MadeIn)
	product.EstimatedDelivery = strings.TrimSpace(form.EstimatedDelivery)
	product.CategoryID = categoryID
	if form.IsActive != nil {
		product.IsActive = *form.IsActive
	} else if product.ID == uuid.Nil {
		product.IsActive = true
	}
	return nil
}

func applyCategoryForm(category *models.Category, form CategoryForm) error {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]any{"field": "name"})
	}
	category.Name = name
	category.Slug = Slugify(name)
	category.Description = strings.TrimSpace(form.Description)
	category.Image = strings.TrimSpace(form.Image)
	category.SortOrder = form.SortOrder
	return nil
}

// splitLines splits textarea input on newlines, trims each entry, and drops
// empties while keeping the original order.
func splitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// splitCommaList splits a comma-joined URL list, trimming and dropping empties.
func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
