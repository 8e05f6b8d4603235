package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
	"github.com/woodkari/woodkari-backend/pkg/pagination"
)

const relatedProductsLimit = 4

// Service exposes the public storefront reads.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListRelatedProducts(ctx context.Context, slug string) ([]ProductDTO, error)
}

type readRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListActiveProducts(ctx context.Context, categoryID *uuid.UUID, offset, limit int) ([]models.Product, int64, error)
	FindActiveProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListRelatedProducts(ctx context.Context, product *models.Product, limit int) ([]models.Product, error)
}

type service struct {
	repo readRepository
}

// NewService constructs the storefront read service.
func NewService(repo readRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *CategoryFromModel(&categories[i]))
	}
	return out, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	page := pagination.NormalizePage(input.Page)
	pageSize := pagination.NormalizeLimit(input.PageSize)

	var categoryID *uuid.UUID
	if input.CategorySlug != "" {
		category, err := s.repo.FindCategoryBySlug(ctx, input.CategorySlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
		}
		categoryID = &category.ID
	}

	products, total, err := s.repo.ListActiveProducts(ctx, categoryID, pagination.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	return &ProductPage{
		Products: productsFromModels(products),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	product, err := s.findActive(ctx, slug)
	if err != nil {
		return nil, err
	}
	return ProductFromModel(product), nil
}

func (s *service) ListRelatedProducts(ctx context.Context, slug string) ([]ProductDTO, error) {
	product, err := s.findActive(ctx, slug)
	if err != nil {
		return nil, err
	}
	related, err := s.repo.ListRelatedProducts(ctx, product, relatedProductsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list related products")
	}
	return productsFromModels(related), nil
}

func (s *service) findActive(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.repo.FindActiveProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return product, nil
}
