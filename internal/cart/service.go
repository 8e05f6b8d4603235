package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/internal/checkout"
	"github.com/woodkari/woodkari-backend/pkg/db/models"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
	"github.com/woodkari/woodkari-backend/pkg/logger"
)

// Service defines the cart behavior needed by the controller.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) error
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	MergeGuestCart(ctx context.Context, userID uuid.UUID, items []GuestItem) (*MergeResult, error)
}

type cartRepository interface {
	Upsert(ctx context.Context, userID, productID uuid.UUID, selectedColor string, quantity int) error
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (int64, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) (int64, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
}

type productReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     cartRepository
	products productReader
	pricing  checkout.PricingConfig
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Repo     cartRepository
	Products productReader
	Pricing  checkout.PricingConfig
	Logger   *logger.Logger
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product reader is required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		pricing:  params.Pricing,
		logg:     params.Logger,
	}, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) error {
	if err := s.ensureSellable(ctx, req.ProductID); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, userID, req.ProductID, req.SelectedColor, 1); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert cart item")
	}
	return nil
}

func (s *service) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}
	affected, err := s.repo.SetQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set cart quantity")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

// List joins cart lines with their live products and attaches an advisory
// totals preview. Lines whose product has vanished are shown with zeroed
// product data; checkout is where they become hard failures.
func (s *service) List(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}

	items := make([]ItemDTO, 0, len(rows))
	quote := make([]checkout.QuoteItem, 0, len(rows))
	for _, row := range rows {
		item := ItemDTO{
			ID:            row.ID,
			ProductID:     row.ProductID,
			SelectedColor: row.SelectedColor,
			Quantity:      row.Quantity,
		}

		product, err := s.products.FindProductByID(ctx, row.ProductID)
		switch {
		case err == nil:
			item.ProductName = product.Name
			item.ProductSlug = product.Slug
			item.ProductImage = product.PrimaryImage()
			item.UnitPrice = product.Price
			item.Stock = product.Stock
			item.IsActive = product.IsActive
			item.LineTotal = product.Price.Mul(decimal.NewFromInt(int64(row.Quantity)))
			quote = append(quote, checkout.QuoteItem{UnitPrice: product.Price, Quantity: row.Quantity})
		case errors.Is(err, gorm.ErrRecordNotFound):
			// product deleted underneath the cart
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cart product")
		}

		items = append(items, item)
	}

	return &CartDTO{
		Items:  items,
		Totals: checkout.Quote(quote, s.pricing),
	}, nil
}

// MergeGuestCart folds a client-held guest cart into the server cart. Each
// line is its own atomic upsert in guest order; a failed line is logged and
// skipped so one bad product cannot void the rest of the merge.
func (s *service) MergeGuestCart(ctx context.Context, userID uuid.UUID, items []GuestItem) (*MergeResult, error) {
	if userID == uuid.Nil {
		return &MergeResult{}, nil
	}

	merged := 0
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if err := s.ensureSellable(ctx, item.ProductID); err != nil {
			s.warnMerge(ctx, item.ProductID, err)
			continue
		}
		if err := s.repo.Upsert(ctx, userID, item.ProductID, item.SelectedColor, item.Quantity); err != nil {
			s.warnMerge(ctx, item.ProductID, err)
			continue
		}
		merged++
	}
	return &MergeResult{Merged: merged}, nil
}

func (s *service) ensureSellable(ctx context.Context, productID uuid.UUID) error {
	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeProductUnavailable, fmt.Sprintf("%s is no longer available", product.Name))
	}
	return nil
}

func (s *service) warnMerge(ctx context.Context, productID uuid.UUID, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "product_id", productID.String()), "guest cart merge skipped line: "+err.Error())
}
