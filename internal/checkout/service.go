package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
	"github.com/woodkari/woodkari-backend/pkg/enums"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
	"github.com/woodkari/woodkari-backend/pkg/logger"
	"github.com/woodkari/woodkari-backend/pkg/metrics"
)

// Service places orders from the server-side cart.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error)
}

type cartReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type orderWriter interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type service struct {
	cart     cartReader
	products productReader
	orders   orderWriter
	pricing  PricingConfig
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Cart     cartReader
	Products productReader
	Orders   orderWriter
	Pricing  PricingConfig
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
}

// NewService constructs the order placement orchestrator.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart reader is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product reader is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order writer is required")
	}
	return &service{
		cart:     params.Cart,
		products: params.Products,
		orders:   params.Orders,
		pricing:  params.Pricing,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// PlaceOrder validates the server cart against the live catalog, prices it,
// persists the order with snapshot lines, and clears the cart. Stock is
// validated but never decremented here.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error) {
	started := s.now()
	result, err := s.placeOrder(ctx, userID, input)
	elapsed := s.now().Sub(started)

	if err != nil {
		s.metrics.IncFailed(failureReason(err))
		s.metrics.ObserveDuration("failure", elapsed)
		return nil, err
	}
	s.metrics.IncPlaced()
	s.metrics.ObserveDuration("success", elapsed)
	return result, nil
}

func (s *service) placeOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*PlaceOrderResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to checkout")
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address")
	}

	rows, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "your cart is empty")
	}

	// Resolve live products. The first violation aborts the whole checkout.
	quote := make([]QuoteItem, 0, len(rows))
	orderItems := make([]models.OrderItem, 0, len(rows))
	for _, row := range rows {
		product, err := s.products.FindProductByID(ctx, row.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeProductUnavailable, "an item in your cart is no longer available")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cart product")
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeProductUnavailable,
				fmt.Sprintf("%s is no longer available", product.Name))
		}
		if row.Quantity > product.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("only %d of %s left in stock", product.Stock, product.Name))
		}

		quote = append(quote, QuoteItem{UnitPrice: product.Price, Quantity: row.Quantity})
		productID := product.ID
		orderItems = append(orderItems, models.OrderItem{
			ID:            uuid.New(),
			ProductID:     &productID,
			ProductName:   product.Name,
			ProductImage:  product.PrimaryImage(),
			UnitPrice:     product.Price,
			Quantity:      row.Quantity,
			SelectedColor: row.SelectedColor,
		})
	}

	totals := Quote(quote, s.pricing)

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          &userID,
		Status:          enums.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		ShippingCost:    totals.ShippingCost,
		Tax:             totals.Tax,
		Total:           totals.Total,
		ShippingAddress: input.ShippingAddress,
		Notes:           input.Notes,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.logError(ctx, userID, "creating order failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}
	if err := s.orders.CreateOrderItems(ctx, orderItems); err != nil {
		s.logError(ctx, userID, "creating order items failed, rolling back order", err)
		if delErr := s.orders.DeleteOrder(ctx, order.ID); delErr != nil {
			s.logError(ctx, userID, "compensating order delete failed", delErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
	}

	// The order exists; a stale cart is an annoyance, not a failure.
	if err := s.cart.Clear(ctx, userID); err != nil {
		s.logError(ctx, userID, "clearing cart after checkout failed", err)
	}

	return &PlaceOrderResult{
		OrderID:     order.ID,
		OrderNumber: order.Number(),
		Total:       totals.Total,
	}, nil
}

func (s *service) logError(ctx context.Context, userID uuid.UUID, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(s.logg.WithUserID(ctx, userID.String()), msg, err)
}

func failureReason(err error) string {
	var appErr *pkgerrors.Error
	if errors.As(err, &appErr) {
		return string(appErr.Code())
	}
	return "unknown"
}
