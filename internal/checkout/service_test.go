package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
	"github.com/woodkari/woodkari-backend/pkg/types"
)

type stubCart struct {
	rows     []models.CartItem
	listErr  error
	clearErr error
	cleared  bool
}

func (s *stubCart) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return s.rows, s.listErr
}

func (s *stubCart) Clear(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	return s.clearErr
}

type stubProducts struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

type stubOrders struct {
	createOrderErr error
	createItemsErr error
	deleteErr      error

	created      *models.Order
	createdItems []models.OrderItem
	deletedID    uuid.UUID
	deleteCalled bool
}

func (s *stubOrders) CreateOrder(ctx context.Context, order *models.Order) error {
	if s.createOrderErr != nil {
		return s.createOrderErr
	}
	s.created = order
	return nil
}

func (s *stubOrders) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if s.createItemsErr != nil {
		return s.createItemsErr
	}
	s.createdItems = items
	return nil
}

func (s *stubOrders) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	s.deleteCalled = true
	s.deletedID = id
	return s.deleteErr
}

func validAddress() types.ShippingAddress {
	return types.ShippingAddress{
		FullName:     "Giulia Rossi",
		AddressLine1: "Via Roma 12",
		City:         "Firenze",
		PostalCode:   "50123",
		Country:      "Italy",
	}
}

func newCheckoutService(t *testing.T, cart *stubCart, products *stubProducts, orders *stubOrders) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Cart:     cart,
		Products: products,
		Orders:   orders,
		Pricing:  testPricingConfig(t),
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) *pkgerrors.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("error code = %s, want %s (message %q)", typed.Code(), code, typed.Message())
	}
	return typed
}

func TestPlaceOrderRequiresSignIn(t *testing.T) {
	svc := newCheckoutService(t, &stubCart{}, &stubProducts{}, &stubOrders{})

	_, err := svc.PlaceOrder(context.Background(), uuid.Nil, PlaceOrderInput{ShippingAddress: validAddress()})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestPlaceOrderRejectsInvalidAddress(t *testing.T) {
	svc := newCheckoutService(t, &stubCart{}, &stubProducts{}, &stubOrders{})

	address := validAddress()
	address.PostalCode = ""
	_, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{ShippingAddress: address})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc := newCheckoutService(t, &stubCart{}, &stubProducts{}, &stubOrders{})

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{ShippingAddress: validAddress()})
	expectCode(t, err, pkgerrors.CodeEmptyCart)
}

func TestPlaceOrderVanishedProduct(t *testing.T) {
	userID := uuid.New()
	cart := &stubCart{rows: []models.CartItem{{ProductID: uuid.New(), Quantity: 1, UserID: userID}}}
	svc := newCheckoutService(t, cart, &stubProducts{products: map[uuid.UUID]*models.Product{}}, &stubOrders{})

	_, err := svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{ShippingAddress: validAddress()})
	expectCode(t, err, pkgerrors.CodeProductUnavailable)
}

func TestPlaceOrderInactiveProductNamesIt(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	cart := &stubCart{rows: []models.CartItem{{ProductID: productID, Quantity: 1, UserID: userID}}}
	products := &stubProducts{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Oak Dining Table", Price: d(t, "450.00"), Stock: 5, IsActive: false},
	}}
	svc := newCheckoutService(t, cart, products, &stubOrders{})

	_, err := svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{ShippingAddress: validAddress()})
	typed := expectCode(t, err, pkgerrors.CodeProductUnavailable)
	if !strings.Contains(typed.Message(), "Oak Dining Table") {
		t.Fatalf("message %q should name the product", typed.Message())
	}
}

func TestPlaceOrderInsufficientStockNamesProductAndCount(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	cart := &stubCart{rows: []models.CartItem{{ProductID: productID, Quantity: 4, UserID: userID}}}
	products := &stubProducts{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Walnut Shelf", Price: d(t, "99.00"), Stock: 2, IsActive: true},
	}}
	svc := newCheckoutService(t, cart, products, &stubOrders{})

	_, err := svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{ShippingAddress: validAddress()})
	typed := expectCode(t, err, pkgerrors.CodeInsufficientStock)
	if !strings.Contains(typed.Message(), "2") || !strings.Contains(typed.Message(), "Walnut Shelf") {
		t.Fatalf("message %q should name the remaining stock and the product", typed.Message())
	}
}

func TestPlaceOrderPersistsSnapshotAndClearsCart(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	cart := &stubCart{rows: []models.CartItem{
		{ProductID: productID, Quantity: 2, SelectedColor: "Natural", UserID: userID},
	}}
	products := &stubProducts{products: map[uuid.UUID]*models.Product{
		productID: {
			ID:       productID,
			Name:     "Ash Side Table",
			Images:   []string{"https://cdn.example/woodkari/products/ash.jpg"},
			Price:    d(t, "260.00"),
			Stock:    9,
			IsActive: true,
		},
	}}
	orders := &stubOrders{}
	svc := newCheckoutService(t, cart, products, orders)

	result, err := svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{
		ShippingAddress: validAddress(),
		Notes:           "leave at the door",
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	if orders.created == nil {
		t.Fatal("order was not persisted")
	}
	// 520 subtotal -> free shipping, 41.60 tax, 561.60 total.
	if !orders.created.Subtotal.Equal(d(t, "520.00")) {
		t.Fatalf("subtotal = %s, want 520.00", orders.created.Subtotal)
	}
	if !orders.created.ShippingCost.IsZero() {
		t.Fatalf("shipping = %s, want 0", orders.created.ShippingCost)
	}
	if !result.Total.Equal(d(t, "561.60")) {
		t.Fatalf("total = %s, want 561.60", result.Total)
	}

	if len(orders.createdItems) != 1 {
		t.Fatalf("order items = %d, want 1", len(orders.createdItems))
	}
	item := orders.createdItems[0]
	if item.OrderID != orders.created.ID {
		t.Fatalf("item order id = %s, want %s", item.OrderID, orders.created.ID)
	}
	if item.ProductName != "Ash Side Table" || item.SelectedColor != "Natural" || item.Quantity != 2 {
		t.Fatalf("unexpected snapshot line: %+v", item)
	}
	if item.ProductImage != "https://cdn.example/woodkari/products/ash.jpg" {
		t.Fatalf("item image = %q", item.ProductImage)
	}

	if !cart.cleared {
		t.Fatal("cart was not cleared after checkout")
	}

	wantPrefix := fmt.Sprintf("ORD-%d-", orders.created.CreatedAt.Year())
	if !strings.HasPrefix(result.OrderNumber, wantPrefix) {
		t.Fatalf("order number %q should start with %q", result.OrderNumber, wantPrefix)
	}
	wantSuffix := strings.ToUpper(orders.created.ID.String()[len(orders.created.ID.String())-6:])
	if !strings.HasSuffix(result.OrderNumber, wantSuffix) {
		t.Fatalf("order number %q should end with %q", result.OrderNumber, wantSuffix)
	}
}

func TestPlaceOrderCompensatesWhenItemsInsertFails(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	cart := &stubCart{rows: []models.CartItem{{ProductID: productID, Quantity: 1, UserID: userID}}}
	products := &stubProducts{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Cedar Bench", Price: d(t, "150.00"), Stock: 3, IsActive: true},
	}}
	orders := &stubOrders{createItemsErr: errors.New("insert failed")}
	svc := newCheckoutService(t, cart, products, orders)

	_, err := svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{ShippingAddress: validAddress()})
	expectCode(t, err, pkgerrors.CodeInternal)

	if !orders.deleteCalled {
		t.Fatal("orphaned order header was not deleted")
	}
	if orders.created != nil && orders.deletedID != orders.created.ID {
		t.Fatalf("deleted order %s, want %s", orders.deletedID, orders.created.ID)
	}
	if cart.cleared {
		t.Fatal("cart must survive a failed checkout")
	}
}

func TestPlaceOrderSucceedsWhenCartClearFails(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	cart := &stubCart{
		rows:     []models.CartItem{{ProductID: productID, Quantity: 1, UserID: userID}},
		clearErr: errors.New("redis sneezed"),
	}
	products := &stubProducts{products: map[uuid.UUID]*models.Product{
		productID: {ID: productID, Name: "Pine Stool", Price: d(t, "85.00"), Stock: 2, IsActive: true},
	}}
	svc := newCheckoutService(t, cart, products, &stubOrders{})

	result, err := svc.PlaceOrder(context.Background(), userID, PlaceOrderInput{ShippingAddress: validAddress()})
	if err != nil {
		t.Fatalf("PlaceOrder should tolerate a cart clear failure, got %v", err)
	}
	if result == nil || result.OrderID == uuid.Nil {
		t.Fatal("expected a placed order")
	}
}
