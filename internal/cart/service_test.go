package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/internal/checkout"
	"github.com/woodkari/woodkari-backend/pkg/config"
	"github.com/woodkari/woodkari-backend/pkg/db/models"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
)

type upsertCall struct {
	productID uuid.UUID
	color     string
	quantity  int
}

type fakeCartRepo struct {
	lines      []models.CartItem
	upserts    []upsertCall
	upsertErrs map[uuid.UUID]error
	affected   int64
}

func (f *fakeCartRepo) Upsert(ctx context.Context, userID, productID uuid.UUID, selectedColor string, quantity int) error {
	if err, ok := f.upsertErrs[productID]; ok {
		return err
	}
	f.upserts = append(f.upserts, upsertCall{productID: productID, color: selectedColor, quantity: quantity})
	return nil
}

func (f *fakeCartRepo) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (int64, error) {
	return f.affected, nil
}

func (f *fakeCartRepo) Delete(ctx context.Context, userID, itemID uuid.UUID) (int64, error) {
	return f.affected, nil
}

func (f *fakeCartRepo) Clear(ctx context.Context, userID uuid.UUID) error { return nil }

func (f *fakeCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return f.lines, nil
}

type fakeProducts struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProducts) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func testPricing(t *testing.T) checkout.PricingConfig {
	t.Helper()
	cfg, err := checkout.NewPricingConfig(config.CheckoutConfig{
		FreeShippingThreshold: "500",
		FlatShippingFee:       "35",
		TaxRate:               "0.08",
	})
	if err != nil {
		t.Fatalf("parsing pricing config: %v", err)
	}
	return cfg
}

func newCartService(t *testing.T, repo *fakeCartRepo, products *fakeProducts) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Products: products,
		Pricing:  testPricing(t),
	})
	if err != nil {
		t.Fatalf("building cart service: %v", err)
	}
	return svc
}

func price(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parsing decimal %q: %v", value, err)
	}
	return parsed
}

func activeProduct(t *testing.T, name, priceStr string) *models.Product {
	t.Helper()
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Slug:     name,
		Price:    price(t, priceStr),
		Stock:    10,
		IsActive: true,
	}
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	svc := newCartService(t, &fakeCartRepo{}, &fakeProducts{products: map[uuid.UUID]*models.Product{}})

	err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	product := activeProduct(t, "Retired Chair", "90.00")
	product.IsActive = false
	svc := newCartService(t, &fakeCartRepo{}, &fakeProducts{products: map[uuid.UUID]*models.Product{product.ID: product}})

	err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeProductUnavailable {
		t.Fatalf("expected PRODUCT_UNAVAILABLE, got %v", err)
	}
}

func TestAddItemUpsertsOneUnit(t *testing.T) {
	product := activeProduct(t, "Oak Table", "450.00")
	repo := &fakeCartRepo{}
	svc := newCartService(t, repo, &fakeProducts{products: map[uuid.UUID]*models.Product{product.ID: product}})

	if err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID, SelectedColor: "Natural"}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(repo.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(repo.upserts))
	}
	call := repo.upserts[0]
	if call.quantity != 1 || call.color != "Natural" {
		t.Fatalf("unexpected upsert call: %+v", call)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	repo := &fakeCartRepo{affected: 1}
	svc := newCartService(t, repo, &fakeProducts{})

	if err := svc.SetQuantity(context.Background(), uuid.New(), uuid.New(), 0); err != nil {
		t.Fatalf("SetQuantity(0) should delete, got %v", err)
	}
}

func TestSetQuantityMissingLineIsNotFound(t *testing.T) {
	repo := &fakeCartRepo{affected: 0}
	svc := newCartService(t, repo, &fakeProducts{})

	err := svc.SetQuantity(context.Background(), uuid.New(), uuid.New(), 3)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListTotalsMatchCheckoutQuote(t *testing.T) {
	product := activeProduct(t, "Walnut Desk", "300.00")
	userID := uuid.New()
	repo := &fakeCartRepo{lines: []models.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: product.ID, Quantity: 2},
	}}
	svc := newCartService(t, repo, &fakeProducts{products: map[uuid.UUID]*models.Product{product.ID: product}})

	cart, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := checkout.Quote([]checkout.QuoteItem{{UnitPrice: product.Price, Quantity: 2}}, testPricing(t))
	if !cart.Totals.Total.Equal(want.Total) {
		t.Fatalf("preview total = %s, want checkout total %s", cart.Totals.Total, want.Total)
	}
	if !cart.Items[0].LineTotal.Equal(price(t, "600.00")) {
		t.Fatalf("line total = %s, want 600.00", cart.Items[0].LineTotal)
	}
}

func TestListToleratesVanishedProduct(t *testing.T) {
	userID := uuid.New()
	repo := &fakeCartRepo{lines: []models.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), Quantity: 1},
	}}
	svc := newCartService(t, repo, &fakeProducts{products: map[uuid.UUID]*models.Product{}})

	cart, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("List should tolerate a vanished product, got %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("items = %d, want the orphaned line kept", len(cart.Items))
	}
	if cart.Items[0].ProductName != "" || !cart.Items[0].UnitPrice.IsZero() {
		t.Fatalf("orphaned line should carry zeroed product data: %+v", cart.Items[0])
	}
	if !cart.Totals.Total.IsZero() {
		t.Fatalf("orphaned lines must not price the preview, got %s", cart.Totals.Total)
	}
}

func TestMergeGuestCartNilUserIsNoOp(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := newCartService(t, repo, &fakeProducts{})

	result, err := svc.MergeGuestCart(context.Background(), uuid.Nil, []GuestItem{{ProductID: uuid.New(), Quantity: 1}})
	if err != nil {
		t.Fatalf("MergeGuestCart: %v", err)
	}
	if result.Merged != 0 || len(repo.upserts) != 0 {
		t.Fatalf("nil user must merge nothing, merged=%d upserts=%d", result.Merged, len(repo.upserts))
	}
}

func TestMergeGuestCartIsBestEffortAndOrdered(t *testing.T) {
	good1 := activeProduct(t, "Bench", "120.00")
	good2 := activeProduct(t, "Stool", "60.00")
	failing := activeProduct(t, "Cursed Shelf", "99.00")

	repo := &fakeCartRepo{upsertErrs: map[uuid.UUID]error{failing.ID: errors.New("insert failed")}}
	products := &fakeProducts{products: map[uuid.UUID]*models.Product{
		good1.ID:   good1,
		good2.ID:   good2,
		failing.ID: failing,
	}}
	svc := newCartService(t, repo, products)

	result, err := svc.MergeGuestCart(context.Background(), uuid.New(), []GuestItem{
		{ProductID: good1.ID, Quantity: 2},
		{ProductID: uuid.New(), Quantity: 1}, // unknown product, skipped
		{ProductID: failing.ID, Quantity: 1}, // storage failure, skipped
		{ProductID: good2.ID, Quantity: 3},
		{ProductID: good1.ID, Quantity: 0}, // non-positive, skipped
	})
	if err != nil {
		t.Fatalf("MergeGuestCart: %v", err)
	}
	if result.Merged != 2 {
		t.Fatalf("merged = %d, want 2", result.Merged)
	}
	if len(repo.upserts) != 2 {
		t.Fatalf("upserts = %d, want 2", len(repo.upserts))
	}
	if repo.upserts[0].productID != good1.ID || repo.upserts[0].quantity != 2 {
		t.Fatalf("first merge line out of order: %+v", repo.upserts[0])
	}
	if repo.upserts[1].productID != good2.ID || repo.upserts[1].quantity != 3 {
		t.Fatalf("second merge line out of order: %+v", repo.upserts[1])
	}
}
