package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
)

// Repository exposes cart persistence. All operations filter on the owning
// user so one customer can never touch another's rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert adds quantity to the (user, product, color) line, inserting it when
// absent. The increment happens inside the database so concurrent adds for
// the same line cannot lose updates.
func (r *Repository) Upsert(ctx context.Context, userID, productID uuid.UUID, selectedColor string, quantity int) error {
	item := models.CartItem{
		ID:            uuid.New(),
		UserID:        userID,
		ProductID:     productID,
		SelectedColor: selectedColor,
		Quantity:      quantity,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "product_id"},
				{Name: "selected_color"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			}),
		}).
		Create(&item).Error
}

// SetQuantity overwrites the line quantity. Returns the affected row count so
// callers can distinguish a missing or foreign line.
func (r *Repository) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		UpdateColumn("quantity", quantity)
	return result.RowsAffected, result.Error
}

// Delete removes one line owned by the user.
func (r *Repository) Delete(ctx context.Context, userID, itemID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// Clear removes every line owned by the user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

// ListByUser returns the user's cart lines oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
