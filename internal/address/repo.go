package address

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
)

// Repository exposes address book persistence, always filtered by owner.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an address repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByUser returns the user's addresses, default first then oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindByIDForUser loads one address only when it belongs to the user.
func (r *Repository) FindByIDForUser(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	if err := r.db.WithContext(ctx).
		First(&addr, "id = ? AND user_id = ?", addressID, userID).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}

// CountByUser reports how many addresses the user has saved.
func (r *Repository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Create inserts a new address row.
func (r *Repository) Create(ctx context.Context, addr *models.Address) (*models.Address, error) {
	if addr.ID == uuid.Nil {
		addr.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(addr).Error; err != nil {
		return nil, err
	}
	return addr, nil
}

// Update saves all address fields.
func (r *Repository) Update(ctx context.Context, addr *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Save(addr).Error; err != nil {
		return nil, err
	}
	return addr, nil
}

// Delete removes one address owned by the user.
func (r *Repository) Delete(ctx context.Context, userID, addressID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&models.Address{})
	return result.RowsAffected, result.Error
}

// ClearDefault unsets is_default on every address the user owns.
func (r *Repository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		UpdateColumn("is_default", false).Error
}

// SetDefault marks one owned address as the default.
func (r *Repository) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		UpdateColumn("is_default", true)
	return result.RowsAffected, result.Error
}

// OldestByUser returns the earliest created address, used to promote a new
// default after a delete.
func (r *Repository) OldestByUser(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&addr).Error; err != nil {
		return nil, err
	}
	return &addr, nil
}
