package address

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
)

func setupAddressTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  full_name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  address_line1 TEXT NOT NULL,
  address_line2 TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT '',
  postal_code TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT 'Italy',
  is_default BOOLEAN NOT NULL DEFAULT FALSE,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM addresses")
	})

	return db
}

func seedAddress(t *testing.T, repo *Repository, userID uuid.UUID, city string, isDefault bool, createdAt time.Time) *models.Address {
	t.Helper()
	addr, err := repo.Create(context.Background(), &models.Address{
		UserID:       userID,
		FullName:     "Giulia Ferri",
		AddressLine1: "Via Roma 1",
		City:         city,
		PostalCode:   "20121",
		Country:      "Italy",
		IsDefault:    isDefault,
		CreatedAt:    createdAt,
	})
	require.NoError(t, err)
	return addr
}

func TestListByUserOrdersDefaultFirst(t *testing.T) {
	db := setupAddressTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedAddress(t, repo, userID, "Milano", false, base)
	seedAddress(t, repo, userID, "Torino", true, base.Add(time.Hour))
	seedAddress(t, repo, userID, "Bologna", false, base.Add(2*time.Hour))

	list, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Torino", list[0].City)
	assert.Equal(t, "Milano", list[1].City)
	assert.Equal(t, "Bologna", list[2].City)
}

func TestFindByIDForUserIsOwnershipFiltered(t *testing.T) {
	db := setupAddressTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	intruder := uuid.New()
	addr := seedAddress(t, repo, owner, "Milano", true, time.Now().UTC())

	found, err := repo.FindByIDForUser(ctx, owner, addr.ID)
	require.NoError(t, err)
	assert.Equal(t, addr.ID, found.ID)

	_, err = repo.FindByIDForUser(ctx, intruder, addr.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClearAndSetDefault(t *testing.T) {
	db := setupAddressTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	first := seedAddress(t, repo, userID, "Milano", true, base)
	second := seedAddress(t, repo, userID, "Torino", false, base.Add(time.Hour))

	require.NoError(t, repo.ClearDefault(ctx, userID))
	affected, err := repo.SetDefault(ctx, userID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	list, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
	assert.Equal(t, first.ID, list[1].ID)
	assert.False(t, list[1].IsDefault)
}

func TestSetDefaultForeignAddressAffectsNothing(t *testing.T) {
	db := setupAddressTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	addr := seedAddress(t, repo, owner, "Milano", true, time.Now().UTC())

	affected, err := repo.SetDefault(ctx, uuid.New(), addr.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestDeleteAndOldestByUser(t *testing.T) {
	db := setupAddressTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	oldest := seedAddress(t, repo, userID, "Milano", true, base)
	seedAddress(t, repo, userID, "Torino", false, base.Add(time.Hour))

	affected, err := repo.Delete(ctx, userID, oldest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	remaining, err := repo.OldestByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Torino", remaining.City)

	affected, err = repo.Delete(ctx, userID, oldest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
