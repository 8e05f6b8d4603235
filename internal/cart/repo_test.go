package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  selected_color TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id, selected_color)
);`
	require.NoError(t, db.Exec(schema).Error)

	return db
}

func TestUpsertInsertsThenIncrements(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, userID, productID, "Walnut", 1))
	require.NoError(t, repo.Upsert(ctx, userID, productID, "Walnut", 2))

	items, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Walnut", items[0].SelectedColor)
}

func TestUpsertTreatsColorsAsDistinctLines(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, userID, productID, "Walnut", 1))
	require.NoError(t, repo.Upsert(ctx, userID, productID, "Oak", 1))
	require.NoError(t, repo.Upsert(ctx, userID, productID, "", 1))

	items, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestUpsertDoesNotCrossUsers(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, repo.Upsert(ctx, alice, productID, "", 1))
	require.NoError(t, repo.Upsert(ctx, bob, productID, "", 5))

	aliceItems, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, aliceItems, 1)
	assert.Equal(t, 1, aliceItems[0].Quantity)
}

func TestSetQuantityIsOwnershipFiltered(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	intruder := uuid.New()
	productID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, owner, productID, "", 1))
	items, err := repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 1)

	affected, err := repo.SetQuantity(ctx, intruder, items[0].ID, 9)
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = repo.SetQuantity(ctx, owner, items[0].ID, 9)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	items, err = repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 9, items[0].Quantity)
}

func TestDeleteAndClear(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, userID, uuid.New(), "", 1))
	require.NoError(t, repo.Upsert(ctx, userID, uuid.New(), "", 2))

	items, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	affected, err := repo.Delete(ctx, userID, items[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = repo.Delete(ctx, userID, items[0].ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	require.NoError(t, repo.Clear(ctx, userID))
	items, err = repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
