package address

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodkari/woodkari-backend/pkg/db"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
)

func newAddressService(t *testing.T) (Service, *Repository) {
	t.Helper()
	conn := setupAddressTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(db.NewWithConn(conn), repo)
	require.NoError(t, err)
	return svc, repo
}

func validRequest(city string) UpsertRequest {
	return UpsertRequest{
		FullName:     "Giulia Ferri",
		Phone:        "+39 333 1234567",
		AddressLine1: "Via Roma 1",
		City:         city,
		PostalCode:   "20121",
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()

	req := validRequest("Milano")
	req.PostalCode = "   "
	_, err := svc.Create(ctx, uuid.New(), req)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestFirstAddressBecomesDefault(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, validRequest("Milano"))
	require.NoError(t, err)
	assert.True(t, created.IsDefault)
	assert.Equal(t, "Italy", created.Country)
}

func TestCreateAsDefaultDemotesThePreviousDefault(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, validRequest("Milano"))
	require.NoError(t, err)

	req := validRequest("Torino")
	req.IsDefault = true
	second, err := svc.Create(ctx, userID, req)
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	for _, a := range list {
		if a.ID == first.ID {
			assert.False(t, a.IsDefault)
		}
	}
}

func TestSecondAddressWithoutFlagStaysNonDefault(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, validRequest("Milano"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, userID, validRequest("Torino"))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestUpdateCannotDemoteTheDefault(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, validRequest("Milano"))
	require.NoError(t, err)

	req := validRequest("Milano")
	req.IsDefault = false
	updated, err := svc.Update(ctx, userID, created.ID, req)
	require.NoError(t, err)
	assert.True(t, updated.IsDefault, "the only default must survive an update")
}

func TestUpdatePromotesWhenFlagged(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, validRequest("Milano"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, userID, validRequest("Torino"))
	require.NoError(t, err)

	req := validRequest("Torino")
	req.IsDefault = true
	updated, err := svc.Update(ctx, userID, second.ID, req)
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	for _, a := range list {
		if a.ID == first.ID {
			assert.False(t, a.IsDefault)
		}
	}
}

func TestUpdateForeignAddressIsNotFound(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), validRequest("Milano"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, uuid.New(), created.ID, validRequest("Milano"))
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteDefaultPromotesTheOldestRemaining(t *testing.T) {
	svc, repo := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	primary, err := svc.Create(ctx, userID, validRequest("Milano"))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	oldest, err := svc.Create(ctx, userID, validRequest("Torino"))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.Create(ctx, userID, validRequest("Bologna"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, primary.ID))

	promoted, err := repo.OldestByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, oldest.ID, promoted.ID)
	assert.True(t, promoted.IsDefault)
}

func TestDeleteLastAddressLeavesEmptyBook(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, validRequest("Milano"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, userID, created.ID))

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteNonDefaultLeavesDefaultAlone(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	primary, err := svc.Create(ctx, userID, validRequest("Milano"))
	require.NoError(t, err)
	extra, err := svc.Create(ctx, userID, validRequest("Torino"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, extra.ID))

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, primary.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
}

func TestSetDefaultSwitchesExactlyOne(t *testing.T) {
	svc, _ := newAddressService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, userID, validRequest("Milano"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, userID, validRequest("Torino"))
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(ctx, userID, second.ID))

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestSetDefaultUnknownAddressIsNotFound(t *testing.T) {
	svc, _ := newAddressService(t)
	err := svc.SetDefault(context.Background(), uuid.New(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}
