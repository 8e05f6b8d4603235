package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/pkg/db"
	"github.com/woodkari/woodkari-backend/pkg/db/models"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
)

const defaultCountry = "Italy"

// Service manages the customer's address book. At most one address per user
// is the default, and a non-empty book always has exactly one.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req UpsertRequest) (*AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, req UpsertRequest) (*AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	db   *db.Client
	repo *Repository
}

// NewService constructs an address service.
func NewService(client *db.Client, repo *Repository) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("address repository is required")
	}
	return &service{db: client, repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	return fromModels(list), nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req UpsertRequest) (*AddressDTO, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var created *models.Address
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		count, err := repo.CountByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count addresses")
		}

		// The first address is always the default.
		makeDefault := req.IsDefault || count == 0
		if makeDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear default")
			}
		}

		addr := toModel(userID, req)
		addr.IsDefault = makeDefault
		created, err = repo.Create(ctx, addr)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, req UpsertRequest) (*AddressDTO, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var updated *models.Address
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		addr, err := repo.FindByIDForUser(ctx, userID, addressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup address")
		}

		if req.IsDefault && !addr.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear default")
			}
		}

		applyRequest(addr, req)
		// Demoting the only default is not allowed; deletes handle promotion.
		if req.IsDefault {
			addr.IsDefault = true
		}

		updated, err = repo.Update(ctx, addr)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// Delete removes the address; when the default goes away the oldest remaining
// address is promoted so a non-empty book keeps a default.
func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		addr, err := repo.FindByIDForUser(ctx, userID, addressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup address")
		}
		wasDefault := addr.IsDefault

		affected, err := repo.Delete(ctx, userID, addressID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete address")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}

		if wasDefault {
			oldest, err := repo.OldestByUser(ctx, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find promotion candidate")
			}
			if _, err := repo.SetDefault(ctx, userID, oldest.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote default")
			}
		}
		return nil
	})
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.ClearDefault(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear default")
		}
		affected, err := repo.SetDefault(ctx, userID, addressID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set default")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil
	})
}

func validate(req UpsertRequest) error {
	missing := func(field string) error {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" is required").
			WithDetails(map[string]any{"field": field})
	}
	if strings.TrimSpace(req.FullName) == "" {
		return missing("full_name")
	}
	if strings.TrimSpace(req.AddressLine1) == "" {
		return missing("address_line1")
	}
	if strings.TrimSpace(req.City) == "" {
		return missing("city")
	}
	if strings.TrimSpace(req.PostalCode) == "" {
		return missing("postal_code")
	}
	return nil
}

func toModel(userID uuid.UUID, req UpsertRequest) *models.Address {
	addr := &models.Address{UserID: userID}
	applyRequest(addr, req)
	return addr
}

func applyRequest(addr *models.Address, req UpsertRequest) {
	addr.FullName = strings.TrimSpace(req.FullName)
	addr.Phone = strings.TrimSpace(req.Phone)
	addr.AddressLine1 = strings.TrimSpace(req.AddressLine1)
	addr.AddressLine2 = strings.TrimSpace(req.AddressLine2)
	addr.City = strings.TrimSpace(req.City)
	addr.State = strings.TrimSpace(req.State)
	addr.PostalCode = strings.TrimSpace(req.PostalCode)
	addr.Country = strings.TrimSpace(req.Country)
	if addr.Country == "" {
		addr.Country = defaultCountry
	}
}
