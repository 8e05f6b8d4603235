package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/pkg/db/models"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
)

// Service exposes order history reads.
type Service interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListAll(ctx context.Context) ([]OrderDTO, error)
}

type historyRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	FindByIDForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
}

type service struct {
	repo historyRepository
}

// NewService constructs the order history service.
func NewService(repo historyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return fromModels(list), nil
}

// GetByID is ownership filtered; an order belonging to someone else is
// indistinguishable from a missing one.
func (s *service) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}
	return FromModel(order), nil
}

func (s *service) ListAll(ctx context.Context) ([]OrderDTO, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list all orders")
	}
	return fromModels(list), nil
}
