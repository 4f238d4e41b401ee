package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/emberwick/emberwick-backend/pkg/enums"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminService exposes back-office order management. Orders are only ever
// created by checkout; the back office reads them and moves status.
type AdminService interface {
	ListOrders(ctx context.Context, query ListQuery) (*ListResult, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Order, error)
}

type adminService struct {
	repo *Repository
}

// NewAdminService constructs the back-office order service.
func NewAdminService(repo *Repository) (AdminService, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &adminService{repo: repo}, nil
}

func (s *adminService) ListOrders(ctx context.Context, query ListQuery) (*ListResult, error) {
	result, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return result, nil
}

func (s *adminService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *adminService) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", next))
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next),
		)
	}

	order.Status = next
	if next == enums.OrderStatusCanceled {
		now := time.Now().UTC()
		order.CanceledAt = &now
	}

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return updated, nil
}
