package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberwick/emberwick-backend/internal/orders"
	"github.com/emberwick/emberwick-backend/pkg/db/models"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Detail is a customer with their recent orders.
type Detail struct {
	Customer models.Customer
	Orders   []models.Order
}

// AdminService exposes back-office customer reads.
type AdminService interface {
	ListCustomers(ctx context.Context, params pagination.Params) (*ListResult, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*Detail, error)
}

type adminService struct {
	repo      *Repository
	orderRepo *orders.Repository
}

// NewAdminService constructs the back-office customer service.
func NewAdminService(repo *Repository, orderRepo *orders.Repository) (AdminService, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &adminService{repo: repo, orderRepo: orderRepo}, nil
}

func (s *adminService) ListCustomers(ctx context.Context, params pagination.Params) (*ListResult, error) {
	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return result, nil
}

func (s *adminService) GetCustomer(ctx context.Context, id uuid.UUID) (*Detail, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	history, err := s.orderRepo.List(ctx, orders.ListQuery{CustomerID: &id})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer orders")
	}

	return &Detail{Customer: *customer, Orders: history.Orders}, nil
}
