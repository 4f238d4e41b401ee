package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes the storefront-facing catalog read paths. Only active
// products are visible here; back-office management lives on AdminService.
type Service interface {
	ListProducts(ctx context.Context, params pagination.Params, search string) (*ListResult, error)
	GetProduct(ctx context.Context, slug string) (*models.Product, error)
}

type service struct {
	repo *Repository
}

// NewService constructs the storefront catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, search string) (*ListResult, error) {
	result, err := s.repo.List(ctx, ListQuery{
		Pagination: params,
		ActiveOnly: true,
		Search:     search,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *service) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		// Deactivated products disappear from the storefront entirely.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
