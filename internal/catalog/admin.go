package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminService exposes back-office product management.
type AdminService interface {
	ListProducts(ctx context.Context, params pagination.Params, search string) (*ListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name         string
	Slug         string
	Description  string
	ScentNotes   []string
	ImageURL     string
	UnitPrice    decimal.Decimal
	SalePrice    *decimal.Decimal
	InventoryQty int
	IsActive     bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name         *string
	Slug         *string
	Description  *string
	ScentNotes   *[]string
	ImageURL     *string
	UnitPrice    *decimal.Decimal
	SalePrice    *decimal.Decimal
	ClearSale    bool
	InventoryQty *int
	IsActive     *bool
}

type adminService struct {
	repo *Repository
}

// NewAdminService constructs the back-office catalog service.
func NewAdminService(repo *Repository) (AdminService, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &adminService{repo: repo}, nil
}

func (s *adminService) ListProducts(ctx context.Context, params pagination.Params, search string) (*ListResult, error) {
	result, err := s.repo.List(ctx, ListQuery{Pagination: params, Search: search})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *adminService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *adminService) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	slug := normalizeSlug(input.Slug)
	if err := validatePricing(input.UnitPrice, input.SalePrice); err != nil {
		return nil, err
	}
	if input.InventoryQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory_qty cannot be negative")
	}

	taken, err := s.repo.SlugExists(ctx, slug, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
	}

	product := &models.Product{
		ID:           uuid.New(),
		Name:         input.Name,
		Slug:         slug,
		Description:  input.Description,
		ScentNotes:   pq.StringArray(input.ScentNotes),
		ImageURL:     input.ImageURL,
		UnitPrice:    input.UnitPrice,
		SalePrice:    input.SalePrice,
		InventoryQty: input.InventoryQty,
		IsActive:     input.IsActive,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *adminService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Slug != nil {
		slug := normalizeSlug(*input.Slug)
		taken, err := s.repo.SlugExists(ctx, slug, &id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		product.Slug = slug
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.ScentNotes != nil {
		product.ScentNotes = pq.StringArray(*input.ScentNotes)
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.UnitPrice != nil {
		product.UnitPrice = *input.UnitPrice
	}
	if input.ClearSale {
		product.SalePrice = nil
	} else if input.SalePrice != nil {
		product.SalePrice = input.SalePrice
	}
	if input.InventoryQty != nil {
		if *input.InventoryQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory_qty cannot be negative")
		}
		product.InventoryQty = *input.InventoryQty
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := validatePricing(product.UnitPrice, product.SalePrice); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// validatePricing enforces the sale-never-raises-price rule at the only
// write paths products have.
func validatePricing(unitPrice decimal.Decimal, salePrice *decimal.Decimal) error {
	if unitPrice.Sign() < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
	}
	if salePrice != nil {
		if salePrice.Sign() < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale_price cannot be negative")
		}
		if salePrice.GreaterThan(unitPrice) {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale_price cannot exceed unit_price")
		}
	}
	return nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
