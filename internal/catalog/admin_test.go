package catalog

import (
	"context"
	"testing"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminFixture(t *testing.T) (AdminService, *Repository) {
	t.Helper()
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewAdminService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestAdminCreateProduct(t *testing.T) {
	svc, repo := newAdminFixture(t)
	ctx := context.Background()

	sale := decimal.RequireFromString("32.00")
	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:         "Amber Glow",
		Slug:         "  Amber-Glow  ",
		ScentNotes:   []string{"amber", "vanilla"},
		UnitPrice:    decimal.RequireFromString("40.00"),
		SalePrice:    &sale,
		InventoryQty: 12,
		IsActive:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "amber-glow", created.Slug)

	stored, err := repo.GetBySlug(ctx, "amber-glow")
	require.NoError(t, err)
	assert.True(t, stored.CurrentUnitPrice().Equal(sale))
}

func TestAdminCreateProductRejectsSaleAboveUnit(t *testing.T) {
	svc, _ := newAdminFixture(t)

	sale := decimal.RequireFromString("45.00")
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:      "Amber Glow",
		Slug:      "amber-glow",
		UnitPrice: decimal.RequireFromString("40.00"),
		SalePrice: &sale,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAdminCreateProductRejectsDuplicateSlug(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()

	input := CreateProductInput{
		Name:      "Amber Glow",
		Slug:      "amber-glow",
		UnitPrice: decimal.RequireFromString("40.00"),
	}
	_, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestAdminUpdateProductClearsSale(t *testing.T) {
	svc, repo := newAdminFixture(t)
	ctx := context.Background()

	db := repo.db
	product := mustCreateCatalogProduct(t, db, func(p *models.Product) {
		sale := decimal.RequireFromString("30.00")
		p.SalePrice = &sale
	})

	updated, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{ClearSale: true})
	require.NoError(t, err)
	assert.Nil(t, updated.SalePrice)
	assert.True(t, updated.CurrentUnitPrice().Equal(product.UnitPrice))
}

func TestAdminUpdateProductValidatesResultingPricing(t *testing.T) {
	svc, repo := newAdminFixture(t)
	ctx := context.Background()

	product := mustCreateCatalogProduct(t, repo.db, func(p *models.Product) {
		sale := decimal.RequireFromString("30.00")
		p.SalePrice = &sale
	})

	// Lowering the unit price below the standing sale must be refused.
	lower := decimal.RequireFromString("25.00")
	_, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{UnitPrice: &lower})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
