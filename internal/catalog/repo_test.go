package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/emberwick/emberwick-backend/pkg/db/models"
	"github.com/emberwick/emberwick-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  scent_notes TEXT,
  image_url TEXT,
  unit_price NUMERIC NOT NULL,
  sale_price NUMERIC,
  inventory_qty INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func mustCreateCatalogProduct(t *testing.T, db *gorm.DB, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:           uuid.New(),
		Name:         "Cedar & Smoke",
		Slug:         fmt.Sprintf("cedar-smoke-%s", uuid.NewString()),
		UnitPrice:    decimal.RequireFromString("40.00"),
		InventoryQty: 25,
		IsActive:     true,
	}
	if mutate != nil {
		mutate(product)
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryProductLifecycle(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := mustCreateCatalogProduct(t, db, nil)

	bySlug, err := repo.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Slug, byID.Slug)

	byID.Name = "Cedar & Smoke No. 2"
	_, err = repo.Update(ctx, byID)
	require.NoError(t, err)

	refetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cedar & Smoke No. 2", refetched.Name)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListActiveOnly(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateCatalogProduct(t, db, nil)
	mustCreateCatalogProduct(t, db, func(p *models.Product) {
		p.IsActive = false
	})

	result, err := repo.List(ctx, ListQuery{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.True(t, result.Products[0].IsActive)

	all, err := repo.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Products, 2)
}

func TestRepositoryListPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		mustCreateCatalogProduct(t, db, func(p *models.Product) {
			p.CreatedAt = ts
			p.UpdatedAt = ts
		})
	}

	first, err := repo.List(ctx, ListQuery{Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(ctx, ListQuery{Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor}})
	require.NoError(t, err)
	require.Len(t, second.Products, 2)

	seen := map[uuid.UUID]bool{}
	for _, p := range append(first.Products, second.Products...) {
		assert.False(t, seen[p.ID], "product %s appeared twice", p.ID)
		seen[p.ID] = true
	}
}

func TestRepositoryDecrementInventory(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateCatalogProduct(t, db, func(p *models.Product) {
		p.InventoryQty = 3
	})

	require.NoError(t, repo.DecrementInventory(ctx, product.ID, 2))

	refetched, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refetched.InventoryQty)

	err = repo.DecrementInventory(ctx, product.ID, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
