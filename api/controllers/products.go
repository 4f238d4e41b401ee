package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/emberwick/emberwick-backend/api/responses"
	"github.com/emberwick/emberwick-backend/api/validators"
	"github.com/emberwick/emberwick-backend/internal/catalog"
	"github.com/emberwick/emberwick-backend/pkg/db/models"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/logger"
	"github.com/emberwick/emberwick-backend/pkg/money"
)

// ProductList serves the storefront catalog grid. Only active products
// appear here.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		search := strings.TrimSpace(r.URL.Query().Get("search"))

		result, err := svc.ListProducts(r.Context(), params, search)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductListResponse(result))
	}
}

// ProductGet serves one product detail page by slug.
func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		product, err := svc.GetProduct(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

type productResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description,omitempty"`
	ScentNotes       []string  `json:"scent_notes,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	UnitPrice        string    `json:"unit_price"`
	SalePrice        *string   `json:"sale_price,omitempty"`
	CurrentUnitPrice string    `json:"current_unit_price"`
	OnSale           bool      `json:"on_sale"`
	InStock          bool      `json:"in_stock"`
	CreatedAt        time.Time `json:"created_at"`
}

type productListResponse struct {
	Products   []productResponse `json:"products"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func newProductResponse(product *models.Product) productResponse {
	resp := productResponse{
		ID:               product.ID,
		Name:             product.Name,
		Slug:             product.Slug,
		Description:      product.Description,
		ScentNotes:       product.ScentNotes,
		ImageURL:         product.ImageURL,
		UnitPrice:        money.Format(product.UnitPrice),
		CurrentUnitPrice: money.Format(product.CurrentUnitPrice()),
		OnSale:           product.SalePrice != nil,
		InStock:          product.InventoryQty > 0,
		CreatedAt:        product.CreatedAt,
	}
	if product.SalePrice != nil {
		sale := money.Format(*product.SalePrice)
		resp.SalePrice = &sale
	}
	return resp
}

func newProductListResponse(result *catalog.ListResult) productListResponse {
	products := make([]productResponse, 0, len(result.Products))
	for i := range result.Products {
		products = append(products, newProductResponse(&result.Products[i]))
	}
	return productListResponse{Products: products, NextCursor: result.NextCursor}
}
