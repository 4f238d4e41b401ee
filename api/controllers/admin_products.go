package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emberwick/emberwick-backend/api/responses"
	"github.com/emberwick/emberwick-backend/api/validators"
	"github.com/emberwick/emberwick-backend/internal/catalog"
	"github.com/emberwick/emberwick-backend/pkg/db/models"
	pkgerrors "github.com/emberwick/emberwick-backend/pkg/errors"
	"github.com/emberwick/emberwick-backend/pkg/logger"
	"github.com/emberwick/emberwick-backend/pkg/money"
)

// AdminProductList lists products for the back office, inactive included.
func AdminProductList(svc catalog.AdminService, logg *logger.Logger) http.HandlerFunc {
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

		products := make([]adminProductResponse, 0, len(result.Products))
		for i := range result.Products {
			products = append(products, newAdminProductResponse(&result.Products[i]))
		}
		responses.WriteSuccess(w, adminProductListResponse{Products: products, NextCursor: result.NextCursor})
	}
}

// AdminProductGet returns one product by id.
func AdminProductGet(svc catalog.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newAdminProductResponse(product))
	}
}

type createProductRequest struct {
	Name         string   `json:"name" validate:"required"`
	Slug         string   `json:"slug" validate:"required"`
	Description  string   `json:"description"`
	ScentNotes   []string `json:"scent_notes"`
	ImageURL     string   `json:"image_url"`
	UnitPrice    string   `json:"unit_price" validate:"required"`
	SalePrice    *string  `json:"sale_price"`
	InventoryQty int      `json:"inventory_qty" validate:"min=0"`
	IsActive     *bool    `json:"is_active"`
}

// AdminProductCreate creates a catalog entry.
func AdminProductCreate(svc catalog.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unitPrice, err := parseMoneyField(payload.UnitPrice, "unit_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		salePrice, err := parseOptionalMoneyField(payload.SalePrice, "sale_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active := true
		if payload.IsActive != nil {
			active = *payload.IsActive
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Name:         payload.Name,
			Slug:         payload.Slug,
			Description:  payload.Description,
			ScentNotes:   payload.ScentNotes,
			ImageURL:     payload.ImageURL,
			UnitPrice:    unitPrice,
			SalePrice:    salePrice,
			InventoryQty: payload.InventoryQty,
			IsActive:     active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newAdminProductResponse(product))
	}
}

type updateProductRequest struct {
	Name         *string   `json:"name"`
	Slug         *string   `json:"slug"`
	Description  *string   `json:"description"`
	ScentNotes   *[]string `json:"scent_notes"`
	ImageURL     *string   `json:"image_url"`
	UnitPrice    *string   `json:"unit_price"`
	SalePrice    *string   `json:"sale_price"`
	ClearSale    bool      `json:"clear_sale"`
	InventoryQty *int      `json:"inventory_qty"`
	IsActive     *bool     `json:"is_active"`
}

// AdminProductUpdate applies a partial update to a product.
func AdminProductUpdate(svc catalog.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:         payload.Name,
			Slug:         payload.Slug,
			Description:  payload.Description,
			ScentNotes:   payload.ScentNotes,
			ImageURL:     payload.ImageURL,
			ClearSale:    payload.ClearSale,
			InventoryQty: payload.InventoryQty,
			IsActive:     payload.IsActive,
		}
		if payload.UnitPrice != nil {
			unitPrice, err := parseMoneyField(*payload.UnitPrice, "unit_price")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.UnitPrice = &unitPrice
		}
		if payload.SalePrice != nil {
			salePrice, err := parseMoneyField(*payload.SalePrice, "sale_price")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.SalePrice = &salePrice
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newAdminProductResponse(product))
	}
}

// AdminProductDelete removes a product from the catalog.
func AdminProductDelete(svc catalog.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type adminProductResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description,omitempty"`
	ScentNotes       []string  `json:"scent_notes,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	UnitPrice        string    `json:"unit_price"`
	SalePrice        *string   `json:"sale_price,omitempty"`
	CurrentUnitPrice string    `json:"current_unit_price"`
	InventoryQty     int       `json:"inventory_qty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type adminProductListResponse struct {
	Products   []adminProductResponse `json:"products"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

func newAdminProductResponse(product *models.Product) adminProductResponse {
	resp := adminProductResponse{
		ID:               product.ID,
		Name:             product.Name,
		Slug:             product.Slug,
		Description:      product.Description,
		ScentNotes:       product.ScentNotes,
		ImageURL:         product.ImageURL,
		UnitPrice:        money.Format(product.UnitPrice),
		CurrentUnitPrice: money.Format(product.CurrentUnitPrice()),
		InventoryQty:     product.InventoryQty,
		IsActive:         product.IsActive,
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
	if product.SalePrice != nil {
		sale := money.Format(*product.SalePrice)
		resp.SalePrice = &sale
	}
	return resp
}

func parseIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}

func parseMoneyField(value, field string) (decimal.Decimal, error) {
	amount, err := money.Parse(value)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount").
			WithDetails(map[string]any{"field": field})
	}
	return amount, nil
}

func parseOptionalMoneyField(value *string, field string) (*decimal.Decimal, error) {
	if value == nil {
		return nil, nil
	}
	amount, err := parseMoneyField(*value, field)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}
