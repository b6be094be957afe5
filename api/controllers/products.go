package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warehouse360/warehouse360-backend/api/responses"
	"github.com/warehouse360/warehouse360-backend/api/validators"
	"github.com/warehouse360/warehouse360-backend/internal/products"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
	"github.com/warehouse360/warehouse360-backend/pkg/logger"
)

// ProductList returns the catalog entries visible to the caller.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		filter := products.ListFilter{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 120),
		}

		list, err := svc.List(r.Context(), actor, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ProductGet returns a single catalog entry.
func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetByID(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type productCreateRequest struct {
	Code             string          `json:"code" validate:"required,min=1,max=100"`
	ProductName      string          `json:"product_name" validate:"required,min=1,max=255"`
	CodeType         string          `json:"code_type" validate:"required"`
	ProductImageLink *string         `json:"product_image_link,omitempty" validate:"omitempty,url"`
	MinimumPrice     decimal.Decimal `json:"minimum_price"`
}

// ProductCreate registers a catalog entry. The code cannot change later.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		var payload productCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		codeType, err := enums.ParseCodeType(payload.CodeType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid code type"))
			return
		}

		product, err := svc.Create(r.Context(), actor, products.CreateProductInput{
			Code:             strings.TrimSpace(payload.Code),
			ProductName:      strings.TrimSpace(payload.ProductName),
			CodeType:         codeType,
			ProductImageLink: payload.ProductImageLink,
			MinimumPrice:     payload.MinimumPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type productUpdateRequest struct {
	ProductName      *string          `json:"product_name,omitempty" validate:"omitempty,min=1,max=255"`
	ProductImageLink *string          `json:"product_image_link,omitempty" validate:"omitempty,url"`
	MinimumPrice     *decimal.Decimal `json:"minimum_price,omitempty"`
}

// ProductUpdate edits a catalog entry's mutable fields.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), actor, id, products.UpdateProductInput{
			ProductName:      payload.ProductName,
			ProductImageLink: payload.ProductImageLink,
			MinimumPrice:     payload.MinimumPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes a catalog entry.
func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
