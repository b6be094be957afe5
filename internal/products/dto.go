package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

// ProductDTO is the API representation of a product.
type ProductDTO struct {
	ID               uuid.UUID       `json:"id"`
	Code             string          `json:"code"`
	ProductName      string          `json:"product_name"`
	CodeType         enums.CodeType  `json:"code_type"`
	ProductImageLink *string         `json:"product_image_link,omitempty"`
	MinimumPrice     decimal.Decimal `json:"minimum_price"`
	CreatedBy        *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToProductDTO maps a model row into its API shape.
func ToProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:               p.ID,
		Code:             p.Code,
		ProductName:      p.ProductName,
		CodeType:         p.CodeType,
		ProductImageLink: p.ProductImageLink,
		MinimumPrice:     p.MinimumPrice,
		CreatedBy:        p.CreatedByID,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// CreateProductInput carries the fields for a new product.
type CreateProductInput struct {
	Code             string
	ProductName      string
	CodeType         enums.CodeType
	ProductImageLink *string
	MinimumPrice     decimal.Decimal
}

// UpdateProductInput is a partial update; nil fields stay untouched. The
// code itself is immutable once created.
type UpdateProductInput struct {
	ProductName      *string
	ProductImageLink *string
	MinimumPrice     *decimal.Decimal
}

// ListFilter narrows a product listing within the caller's scope.
type ListFilter struct {
	Search string
}
