package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
)

type productRepository interface {
	List(ctx context.Context, scope authz.Scope, filter ListFilter) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes product operations.
type Service interface {
	List(ctx context.Context, actor authz.ActiveContext, filter ListFilter) ([]ProductDTO, error)
	GetByID(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, actor authz.ActiveContext, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) error
}

type service struct {
	repo productRepository
}

// NewService builds the product service.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, actor authz.ActiveContext, filter ListFilter) ([]ProductDTO, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.ResourceProduct); err != nil {
		return nil, err
	}

	products, err := s.repo.List(ctx, authz.ProductScope(actor), filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *ToProductDTO(&products[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*ProductDTO, error) {
	if err := authz.Authorize(actor, authz.ActionRead, authz.ResourceProduct); err != nil {
		return nil, err
	}

	product, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToProductDTO(product), nil
}

func (s *service) Create(ctx context.Context, actor authz.ActiveContext, input CreateProductInput) (*ProductDTO, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.ResourceProduct); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.ProductName)
	if code == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product code and name are required")
	}
	if !input.CodeType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid code type")
	}
	if input.MinimumPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum price cannot be negative")
	}

	actorID := actor.UserID
	product := &models.Product{
		Code:             code,
		ProductName:      name,
		CodeType:         input.CodeType,
		ProductImageLink: input.ProductImageLink,
		MinimumPrice:     input.MinimumPrice,
		CreatedByID:      &actorID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return ToProductDTO(product), nil
}

func (s *service) Update(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if err := authz.Authorize(actor, authz.ActionEdit, authz.ResourceProduct); err != nil {
		return nil, err
	}

	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// Explicit edits refuse loudly on foreign rows, unlike reads.
	if err := authz.CheckOwnership(actor, product.CreatedByID); err != nil {
		return nil, err
	}

	if input.ProductName != nil {
		name := strings.TrimSpace(*input.ProductName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		product.ProductName = name
	}
	if input.ProductImageLink != nil {
		product.ProductImageLink = input.ProductImageLink
	}
	if input.MinimumPrice != nil {
		if input.MinimumPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum price cannot be negative")
		}
		product.MinimumPrice = *input.MinimumPrice
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return ToProductDTO(product), nil
}

func (s *service) Delete(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) error {
	if err := authz.Authorize(actor, authz.ActionDelete, authz.ResourceProduct); err != nil {
		return err
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// findVisible applies the read scope: a store manager only sees products
// they created, and a hidden product is indistinguishable from a missing one.
func (s *service) findVisible(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*models.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := authz.ProductScope(actor)
	switch {
	case scope.All:
		return product, nil
	case scope.CreatedBy != nil:
		if product.CreatedByID != nil && *product.CreatedByID == *scope.CreatedBy {
			return product, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}
