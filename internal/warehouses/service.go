package warehouses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
)

type warehouseRepository interface {
	List(ctx context.Context) ([]models.Warehouse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	Create(ctx context.Context, warehouse *models.Warehouse) error
	Update(ctx context.Context, warehouse *models.Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes warehouse operations. Warehouses are super-admin
// territory; every other role is refused outright.
type Service interface {
	List(ctx context.Context, actor authz.ActiveContext) ([]WarehouseDTO, error)
	GetByID(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*WarehouseDTO, error)
	Create(ctx context.Context, actor authz.ActiveContext, input CreateWarehouseInput) (*WarehouseDTO, error)
	Update(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, input UpdateWarehouseInput) (*WarehouseDTO, error)
	Delete(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) error
}

type service struct {
	repo warehouseRepository
}

// NewService builds the warehouse service.
func NewService(repo warehouseRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, actor authz.ActiveContext) ([]WarehouseDTO, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.ResourceWarehouse); err != nil {
		return nil, err
	}

	warehouses, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list warehouses")
	}

	out := make([]WarehouseDTO, 0, len(warehouses))
	for i := range warehouses {
		out = append(out, *ToWarehouseDTO(&warehouses[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*WarehouseDTO, error) {
	if err := authz.Authorize(actor, authz.ActionRead, authz.ResourceWarehouse); err != nil {
		return nil, err
	}
	warehouse, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToWarehouseDTO(warehouse), nil
}

func (s *service) Create(ctx context.Context, actor authz.ActiveContext, input CreateWarehouseInput) (*WarehouseDTO, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.ResourceWarehouse); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse name is required")
	}

	warehouse := &models.Warehouse{Name: name, Location: strings.TrimSpace(input.Location)}
	if err := s.repo.Create(ctx, warehouse); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create warehouse")
	}
	return ToWarehouseDTO(warehouse), nil
}

func (s *service) Update(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, input UpdateWarehouseInput) (*WarehouseDTO, error) {
	if err := authz.Authorize(actor, authz.ActionEdit, authz.ResourceWarehouse); err != nil {
		return nil, err
	}

	warehouse, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse name is required")
		}
		warehouse.Name = name
	}
	if input.Location != nil {
		warehouse.Location = strings.TrimSpace(*input.Location)
	}

	if err := s.repo.Update(ctx, warehouse); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update warehouse")
	}
	return ToWarehouseDTO(warehouse), nil
}

func (s *service) Delete(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) error {
	if err := authz.Authorize(actor, authz.ActionDelete, authz.ResourceWarehouse); err != nil {
		return err
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete warehouse")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
	}
	return warehouse, nil
}
