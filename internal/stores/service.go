package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
)

type storeRepository interface {
	List(ctx context.Context, scope authz.Scope) ([]models.Store, error)
	Options(ctx context.Context, scope authz.Scope, warehouseID *uuid.UUID) ([]models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	Create(ctx context.Context, store *models.Store) error
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type warehouseFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
}

// Service exposes store operations.
type Service interface {
	List(ctx context.Context, actor authz.ActiveContext) ([]StoreDTO, error)
	Options(ctx context.Context, actor authz.ActiveContext, warehouseID *uuid.UUID) ([]StoreOptionDTO, error)
	GetByID(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*StoreDTO, error)
	Create(ctx context.Context, actor authz.ActiveContext, input CreateStoreInput) (*StoreDTO, error)
	Update(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Delete(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) error
}

type service struct {
	repo       storeRepository
	warehouses warehouseFinder
}

// NewService builds the store service.
func NewService(repo storeRepository, warehouses warehouseFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if warehouses == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	return &service{repo: repo, warehouses: warehouses}, nil
}

func (s *service) List(ctx context.Context, actor authz.ActiveContext) ([]StoreDTO, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.ResourceStore); err != nil {
		return nil, err
	}

	stores, err := s.repo.List(ctx, authz.StoreScope(actor))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}

	out := make([]StoreDTO, 0, len(stores))
	for i := range stores {
		out = append(out, *ToStoreDTO(&stores[i]))
	}
	return out, nil
}

// Options feeds the store dropdown on the order form. The scope keeps a
// store manager's list to their own stores and an admin's to their
// warehouse, so the same endpoint serves every role.
func (s *service) Options(ctx context.Context, actor authz.ActiveContext, warehouseID *uuid.UUID) ([]StoreOptionDTO, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.ResourceStore); err != nil {
		// Order creation needs store choices even for roles without store
		// CRUD, so fall back to the order-create gate.
		if orderErr := authz.Authorize(actor, authz.ActionCreate, authz.ResourceOrder); orderErr != nil {
			return nil, err
		}
	}

	stores, err := s.repo.Options(ctx, authz.StoreScope(actor), warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store options")
	}

	out := make([]StoreOptionDTO, 0, len(stores))
	for i := range stores {
		out = append(out, StoreOptionDTO{ID: stores[i].ID, StoreName: stores[i].StoreName})
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*StoreDTO, error) {
	if err := authz.Authorize(actor, authz.ActionRead, authz.ResourceStore); err != nil {
		return nil, err
	}

	store, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToStoreDTO(store), nil
}

func (s *service) Create(ctx context.Context, actor authz.ActiveContext, input CreateStoreInput) (*StoreDTO, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.ResourceStore); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.StoreName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	if _, err := s.warehouses.FindByID(ctx, input.WarehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warehouse")
	}
	if err := s.checkWarehouseInScope(actor, input.WarehouseID); err != nil {
		return nil, err
	}

	store := &models.Store{
		WarehouseID: input.WarehouseID,
		StoreName:   name,
		StoreType:   strings.TrimSpace(input.StoreType),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return ToStoreDTO(store), nil
}

func (s *service) Update(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	if err := authz.Authorize(actor, authz.ActionEdit, authz.ResourceStore); err != nil {
		return nil, err
	}

	store, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.StoreName != nil {
		name := strings.TrimSpace(*input.StoreName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
		}
		store.StoreName = name
	}
	if input.StoreType != nil {
		store.StoreType = strings.TrimSpace(*input.StoreType)
	}
	if input.IsActive != nil {
		store.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return ToStoreDTO(store), nil
}

func (s *service) Delete(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) error {
	if err := authz.Authorize(actor, authz.ActionDelete, authz.ResourceStore); err != nil {
		return err
	}
	if _, err := s.findVisible(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}

// findVisible hides stores outside the actor's scope behind not-found.
func (s *service) findVisible(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	scope := authz.StoreScope(actor)
	switch {
	case scope.All:
		return store, nil
	case scope.WarehouseID != nil:
		if store.WarehouseID == *scope.WarehouseID {
			return store, nil
		}
	case len(scope.StoreIDs) > 0:
		if actor.CoversStore(store.ID) {
			return store, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
}

func (s *service) checkWarehouseInScope(actor authz.ActiveContext, warehouseID uuid.UUID) error {
	if actor.IsGlobal() {
		return nil
	}
	if actor.Role == enums.RoleWarehouseAdmin && actor.WarehouseID != nil && *actor.WarehouseID == warehouseID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeWrongWarehouse, "store belongs to another warehouse")
}
