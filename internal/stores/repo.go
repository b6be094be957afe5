package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns stores visible under the scope, warehouse preloaded.
func (r *Repository) List(ctx context.Context, scope authz.Scope) ([]models.Store, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Preload("Warehouse")

	query = applyStoreScope(query, scope)

	var stores []models.Store
	if err := query.Order("store_name ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Options returns the active stores feeding a dependent dropdown, optionally
// narrowed to one warehouse on top of the scope.
func (r *Repository) Options(ctx context.Context, scope authz.Scope, warehouseID *uuid.UUID) ([]models.Store, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("stores.is_active = ?", true)

	query = applyStoreScope(query, scope)
	if warehouseID != nil {
		query = query.Where("stores.warehouse_id = ?", *warehouseID)
	}

	var stores []models.Store
	if err := query.Order("store_name ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// FindByID loads a store with its warehouse.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Preload("Warehouse").
		Where("id = ?", id).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Create(store).Error
}

// Update saves the provided store.
func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	if store == nil {
		return fmt.Errorf("store is required")
	}
	return r.db.WithContext(ctx).Save(store).Error
}

// Delete removes a store. Orders keep their rows with store nulled out.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Store{}, "id = ?", id).Error
}

func applyStoreScope(query *gorm.DB, scope authz.Scope) *gorm.DB {
	switch {
	case scope.All:
		return query
	case scope.WarehouseID != nil:
		return query.Where("stores.warehouse_id = ?", *scope.WarehouseID)
	case len(scope.StoreIDs) > 0:
		return query.Where("stores.id IN ?", scope.StoreIDs)
	default:
		return query.Where("1 = 0")
	}
}
