package warehouses

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
)

// Repository handles warehouse persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to warehouse operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all warehouses ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// FindByID loads a warehouse by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&warehouse).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

// Create persists a new warehouse row.
func (r *Repository) Create(ctx context.Context, warehouse *models.Warehouse) error {
	if warehouse == nil {
		return fmt.Errorf("warehouse is required")
	}
	return r.db.WithContext(ctx).Create(warehouse).Error
}

// Update saves the provided warehouse.
func (r *Repository) Update(ctx context.Context, warehouse *models.Warehouse) error {
	if warehouse == nil {
		return fmt.Errorf("warehouse is required")
	}
	return r.db.WithContext(ctx).Save(warehouse).Error
}

// Delete removes a warehouse; stores cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Warehouse{}, "id = ?", id).Error
}
