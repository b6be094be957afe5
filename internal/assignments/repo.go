package assignments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
)

// Repository handles assignment persistence. The session resolver consumes
// it through a narrow interface, so the read methods preload warehouse and
// store names for choice presentation.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to assignment operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns the user's grants in a stable order.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).
		Preload("Warehouse").
		Preload("Store").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindByID loads one assignment with its warehouse and store.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		Preload("Warehouse").
		Preload("Store").
		Where("id = ?", id).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create persists a new grant. Duplicate tuples surface as the database's
// unique violation for the service to classify.
func (r *Repository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment == nil {
		return fmt.Errorf("assignment is required")
	}
	return r.db.WithContext(ctx).Create(assignment).Error
}

// Delete removes a grant.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Assignment{}, "id = ?", id).Error
}
