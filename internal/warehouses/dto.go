package warehouses

import (
	"time"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
)

// WarehouseDTO is the API representation of a warehouse.
type WarehouseDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToWarehouseDTO maps a model row into its API shape.
func ToWarehouseDTO(w *models.Warehouse) *WarehouseDTO {
	if w == nil {
		return nil
	}
	return &WarehouseDTO{
		ID:        w.ID,
		Name:      w.Name,
		Location:  w.Location,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// CreateWarehouseInput carries the fields for a new warehouse.
type CreateWarehouseInput struct {
	Name     string
	Location string
}

// UpdateWarehouseInput is a partial update; nil fields stay untouched.
type UpdateWarehouseInput struct {
	Name     *string
	Location *string
}
