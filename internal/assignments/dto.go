package assignments

import (
	"time"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

// AssignmentDTO is the API representation of a role grant.
type AssignmentDTO struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	WarehouseID   uuid.UUID  `json:"warehouse_id"`
	WarehouseName string     `json:"warehouse_name,omitempty"`
	Role          enums.Role `json:"role"`
	StoreID       *uuid.UUID `json:"store_id,omitempty"`
	StoreName     string     `json:"store_name,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToAssignmentDTO maps a model row into its API shape.
func ToAssignmentDTO(a *models.Assignment) *AssignmentDTO {
	if a == nil {
		return nil
	}
	dto := &AssignmentDTO{
		ID:          a.ID,
		UserID:      a.UserID,
		WarehouseID: a.WarehouseID,
		Role:        a.Role,
		StoreID:     a.StoreID,
		CreatedAt:   a.CreatedAt,
	}
	if a.Warehouse != nil {
		dto.WarehouseName = a.Warehouse.Name
	}
	if a.Store != nil {
		dto.StoreName = a.Store.StoreName
	}
	return dto
}

// CreateAssignmentInput carries the grant to create for a user.
type CreateAssignmentInput struct {
	WarehouseID uuid.UUID
	Role        enums.Role
	StoreID     *uuid.UUID
}
