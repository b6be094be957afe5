package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
)

// StoreDTO is the API representation of a store.
type StoreDTO struct {
	ID            uuid.UUID `json:"id"`
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name,omitempty"`
	StoreName     string    `json:"store_name"`
	StoreType     string    `json:"store_type,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StoreOptionDTO is the thin shape the dependent store dropdown consumes.
type StoreOptionDTO struct {
	ID        uuid.UUID `json:"id"`
	StoreName string    `json:"store_name"`
}

// ToStoreDTO maps a model row into its API shape.
func ToStoreDTO(store *models.Store) *StoreDTO {
	if store == nil {
		return nil
	}
	dto := &StoreDTO{
		ID:          store.ID,
		WarehouseID: store.WarehouseID,
		StoreName:   store.StoreName,
		StoreType:   store.StoreType,
		IsActive:    store.IsActive,
		CreatedAt:   store.CreatedAt,
		UpdatedAt:   store.UpdatedAt,
	}
	if store.Warehouse != nil {
		dto.WarehouseName = store.Warehouse.Name
	}
	return dto
}

// CreateStoreInput carries the fields for a new store.
type CreateStoreInput struct {
	WarehouseID uuid.UUID
	StoreName   string
	StoreType   string
}

// UpdateStoreInput is a partial update; nil fields stay untouched.
type UpdateStoreInput struct {
	StoreName *string
	StoreType *string
	IsActive  *bool
}
