package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

// Assignment grants a user a role at a warehouse, optionally narrowed to a
// single store. The full (user, warehouse, role, store) tuple is unique.
// Store manager rows bind a store; warehouse-level roles leave it null.
type Assignment struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	WarehouseID uuid.UUID  `gorm:"column:warehouse_id;type:uuid;not null;index"`
	Role        enums.Role `gorm:"column:role;type:text;not null"`
	StoreID     *uuid.UUID `gorm:"column:store_id;type:uuid"`
	Warehouse   *Warehouse `gorm:"foreignKey:WarehouseID"`
	Store       *Store     `gorm:"foreignKey:StoreID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
