package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a sales channel belonging to exactly one warehouse.
type Store struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseID uuid.UUID  `gorm:"column:warehouse_id;type:uuid;not null;index"`
	Warehouse   *Warehouse `gorm:"foreignKey:WarehouseID"`
	StoreName   string     `gorm:"column:store_name;type:text;not null"`
	StoreType   string     `gorm:"column:store_type;type:text;not null;default:''"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
