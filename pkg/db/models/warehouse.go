package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a physical site owning zero or more stores.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;type:text;not null"`
	Location  string    `gorm:"column:location;type:text;not null;default:''"`
	Stores    []Store   `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
