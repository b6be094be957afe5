package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

// Role is the lookup row mirroring the closed role enum. At most one row
// exists per name value; the table is seeded by migration.
type Role struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      enums.Role `gorm:"column:name;type:text;not null;uniqueIndex"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
