package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

// Product is master data keyed by a unique external code (ASIN or UPC).
type Product struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string          `gorm:"column:code;type:text;not null;uniqueIndex"`
	ProductName      string          `gorm:"column:product_name;type:text;not null"`
	CodeType         enums.CodeType  `gorm:"column:code_type;type:text;not null"`
	ProductImageLink *string         `gorm:"column:product_image_link"`
	MinimumPrice     decimal.Decimal `gorm:"column:minimum_price;type:numeric(12,2);not null;default:0"`
	CreatedByID      *uuid.UUID      `gorm:"column:created_by;type:uuid"`
	CreatedBy        *User           `gorm:"foreignKey:CreatedByID"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
