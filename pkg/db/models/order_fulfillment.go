package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

// OrderFulfillment is the mutable workflow entity moving through the
// shipment pipeline. The order survives deletion of its store or product;
// only the link is nulled out. CreatedBy is stamped once at creation while
// ActionTakenBy/At track the most recent status action, not a history log.
type OrderFulfillment struct {
	ID                   uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID              *uuid.UUID        `gorm:"column:store_id;type:uuid;index"`
	Store                *Store            `gorm:"foreignKey:StoreID"`
	ProductID            *uuid.UUID        `gorm:"column:product_id;type:uuid;index"`
	Product              *Product          `gorm:"foreignKey:ProductID"`
	CodeType             string            `gorm:"column:code_type;type:text;not null;default:''"`
	TeamCode             string            `gorm:"column:team_code;type:text;not null;default:''"`
	SupplierOrderID      string            `gorm:"column:supplier_order_id;type:text;not null;default:''"`
	Quantity             int               `gorm:"column:quantity;not null;default:1"`
	AmazonOrderID        string            `gorm:"column:amazon_order_id;type:text;not null;default:''"`
	ShippingLabelURL     *string           `gorm:"column:shipping_label_url"`
	ExpectedDeliveryDate *time.Time        `gorm:"column:expected_delivery_date"`
	TrackerID            string            `gorm:"column:tracker_id;type:text;not null;default:''"`
	Notes                string            `gorm:"column:notes;type:text;not null;default:''"`
	Status               enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending';index"`
	CreatedByID          *uuid.UUID        `gorm:"column:created_by;type:uuid;index"`
	CreatedBy            *User             `gorm:"foreignKey:CreatedByID"`
	ActionTakenByID      *uuid.UUID        `gorm:"column:action_taken_by;type:uuid"`
	ActionTakenBy        *User             `gorm:"foreignKey:ActionTakenByID"`
	ActionTakenAt        *time.Time        `gorm:"column:action_taken_at"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
