package fulfillment

import (
	"time"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	"github.com/warehouse360/warehouse360-backend/pkg/pagination"
)

// OrderDTO is the API representation of an order fulfillment row.
type OrderDTO struct {
	ID                   uuid.UUID         `json:"id"`
	StoreID              *uuid.UUID        `json:"store_id,omitempty"`
	StoreName            string            `json:"store_name,omitempty"`
	ProductID            *uuid.UUID        `json:"product_id,omitempty"`
	ProductName          string            `json:"product_name,omitempty"`
	CodeType             string            `json:"code_type,omitempty"`
	TeamCode             string            `json:"team_code,omitempty"`
	SupplierOrderID      string            `json:"supplier_order_id,omitempty"`
	Quantity             int               `json:"quantity"`
	AmazonOrderID        string            `json:"amazon_order_id,omitempty"`
	ShippingLabelURL     *string           `json:"shipping_label_url,omitempty"`
	ExpectedDeliveryDate *time.Time        `json:"expected_delivery_date,omitempty"`
	TrackerID            string            `json:"tracker_id,omitempty"`
	Notes                string            `json:"notes,omitempty"`
	Status               enums.OrderStatus `json:"status"`
	CreatedBy            *uuid.UUID        `json:"created_by,omitempty"`
	ActionTakenBy        *uuid.UUID        `json:"action_taken_by,omitempty"`
	ActionTakenAt        *time.Time        `json:"action_taken_at,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// ToOrderDTO maps a model row into its API shape.
func ToOrderDTO(order *models.OrderFulfillment) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:                   order.ID,
		StoreID:              order.StoreID,
		ProductID:            order.ProductID,
		CodeType:             order.CodeType,
		TeamCode:             order.TeamCode,
		SupplierOrderID:      order.SupplierOrderID,
		Quantity:             order.Quantity,
		AmazonOrderID:        order.AmazonOrderID,
		ShippingLabelURL:     order.ShippingLabelURL,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		TrackerID:            order.TrackerID,
		Notes:                order.Notes,
		Status:               order.Status,
		CreatedBy:            order.CreatedByID,
		ActionTakenBy:        order.ActionTakenByID,
		ActionTakenAt:        order.ActionTakenAt,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
	if order.Store != nil {
		dto.StoreName = order.Store.StoreName
	}
	if order.Product != nil {
		dto.ProductName = order.Product.ProductName
	}
	return dto
}

// CreateOrderInput carries the fields an actor may set at creation. Status
// is always pending and is not part of the input.
type CreateOrderInput struct {
	StoreID              uuid.UUID
	ProductID            *uuid.UUID
	CodeType             string
	TeamCode             string
	SupplierOrderID      string
	Quantity             int
	AmazonOrderID        string
	ShippingLabelURL     *string
	ExpectedDeliveryDate *time.Time
	TrackerID            string
	Notes                string
}

// UpdateOrderInput is a partial update; nil fields stay untouched. Status
// changes go through transitions, never through edits.
type UpdateOrderInput struct {
	StoreID              *uuid.UUID
	ProductID            *uuid.UUID
	CodeType             *string
	TeamCode             *string
	SupplierOrderID      *string
	Quantity             *int
	AmazonOrderID        *string
	ShippingLabelURL     *string
	ExpectedDeliveryDate *time.Time
	TrackerID            *string
	Notes                *string
}

// ListFilter narrows an order listing within the caller's scope.
type ListFilter struct {
	Status  *enums.OrderStatus
	StoreID *uuid.UUID
	Search  string
	Page    pagination.Params
}

// OrderPage is one cursor page of orders.
type OrderPage struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// StatusCount is one dashboard queue bucket.
type StatusCount struct {
	Status enums.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}
