package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	"github.com/warehouse360/warehouse360-backend/pkg/pagination"
)

// Repository handles order fulfillment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one order with its store (and the store's warehouse, which
// the transition warehouse check needs) and product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderFulfillment, error) {
	var order models.OrderFulfillment
	if err := r.db.WithContext(ctx).
		Preload("Store").
		Preload("Store.Warehouse").
		Preload("Product").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns a cursor page of orders restricted to the caller's scope.
func (r *Repository) List(ctx context.Context, scope authz.Scope, filter ListFilter) ([]models.OrderFulfillment, error) {
	query := r.db.WithContext(ctx).
		Model(&models.OrderFulfillment{}).
		Preload("Store").
		Preload("Product")

	query = applyOrderScope(query, scope)

	if filter.Status != nil {
		query = query.Where("order_fulfillments.status = ?", *filter.Status)
	}
	if filter.StoreID != nil {
		query = query.Where("order_fulfillments.store_id = ?", *filter.StoreID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"order_fulfillments.amazon_order_id ILIKE ? OR order_fulfillments.supplier_order_id ILIKE ? OR order_fulfillments.tracker_id ILIKE ?",
			like, like, like,
		)
	}

	cursor, err := pagination.ParseCursor(filter.Page.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(order_fulfillments.created_at, order_fulfillments.id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var orders []models.OrderFulfillment
	if err := query.
		Order("order_fulfillments.created_at DESC, order_fulfillments.id DESC").
		Limit(pagination.LimitWithBuffer(filter.Page.Limit)).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Create persists a new order row.
func (r *Repository) Create(ctx context.Context, order *models.OrderFulfillment) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// Update saves the mutable fields of an order. Status is deliberately
// excluded; it only moves through UpdateStatus.
func (r *Repository) Update(ctx context.Context, order *models.OrderFulfillment) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return r.db.WithContext(ctx).
		Model(&models.OrderFulfillment{}).
		Where("id = ?", order.ID).
		Select(
			"store_id", "product_id", "code_type", "team_code",
			"supplier_order_id", "quantity", "amazon_order_id",
			"shipping_label_url", "expected_delivery_date",
			"tracker_id", "notes",
		).
		Updates(order).Error
}

// UpdateStatus performs the optimistic status move. The WHERE clause pins
// the expected current status so a concurrent transition makes this a
// zero-row update, which the caller surfaces as a conflict.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, actorID uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderFulfillment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":          to,
			"action_taken_by": actorID,
			"action_taken_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CountByStatus feeds the dashboard queues: one count per status within the
// caller's scope, zero-count statuses included.
func (r *Repository) CountByStatus(ctx context.Context, scope authz.Scope) (map[enums.OrderStatus]int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.OrderFulfillment{}).
		Select("order_fulfillments.status, COUNT(*) AS total").
		Group("order_fulfillments.status")

	query = applyOrderScope(query, scope)

	var rows []struct {
		Status enums.OrderStatus
		Total  int64
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// applyOrderScope translates an authorization scope into WHERE clauses.
// The zero scope matches nothing.
func applyOrderScope(query *gorm.DB, scope authz.Scope) *gorm.DB {
	switch {
	case scope.All:
		return query
	case scope.CreatedBy != nil:
		return query.Where("order_fulfillments.created_by = ?", *scope.CreatedBy)
	case scope.WarehouseID != nil:
		return query.
			Joins("JOIN stores ON stores.id = order_fulfillments.store_id").
			Where("stores.warehouse_id = ?", *scope.WarehouseID)
	default:
		return query.Where("1 = 0")
	}
}
