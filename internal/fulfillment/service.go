package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
	"github.com/warehouse360/warehouse360-backend/pkg/pagination"
)

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderFulfillment, error)
	List(ctx context.Context, scope authz.Scope, filter ListFilter) ([]models.OrderFulfillment, error)
	Create(ctx context.Context, order *models.OrderFulfillment) error
	Update(ctx context.Context, order *models.OrderFulfillment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, actorID uuid.UUID, at time.Time) (bool, error)
	CountByStatus(ctx context.Context, scope authz.Scope) (map[enums.OrderStatus]int64, error)
}

type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes order fulfillment operations. Every method takes the
// actor's active context and applies the authorization rules before any
// mutation.
type Service interface {
	List(ctx context.Context, actor authz.ActiveContext, filter ListFilter) (*OrderPage, error)
	GetByID(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*OrderDTO, error)
	Create(ctx context.Context, actor authz.ActiveContext, input CreateOrderInput) (*OrderDTO, error)
	Update(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	Transition(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, kind enums.TransitionKind) (*OrderDTO, error)
	StatusCounts(ctx context.Context, actor authz.ActiveContext) ([]StatusCount, error)
}

type service struct {
	repo   orderRepository
	stores storeFinder
	now    func() time.Time
}

// NewService builds the fulfillment service.
func NewService(repo orderRepository, stores storeFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo, stores: stores, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, actor authz.ActiveContext, filter ListFilter) (*OrderPage, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.ResourceOrder); err != nil {
		return nil, err
	}

	orders, err := s.repo.List(ctx, authz.OrderScope(actor), filter)
	if err != nil {
		// A bad cursor is the caller's mistake, not a dependency outage.
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	limit := pagination.NormalizeLimit(filter.Page.Limit)
	page := &OrderPage{Items: make([]OrderDTO, 0, len(orders))}
	for i := range orders {
		if i == limit {
			last := orders[limit-1]
			page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		page.Items = append(page.Items, *ToOrderDTO(&orders[i]))
	}
	return page, nil
}

// GetByID loads one order. Reads are scope-filtered rather than ownership
// checked: an order outside the caller's scope looks identical to a missing
// one so listings and detail views agree on what exists.
func (s *service) GetByID(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*OrderDTO, error) {
	if err := authz.Authorize(actor, authz.ActionRead, authz.ResourceOrder); err != nil {
		return nil, err
	}

	order, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToOrderDTO(order), nil
}

func (s *service) Create(ctx context.Context, actor authz.ActiveContext, input CreateOrderInput) (*OrderDTO, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.ResourceOrder); err != nil {
		return nil, err
	}

	store, err := s.stores.FindByID(ctx, input.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if err := s.checkStoreInScope(actor, store); err != nil {
		return nil, err
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	storeID := input.StoreID
	actorID := actor.UserID
	order := &models.OrderFulfillment{
		StoreID:              &storeID,
		ProductID:            input.ProductID,
		CodeType:             input.CodeType,
		TeamCode:             input.TeamCode,
		SupplierOrderID:      input.SupplierOrderID,
		Quantity:             quantity,
		AmazonOrderID:        input.AmazonOrderID,
		ShippingLabelURL:     input.ShippingLabelURL,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		TrackerID:            input.TrackerID,
		Notes:                input.Notes,
		Status:               enums.OrderStatusPending,
		CreatedByID:          &actorID,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	created, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return ToOrderDTO(order), nil
	}
	return ToOrderDTO(created), nil
}

func (s *service) Update(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	if err := authz.Authorize(actor, authz.ActionEdit, authz.ResourceOrder); err != nil {
		return nil, err
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	// An explicit edit of an existing row is refused loudly, unlike reads.
	if err := authz.CheckOwnership(actor, order.CreatedByID); err != nil {
		return nil, err
	}
	if actor.Role == enums.RoleWarehouseAdmin {
		if err := authz.CheckOrderWarehouse(actor, orderWarehouseID(order)); err != nil {
			return nil, err
		}
	}

	if input.StoreID != nil {
		store, err := s.stores.FindByID(ctx, *input.StoreID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}
		if err := s.checkStoreInScope(actor, store); err != nil {
			return nil, err
		}
		order.StoreID = input.StoreID
	}
	if input.ProductID != nil {
		order.ProductID = input.ProductID
	}
	if input.CodeType != nil {
		order.CodeType = *input.CodeType
	}
	if input.TeamCode != nil {
		order.TeamCode = *input.TeamCode
	}
	if input.SupplierOrderID != nil {
		order.SupplierOrderID = *input.SupplierOrderID
	}
	if input.Quantity != nil && *input.Quantity > 0 {
		order.Quantity = *input.Quantity
	}
	if input.AmazonOrderID != nil {
		order.AmazonOrderID = *input.AmazonOrderID
	}
	if input.ShippingLabelURL != nil {
		order.ShippingLabelURL = input.ShippingLabelURL
	}
	if input.ExpectedDeliveryDate != nil {
		order.ExpectedDeliveryDate = input.ExpectedDeliveryDate
	}
	if input.TrackerID != nil {
		order.TrackerID = *input.TrackerID
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ToOrderDTO(order), nil
	}
	return ToOrderDTO(updated), nil
}

// Transition moves an order one step through the pipeline. Order of checks:
// role gate, then warehouse ownership, then the transition table. The status
// write is a compare-and-swap; losing a race with a concurrent actor leaves
// the row untouched by us and reports a conflict.
func (s *service) Transition(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, kind enums.TransitionKind) (*OrderDTO, error) {
	if err := authz.Authorize(actor, authz.ActionTransition, authz.ResourceOrder); err != nil {
		return nil, err
	}
	if !actor.IsGlobal() && !RoleMayTransition(actor.Role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role may not action orders")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if err := authz.CheckOrderWarehouse(actor, orderWarehouseID(order)); err != nil {
		return nil, err
	}

	next, err := NextStatus(order.Status, kind)
	if err != nil {
		return nil, err
	}

	moved, err := s.repo.UpdateStatus(ctx, order.ID, order.Status, next, actor.UserID, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition order")
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return ToOrderDTO(updated), nil
}

func (s *service) StatusCounts(ctx context.Context, actor authz.ActiveContext) ([]StatusCount, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.ResourceOrder); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus(ctx, authz.OrderScope(actor))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	out := make([]StatusCount, 0, 5)
	for _, status := range []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusDelivered,
		enums.OrderStatusOutOfStock,
		enums.OrderStatusReadyToShip,
		enums.OrderStatusCompleted,
	} {
		out = append(out, StatusCount{Status: status, Count: counts[status]})
	}
	return out, nil
}

// findVisible loads an order and hides it when outside the actor's read
// scope, returning the same not-found shape for missing and invisible rows.
func (s *service) findVisible(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*models.OrderFulfillment, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	scope := authz.OrderScope(actor)
	switch {
	case scope.All:
		return order, nil
	case scope.CreatedBy != nil:
		if order.CreatedByID != nil && *order.CreatedByID == *scope.CreatedBy {
			return order, nil
		}
	case scope.WarehouseID != nil:
		if wid := orderWarehouseID(order); wid != nil && *wid == *scope.WarehouseID {
			return order, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *service) checkStoreInScope(actor authz.ActiveContext, store *models.Store) error {
	switch {
	case actor.IsGlobal():
		return nil
	case actor.Role == enums.RoleStoreManager:
		if !actor.CoversStore(store.ID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "store is not part of the active context")
		}
	default:
		if actor.WarehouseID == nil || store.WarehouseID != *actor.WarehouseID {
			return pkgerrors.New(pkgerrors.CodeWrongWarehouse, "store belongs to another warehouse")
		}
	}
	return nil
}

func orderWarehouseID(order *models.OrderFulfillment) *uuid.UUID {
	if order == nil || order.Store == nil {
		return nil
	}
	wid := order.Store.WarehouseID
	return &wid
}
