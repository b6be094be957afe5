package fulfillment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
	"github.com/warehouse360/warehouse360-backend/pkg/pagination"
)

type stubOrderRepo struct {
	order      *models.OrderFulfillment
	findErr    error
	listed     []models.OrderFulfillment
	listScope  *authz.Scope
	created    *models.OrderFulfillment
	updated    *models.OrderFulfillment
	casResult  bool
	casErr     error
	casFrom    enums.OrderStatus
	casTo      enums.OrderStatus
	casActorID uuid.UUID
	counts     map[enums.OrderStatus]int64
}

func (s *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.OrderFulfillment, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrderRepo) List(_ context.Context, scope authz.Scope, filter ListFilter) ([]models.OrderFulfillment, error) {
	// Mirror the real repository: the cursor is decoded inside List.
	if _, err := pagination.ParseCursor(filter.Page.Cursor); err != nil {
		return nil, err
	}
	s.listScope = &scope
	return s.listed, nil
}

func (s *stubOrderRepo) Create(_ context.Context, order *models.OrderFulfillment) error {
	order.ID = uuid.New()
	s.created = order
	s.order = order
	return nil
}

func (s *stubOrderRepo) Update(_ context.Context, order *models.OrderFulfillment) error {
	s.updated = order
	return nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, _ uuid.UUID, from, to enums.OrderStatus, actorID uuid.UUID, at time.Time) (bool, error) {
	if s.casErr != nil {
		return false, s.casErr
	}
	s.casFrom = from
	s.casTo = to
	s.casActorID = actorID
	if s.casResult && s.order != nil {
		s.order.Status = to
		s.order.ActionTakenByID = &actorID
		s.order.ActionTakenAt = &at
	}
	return s.casResult, nil
}

func (s *stubOrderRepo) CountByStatus(_ context.Context, _ authz.Scope) (map[enums.OrderStatus]int64, error) {
	return s.counts, nil
}

type stubStoreFinder struct {
	store *models.Store
	err   error
}

func (s *stubStoreFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.store == nil || s.store.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.store, nil
}

func warehouseManagerCtx(warehouseID uuid.UUID) authz.ActiveContext {
	return authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleWarehouseManager, nil)
}

func orderAt(warehouseID uuid.UUID, status enums.OrderStatus) *models.OrderFulfillment {
	storeID := uuid.New()
	creator := uuid.New()
	return &models.OrderFulfillment{
		ID:          uuid.New(),
		StoreID:     &storeID,
		Store:       &models.Store{ID: storeID, WarehouseID: warehouseID, StoreName: "front"},
		Status:      status,
		CreatedByID: &creator,
	}
}

func newService(t *testing.T, repo orderRepository, stores storeFinder) Service {
	t.Helper()
	svc, err := NewService(repo, stores)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestTransitionSuccessStampsActor(t *testing.T) {
	warehouseID := uuid.New()
	actor := warehouseManagerCtx(warehouseID)
	repo := &stubOrderRepo{order: orderAt(warehouseID, enums.OrderStatusPending), casResult: true}
	svc := newService(t, repo, &stubStoreFinder{})

	dto, err := svc.Transition(context.Background(), actor, repo.order.ID, enums.TransitionDelivered)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if dto.Status != enums.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", dto.Status)
	}
	if repo.casFrom != enums.OrderStatusPending || repo.casTo != enums.OrderStatusDelivered {
		t.Fatalf("unexpected CAS pair %s -> %s", repo.casFrom, repo.casTo)
	}
	if repo.casActorID != actor.UserID {
		t.Fatal("actor not stamped")
	}
	if dto.ActionTakenBy == nil || *dto.ActionTakenBy != actor.UserID {
		t.Fatal("action_taken_by missing from result")
	}
	if dto.ActionTakenAt == nil {
		t.Fatal("action_taken_at missing from result")
	}
}

func TestTransitionLostRaceIsConflict(t *testing.T) {
	warehouseID := uuid.New()
	repo := &stubOrderRepo{order: orderAt(warehouseID, enums.OrderStatusPending), casResult: false}
	svc := newService(t, repo, &stubStoreFinder{})

	_, err := svc.Transition(context.Background(), warehouseManagerCtx(warehouseID), repo.order.ID, enums.TransitionDelivered)
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestTransitionInvalidEdge(t *testing.T) {
	warehouseID := uuid.New()
	repo := &stubOrderRepo{order: orderAt(warehouseID, enums.OrderStatusPending)}
	svc := newService(t, repo, &stubStoreFinder{})

	_, err := svc.Transition(context.Background(), warehouseManagerCtx(warehouseID), repo.order.ID, enums.TransitionCompleted)
	expectCode(t, err, pkgerrors.CodeInvalidTransition)
	if repo.casTo != "" {
		t.Fatal("no CAS must run for an invalid edge")
	}
}

func TestTransitionWrongWarehouse(t *testing.T) {
	repo := &stubOrderRepo{order: orderAt(uuid.New(), enums.OrderStatusPending)}
	svc := newService(t, repo, &stubStoreFinder{})

	_, err := svc.Transition(context.Background(), warehouseManagerCtx(uuid.New()), repo.order.ID, enums.TransitionDelivered)
	expectCode(t, err, pkgerrors.CodeWrongWarehouse)
}

func TestTransitionSuperAdminBypassesWarehouseCheck(t *testing.T) {
	repo := &stubOrderRepo{order: orderAt(uuid.New(), enums.OrderStatusReadyToShip), casResult: true}
	svc := newService(t, repo, &stubStoreFinder{})

	dto, err := svc.Transition(context.Background(), authz.Global(uuid.New()), repo.order.ID, enums.TransitionCompleted)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if dto.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", dto.Status)
	}
}

func TestTransitionStoreManagerForbidden(t *testing.T) {
	warehouseID := uuid.New()
	repo := &stubOrderRepo{order: orderAt(warehouseID, enums.OrderStatusPending)}
	svc := newService(t, repo, &stubStoreFinder{})

	actor := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleStoreManager, nil)
	_, err := svc.Transition(context.Background(), actor, repo.order.ID, enums.TransitionDelivered)
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestTransitionMissingOrder(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := newService(t, repo, &stubStoreFinder{})

	_, err := svc.Transition(context.Background(), warehouseManagerCtx(uuid.New()), uuid.New(), enums.TransitionDelivered)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateForcesPendingAndStampsCreator(t *testing.T) {
	warehouseID := uuid.New()
	store := &models.Store{ID: uuid.New(), WarehouseID: warehouseID}
	actor := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleStoreManager, []uuid.UUID{store.ID})
	repo := &stubOrderRepo{}
	svc := newService(t, repo, &stubStoreFinder{store: store})

	dto, err := svc.Create(context.Background(), actor, CreateOrderInput{StoreID: store.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending, got %s", dto.Status)
	}
	if repo.created.CreatedByID == nil || *repo.created.CreatedByID != actor.UserID {
		t.Fatal("creator not stamped")
	}
	if repo.created.Quantity != 3 {
		t.Fatalf("quantity lost: %d", repo.created.Quantity)
	}
}

func TestCreateRejectsStoreOutsideContext(t *testing.T) {
	warehouseID := uuid.New()
	store := &models.Store{ID: uuid.New(), WarehouseID: warehouseID}
	// Manager assigned to a different store at the same warehouse.
	actor := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleStoreManager, []uuid.UUID{uuid.New()})
	svc := newService(t, &stubOrderRepo{}, &stubStoreFinder{store: store})

	_, err := svc.Create(context.Background(), actor, CreateOrderInput{StoreID: store.ID})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestCreateRejectsCrossWarehouseStoreForAdmin(t *testing.T) {
	store := &models.Store{ID: uuid.New(), WarehouseID: uuid.New()}
	actor := authz.Scoped(uuid.New(), uuid.New(), uuid.New(), enums.RoleWarehouseAdmin, nil)
	svc := newService(t, &stubOrderRepo{}, &stubStoreFinder{store: store})

	_, err := svc.Create(context.Background(), actor, CreateOrderInput{StoreID: store.ID})
	expectCode(t, err, pkgerrors.CodeWrongWarehouse)
}

func TestCreateForbiddenForWarehouseManager(t *testing.T) {
	svc := newService(t, &stubOrderRepo{}, &stubStoreFinder{})

	_, err := svc.Create(context.Background(), warehouseManagerCtx(uuid.New()), CreateOrderInput{StoreID: uuid.New()})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateOwnershipDenied(t *testing.T) {
	warehouseID := uuid.New()
	repo := &stubOrderRepo{order: orderAt(warehouseID, enums.OrderStatusPending)}
	svc := newService(t, repo, &stubStoreFinder{})

	// Store manager who did not create the order.
	actor := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleStoreManager, nil)
	notes := "late"
	_, err := svc.Update(context.Background(), actor, repo.order.ID, UpdateOrderInput{Notes: &notes})
	expectCode(t, err, pkgerrors.CodeNotOwner)
	if repo.updated != nil {
		t.Fatal("denied edit must not write")
	}
}

func TestUpdateOwnerSucceeds(t *testing.T) {
	warehouseID := uuid.New()
	order := orderAt(warehouseID, enums.OrderStatusPending)
	repo := &stubOrderRepo{order: order}
	svc := newService(t, repo, &stubStoreFinder{})

	actor := authz.Scoped(*order.CreatedByID, uuid.New(), warehouseID, enums.RoleStoreManager, []uuid.UUID{*order.StoreID})
	notes := "fragile"
	dto, err := svc.Update(context.Background(), actor, order.ID, UpdateOrderInput{Notes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Notes != "fragile" {
		t.Fatalf("notes not applied: %q", dto.Notes)
	}
	if repo.updated == nil {
		t.Fatal("expected repo write")
	}
}

func TestGetByIDHidesForeignOrderFromStoreManager(t *testing.T) {
	warehouseID := uuid.New()
	repo := &stubOrderRepo{order: orderAt(warehouseID, enums.OrderStatusPending)}
	svc := newService(t, repo, &stubStoreFinder{})

	actor := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleStoreManager, nil)
	_, err := svc.GetByID(context.Background(), actor, repo.order.ID)
	// Reads hide out-of-scope rows instead of acknowledging them.
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetByIDHidesCrossWarehouseOrder(t *testing.T) {
	repo := &stubOrderRepo{order: orderAt(uuid.New(), enums.OrderStatusPending)}
	svc := newService(t, repo, &stubStoreFinder{})

	_, err := svc.GetByID(context.Background(), warehouseManagerCtx(uuid.New()), repo.order.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestListAppliesScope(t *testing.T) {
	warehouseID := uuid.New()
	actor := warehouseManagerCtx(warehouseID)
	repo := &stubOrderRepo{listed: []models.OrderFulfillment{*orderAt(warehouseID, enums.OrderStatusPending)}}
	svc := newService(t, repo, &stubStoreFinder{})

	page, err := svc.List(context.Background(), actor, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(page.Items))
	}
	if repo.listScope == nil || repo.listScope.WarehouseID == nil || *repo.listScope.WarehouseID != warehouseID {
		t.Fatalf("scope not applied: %+v", repo.listScope)
	}
}

func TestListMalformedCursorIsValidationError(t *testing.T) {
	warehouseID := uuid.New()
	repo := &stubOrderRepo{listed: []models.OrderFulfillment{*orderAt(warehouseID, enums.OrderStatusPending)}}
	svc := newService(t, repo, &stubStoreFinder{})

	_, err := svc.List(context.Background(), warehouseManagerCtx(warehouseID), ListFilter{
		Page: pagination.Params{Cursor: "not a cursor"},
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestListRoundTripsCursor(t *testing.T) {
	warehouseID := uuid.New()
	repo := &stubOrderRepo{}
	svc := newService(t, repo, &stubStoreFinder{})

	token := pagination.EncodeCursor(pagination.Cursor{CreatedAt: time.Now(), ID: uuid.New()})
	if _, err := svc.List(context.Background(), warehouseManagerCtx(warehouseID), ListFilter{
		Page: pagination.Params{Cursor: token},
	}); err != nil {
		t.Fatalf("list with valid cursor: %v", err)
	}
}

func TestStatusCountsCoverEveryStatus(t *testing.T) {
	repo := &stubOrderRepo{counts: map[enums.OrderStatus]int64{
		enums.OrderStatusPending:   4,
		enums.OrderStatusCompleted: 1,
	}}
	svc := newService(t, repo, &stubStoreFinder{})

	counts, err := svc.StatusCounts(context.Background(), authz.Global(uuid.New()))
	if err != nil {
		t.Fatalf("status counts: %v", err)
	}
	if len(counts) != 5 {
		t.Fatalf("expected a bucket per status, got %d", len(counts))
	}
	byStatus := make(map[enums.OrderStatus]int64)
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	if byStatus[enums.OrderStatusPending] != 4 || byStatus[enums.OrderStatusDelivered] != 0 {
		t.Fatalf("unexpected counts: %+v", byStatus)
	}
}
