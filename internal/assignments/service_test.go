package assignments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
)

type stubAssignmentRepo struct {
	assignments []models.Assignment
	createErr   error
	created     *models.Assignment
	deleted     *uuid.UUID
}

func (s *stubAssignmentRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range s.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAssignmentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Assignment, error) {
	for i := range s.assignments {
		if s.assignments[i].ID == id {
			return &s.assignments[i], nil
		}
	}
	if s.created != nil && s.created.ID == id {
		return s.created, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	if s.createErr != nil {
		return s.createErr
	}
	assignment.ID = uuid.New()
	s.created = assignment
	return nil
}

func (s *stubAssignmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = &id
	return nil
}

type stubUserFinder struct {
	user *models.User
}

func (s *stubUserFinder) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubStoreFinder struct {
	store *models.Store
}

func (s *stubStoreFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	if s.store == nil || s.store.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.store, nil
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func newService(t *testing.T, repo assignmentRepository, users userFinder, stores storeFinder) Service {
	t.Helper()
	svc, err := NewService(repo, users, stores)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateStoreManagerGrant(t *testing.T) {
	warehouseID := uuid.New()
	user := &models.User{ID: uuid.New()}
	store := &models.Store{ID: uuid.New(), WarehouseID: warehouseID}
	repo := &stubAssignmentRepo{}
	svc := newService(t, repo, &stubUserFinder{user: user}, &stubStoreFinder{store: store})

	admin := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleWarehouseAdmin, nil)
	dto, err := svc.Create(context.Background(), admin, user.ID, CreateAssignmentInput{
		WarehouseID: warehouseID,
		Role:        enums.RoleStoreManager,
		StoreID:     &store.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Role != enums.RoleStoreManager || dto.StoreID == nil {
		t.Fatalf("unexpected grant: %+v", dto)
	}
}

func TestCreateStoreManagerRequiresStore(t *testing.T) {
	warehouseID := uuid.New()
	user := &models.User{ID: uuid.New()}
	svc := newService(t, &stubAssignmentRepo{}, &stubUserFinder{user: user}, &stubStoreFinder{})

	admin := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleWarehouseAdmin, nil)
	_, err := svc.Create(context.Background(), admin, user.ID, CreateAssignmentInput{
		WarehouseID: warehouseID,
		Role:        enums.RoleStoreManager,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateWarehouseRoleRejectsStoreBinding(t *testing.T) {
	warehouseID := uuid.New()
	user := &models.User{ID: uuid.New()}
	storeID := uuid.New()
	svc := newService(t, &stubAssignmentRepo{}, &stubUserFinder{user: user}, &stubStoreFinder{})

	admin := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleWarehouseAdmin, nil)
	_, err := svc.Create(context.Background(), admin, user.ID, CreateAssignmentInput{
		WarehouseID: warehouseID,
		Role:        enums.RoleWarehouseManager,
		StoreID:     &storeID,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateRejectsStoreAtOtherWarehouse(t *testing.T) {
	warehouseID := uuid.New()
	user := &models.User{ID: uuid.New()}
	store := &models.Store{ID: uuid.New(), WarehouseID: uuid.New()}
	svc := newService(t, &stubAssignmentRepo{}, &stubUserFinder{user: user}, &stubStoreFinder{store: store})

	admin := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleWarehouseAdmin, nil)
	_, err := svc.Create(context.Background(), admin, user.ID, CreateAssignmentInput{
		WarehouseID: warehouseID,
		Role:        enums.RoleStoreManager,
		StoreID:     &store.ID,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateEscalationDenied(t *testing.T) {
	warehouseID := uuid.New()
	user := &models.User{ID: uuid.New()}
	svc := newService(t, &stubAssignmentRepo{}, &stubUserFinder{user: user}, &stubStoreFinder{})

	admin := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleWarehouseAdmin, nil)
	for _, role := range []enums.Role{enums.RoleSuperAdmin, enums.RoleWarehouseAdmin} {
		_, err := svc.Create(context.Background(), admin, user.ID, CreateAssignmentInput{
			WarehouseID: warehouseID,
			Role:        role,
		})
		expectCode(t, err, pkgerrors.CodeForbidden)
	}
}

func TestCreateDuplicateTupleIsConflict(t *testing.T) {
	warehouseID := uuid.New()
	user := &models.User{ID: uuid.New()}
	repo := &stubAssignmentRepo{createErr: errors.New("duplicate key value violates unique constraint")}
	svc := newService(t, repo, &stubUserFinder{user: user}, &stubStoreFinder{})

	admin := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleWarehouseAdmin, nil)
	_, err := svc.Create(context.Background(), admin, user.ID, CreateAssignmentInput{
		WarehouseID: warehouseID,
		Role:        enums.RoleWarehouseManager,
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestDeleteCrossWarehouseDenied(t *testing.T) {
	repo := &stubAssignmentRepo{assignments: []models.Assignment{{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		WarehouseID: uuid.New(),
		Role:        enums.RoleWarehouseManager,
	}}}
	svc := newService(t, repo, &stubUserFinder{}, &stubStoreFinder{})

	admin := authz.Scoped(uuid.New(), uuid.New(), uuid.New(), enums.RoleWarehouseAdmin, nil)
	expectCode(t, svc.Delete(context.Background(), admin, repo.assignments[0].ID), pkgerrors.CodeForbidden)
}

func TestDeleteBySuperAdmin(t *testing.T) {
	repo := &stubAssignmentRepo{assignments: []models.Assignment{{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		WarehouseID: uuid.New(),
		Role:        enums.RoleWarehouseAdmin,
	}}}
	svc := newService(t, repo, &stubUserFinder{}, &stubStoreFinder{})

	if err := svc.Delete(context.Background(), authz.Global(uuid.New()), repo.assignments[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.deleted == nil {
		t.Fatal("delete not forwarded to repo")
	}
}

func TestListByUserFiltersForeignWarehouse(t *testing.T) {
	warehouseID := uuid.New()
	userID := uuid.New()
	repo := &stubAssignmentRepo{assignments: []models.Assignment{
		{ID: uuid.New(), UserID: userID, WarehouseID: warehouseID, Role: enums.RoleWarehouseManager},
		{ID: uuid.New(), UserID: userID, WarehouseID: uuid.New(), Role: enums.RoleStoreManager},
	}}
	svc := newService(t, repo, &stubUserFinder{}, &stubStoreFinder{})

	admin := authz.Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleWarehouseAdmin, nil)
	out, err := svc.ListByUser(context.Background(), admin, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].WarehouseID != warehouseID {
		t.Fatalf("foreign grants leaked: %+v", out)
	}
}
