package assignments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
)

type assignmentRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Assignment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes role grant management.
type Service interface {
	ListByUser(ctx context.Context, actor authz.ActiveContext, userID uuid.UUID) ([]AssignmentDTO, error)
	Create(ctx context.Context, actor authz.ActiveContext, userID uuid.UUID, input CreateAssignmentInput) (*AssignmentDTO, error)
	Delete(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) error
}

type service struct {
	repo   assignmentRepository
	users  userFinder
	stores storeFinder
}

// NewService builds the assignment service.
func NewService(repo assignmentRepository, users userFinder, stores storeFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignment repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo, users: users, stores: stores}, nil
}

func (s *service) ListByUser(ctx context.Context, actor authz.ActiveContext, userID uuid.UUID) ([]AssignmentDTO, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.ResourceAssignment); err != nil {
		return nil, err
	}

	assignments, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}

	out := make([]AssignmentDTO, 0, len(assignments))
	for i := range assignments {
		// Warehouse admins only see grants inside their own warehouse.
		if !actor.IsGlobal() && actor.WarehouseID != nil && assignments[i].WarehouseID != *actor.WarehouseID {
			continue
		}
		out = append(out, *ToAssignmentDTO(&assignments[i]))
	}
	return out, nil
}

// Create grants a role to a user. The grant matrix applies first: warehouse
// admins may only hand out manager roles inside their own warehouse. The
// store binding rule follows the role: store managers bind exactly one
// store at the grant's warehouse, other roles bind none.
func (s *service) Create(ctx context.Context, actor authz.ActiveContext, userID uuid.UUID, input CreateAssignmentInput) (*AssignmentDTO, error) {
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if err := authz.CheckGrant(actor, input.Role, input.WarehouseID); err != nil {
		return nil, err
	}
	if input.Role == enums.RoleSuperAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "super admins are not assigned per warehouse")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.Role.BindsStore() {
		if input.StoreID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store managers must be bound to a store")
		}
		store, err := s.stores.FindByID(ctx, *input.StoreID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}
		if store.WarehouseID != input.WarehouseID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store does not belong to the grant's warehouse")
		}
	} else if input.StoreID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only store managers bind a store")
	}

	assignment := &models.Assignment{
		UserID:      userID,
		WarehouseID: input.WarehouseID,
		Role:        input.Role,
		StoreID:     input.StoreID,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "this grant already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
	}

	created, err := s.repo.FindByID(ctx, assignment.ID)
	if err != nil {
		return ToAssignmentDTO(assignment), nil
	}
	return ToAssignmentDTO(created), nil
}

// Delete revokes a grant. The same matrix governs revocation: a warehouse
// admin may only remove manager grants in their own warehouse.
func (s *service) Delete(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) error {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}

	if err := authz.CheckGrant(actor, assignment.Role, assignment.WarehouseID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete assignment")
	}
	return nil
}
