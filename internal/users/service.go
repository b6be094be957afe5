package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/config"
	"github.com/warehouse360/warehouse360-backend/pkg/db"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
	"github.com/warehouse360/warehouse360-backend/pkg/security"
)

type userRepository interface {
	List(ctx context.Context, scope authz.Scope) ([]models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	HasAssignmentAt(ctx context.Context, userID, warehouseID uuid.UUID) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes user account management.
type Service interface {
	List(ctx context.Context, actor authz.ActiveContext) ([]UserDTO, error)
	GetByID(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*UserDTO, error)
	Create(ctx context.Context, actor authz.ActiveContext, input CreateUserInput) (*UserDTO, error)
	Update(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) error
}

type service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
}

// NewService builds the user service.
func NewService(repo userRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) List(ctx context.Context, actor authz.ActiveContext) ([]UserDTO, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.ResourceUser); err != nil {
		return nil, err
	}

	users, err := s.repo.List(ctx, authz.UserScope(actor))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *ToUserDTO(&users[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*UserDTO, error) {
	if err := authz.Authorize(actor, authz.ActionRead, authz.ResourceUser); err != nil {
		return nil, err
	}

	user, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToUserDTO(user), nil
}

// Create provisions an account. The grant matrix caps the primary role: a
// warehouse admin may only mint manager accounts.
func (s *service) Create(ctx context.Context, actor authz.ActiveContext, input CreateUserInput) (*UserDTO, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.ResourceUser); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if !input.PrimaryRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if err := s.checkRoleGrantable(actor, input.PrimaryRole); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        input.Phone,
		PasswordHash: hash,
		PrimaryRole:  input.PrimaryRole,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username is already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return ToUserDTO(user), nil
}

func (s *service) Update(ctx context.Context, actor authz.ActiveContext, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	if err := authz.Authorize(actor, authz.ActionEdit, authz.ResourceUser); err != nil {
		return nil, err
	}

	user, err := s.findVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.PrimaryRole != nil {
		if !input.PrimaryRole.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		if err := s.checkRoleGrantable(actor, *input.PrimaryRole); err != nil {
			return nil, err
		}
		user.PrimaryRole = *input.PrimaryRole
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return ToUserDTO(user), nil
}

func (s *service) Delete(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) error {
	if err := authz.Authorize(actor, authz.ActionDelete, authz.ResourceUser); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

// findVisible hides accounts outside the actor's scope. For a warehouse
// admin that means users holding a grant at their warehouse.
func (s *service) findVisible(ctx context.Context, actor authz.ActiveContext, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if actor.IsGlobal() {
		return user, nil
	}
	if actor.WarehouseID != nil {
		visible, err := s.repo.HasAssignmentAt(ctx, id, *actor.WarehouseID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user scope")
		}
		if visible {
			return user, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

func (s *service) checkRoleGrantable(actor authz.ActiveContext, role enums.Role) error {
	for _, grantable := range authz.GrantableRoles(actor) {
		if grantable == role {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "role may not be granted by this account")
}
