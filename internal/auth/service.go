package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/internal/session"
	pkgauth "github.com/warehouse360/warehouse360-backend/pkg/auth"
	sessionmgr "github.com/warehouse360/warehouse360-backend/pkg/auth/session"
	"github.com/warehouse360/warehouse360-backend/pkg/config"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
	"github.com/warehouse360/warehouse360-backend/pkg/security"
)

type userSource interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

type contextResolver interface {
	Resolve(ctx context.Context, user *models.User, activeAssignmentID *uuid.UUID) (session.Resolution, error)
	Select(ctx context.Context, user *models.User, assignmentID uuid.UUID) (authz.ActiveContext, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service exposes authentication plus active-role selection.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
	Refresh(ctx context.Context, claims *pkgauth.AccessTokenClaims, refreshToken string) (*TokenPair, error)
	RoleOptions(ctx context.Context, userID uuid.UUID, activeAssignmentID *uuid.UUID) ([]session.Choice, error)
	SelectRole(ctx context.Context, claims *pkgauth.AccessTokenClaims, assignmentID uuid.UUID) (*LoginResult, error)
}

type service struct {
	users    userSource
	resolver contextResolver
	sessions sessionManager
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(users userSource, resolver contextResolver, sessions sessionManager, jwtCfg config.JWTConfig) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("context resolver required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		users:    users,
		resolver: resolver,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}, nil
}

// Login authenticates credentials and resolves the active-role context in
// one round trip. A user with one (warehouse, role) pair walks away fully
// scoped; a user with several gets context-free tokens and the choice list.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil || user == nil {
		// Same response for unknown usernames and bad passwords.
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	resolution, err := s.resolver.Resolve(ctx, user, nil)
	if err != nil {
		return nil, err
	}
	if resolution.State == session.StateNoAccess {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account has no role assignments")
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamp last login")
	}

	if resolution.State == session.StateNeedsSelection {
		result, err := s.issue(ctx, pkgauth.AccessTokenPayload{
			UserID: user.ID,
			Role:   user.PrimaryRole,
		})
		if err != nil {
			return nil, err
		}
		result.NeedsSelection = true
		result.Choices = resolution.Choices
		return result, nil
	}

	return s.issue(ctx, payloadFromContext(resolution.Context))
}

// Logout revokes the session behind the token's jti. The JWT itself stays
// valid until expiry, but protected routes also require a live session.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Refresh rotates the refresh token and reissues an access token carrying
// the same active context.
func (s *service) Refresh(ctx context.Context, claims *pkgauth.AccessTokenClaims, refreshToken string) (*TokenPair, error) {
	if claims == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:       claims.UserID,
		Role:         claims.Role,
		AssignmentID: claims.AssignmentID,
		WarehouseID:  claims.WarehouseID,
		StoreID:      claims.StoreID,
		JTI:          newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

// RoleOptions re-resolves the user's selectable contexts.
func (s *service) RoleOptions(ctx context.Context, userID uuid.UUID, activeAssignmentID *uuid.UUID) ([]session.Choice, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	resolution, err := s.resolver.Resolve(ctx, user, activeAssignmentID)
	if err != nil {
		return nil, err
	}
	switch resolution.State {
	case session.StateNoAccess:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account has no role assignments")
	case session.StateNeedsSelection:
		return resolution.Choices, nil
	default:
		// Already resolved: one committed choice.
		return []session.Choice{{
			AssignmentID: derefOrNil(resolution.Context.AssignmentID),
			WarehouseID:  derefOrNil(resolution.Context.WarehouseID),
			Role:         resolution.Context.Role,
		}}, nil
	}
}

// SelectRole commits a choice: the old session is revoked and a fresh token
// pinning the selected assignment is minted under a new jti.
func (s *service) SelectRole(ctx context.Context, claims *pkgauth.AccessTokenClaims, assignmentID uuid.UUID) (*LoginResult, error) {
	if claims == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}

	activeCtx, err := s.resolver.Select(ctx, user, assignmentID)
	if err != nil {
		return nil, err
	}

	result, err := s.issue(ctx, payloadFromContext(activeCtx))
	if err != nil {
		return nil, err
	}

	// Best effort: the old jti no longer matters once the new pair exists.
	_ = s.sessions.Revoke(ctx, claims.ID)
	return result, nil
}

// issue mints a token under a fresh jti and opens its refresh session.
func (s *service) issue(ctx context.Context, payload pkgauth.AccessTokenPayload) (*LoginResult, error) {
	payload.JTI = sessionmgr.NewAccessID()

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refreshToken, err := s.sessions.Generate(ctx, payload.JTI)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}

	return &LoginResult{
		TokenPair:   TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
		UserID:      payload.UserID,
		Role:        payload.Role,
		WarehouseID: payload.WarehouseID,
	}, nil
}

func payloadFromContext(activeCtx authz.ActiveContext) pkgauth.AccessTokenPayload {
	payload := pkgauth.AccessTokenPayload{
		UserID:       activeCtx.UserID,
		Role:         activeCtx.Role,
		AssignmentID: activeCtx.AssignmentID,
		WarehouseID:  activeCtx.WarehouseID,
	}
	if len(activeCtx.StoreIDs) == 1 {
		storeID := activeCtx.StoreIDs[0]
		payload.StoreID = &storeID
	}
	return payload
}

func derefOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
