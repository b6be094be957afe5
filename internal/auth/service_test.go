package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/internal/session"
	pkgauth "github.com/warehouse360/warehouse360-backend/pkg/auth"
	"github.com/warehouse360/warehouse360-backend/pkg/config"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
	"github.com/warehouse360/warehouse360-backend/pkg/security"
)

type stubUsers struct {
	user        *models.User
	lastLoginID *uuid.UUID
}

func (s *stubUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUsers) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	s.lastLoginID = &id
	return nil
}

type stubResolver struct {
	resolution session.Resolution
	resolveErr error
	selected   authz.ActiveContext
	selectErr  error
}

func (s *stubResolver) Resolve(_ context.Context, _ *models.User, _ *uuid.UUID) (session.Resolution, error) {
	if s.resolveErr != nil {
		return session.Resolution{}, s.resolveErr
	}
	return s.resolution, nil
}

func (s *stubResolver) Select(_ context.Context, _ *models.User, _ uuid.UUID) (authz.ActiveContext, error) {
	if s.selectErr != nil {
		return authz.ActiveContext{}, s.selectErr
	}
	return s.selected, nil
}

type stubSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, _ string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "rotated-" + oldAccessID, "refresh-rotated", nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTCfg() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "warehouse360-test", ExpirationMinutes: 15}
}

func hashedUser(t *testing.T, username, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		PrimaryRole:  enums.RoleStoreManager,
		IsActive:     true,
	}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func newService(t *testing.T, users userSource, resolver contextResolver, sessions sessionManager) Service {
	t.Helper()
	svc, err := NewService(users, resolver, sessions, testJWTCfg())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginResolvedContext(t *testing.T) {
	user := hashedUser(t, "amy", "swordfish1")
	warehouseID := uuid.New()
	ctx := authz.Scoped(user.ID, uuid.New(), warehouseID, enums.RoleStoreManager, []uuid.UUID{uuid.New()})
	users := &stubUsers{user: user}
	sessions := &stubSessions{}
	svc := newService(t, users, &stubResolver{resolution: session.Resolution{State: session.StateResolved, Context: ctx}}, sessions)

	result, err := svc.Login(context.Background(), LoginInput{Username: "amy", Password: "swordfish1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.NeedsSelection {
		t.Fatal("single context must not demand selection")
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("tokens missing")
	}
	if users.lastLoginID == nil || *users.lastLoginID != user.ID {
		t.Fatal("last login not stamped")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTCfg(), result.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != enums.RoleStoreManager || claims.WarehouseID == nil || *claims.WarehouseID != warehouseID {
		t.Fatalf("context not carried in token: %+v", claims)
	}
	if claims.StoreID == nil {
		t.Fatal("single store should pin store_id in token")
	}
	if len(sessions.generated) != 1 || sessions.generated[0] != claims.ID {
		t.Fatal("session not keyed by token jti")
	}
}

func TestLoginNeedsSelection(t *testing.T) {
	user := hashedUser(t, "amy", "swordfish1")
	choices := []session.Choice{
		{AssignmentID: uuid.New(), WarehouseID: uuid.New(), Role: enums.RoleStoreManager},
		{AssignmentID: uuid.New(), WarehouseID: uuid.New(), Role: enums.RoleWarehouseManager},
	}
	svc := newService(t, &stubUsers{user: user},
		&stubResolver{resolution: session.Resolution{State: session.StateNeedsSelection, Choices: choices}},
		&stubSessions{})

	result, err := svc.Login(context.Background(), LoginInput{Username: "amy", Password: "swordfish1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !result.NeedsSelection || len(result.Choices) != 2 {
		t.Fatalf("expected selection demand, got %+v", result)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTCfg(), result.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.AssignmentID != nil || claims.WarehouseID != nil {
		t.Fatal("context-free token must not pin an assignment")
	}
}

func TestLoginNoAccessIsForbidden(t *testing.T) {
	user := hashedUser(t, "amy", "swordfish1")
	svc := newService(t, &stubUsers{user: user},
		&stubResolver{resolution: session.Resolution{State: session.StateNoAccess}},
		&stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{Username: "amy", Password: "swordfish1"})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestLoginBadCredentials(t *testing.T) {
	user := hashedUser(t, "amy", "swordfish1")
	svc := newService(t, &stubUsers{user: user}, &stubResolver{}, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{Username: "amy", Password: "wrong"})
	expectCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Login(context.Background(), LoginInput{Username: "nobody", Password: "swordfish1"})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginInactiveUser(t *testing.T) {
	user := hashedUser(t, "amy", "swordfish1")
	user.IsActive = false
	svc := newService(t, &stubUsers{user: user}, &stubResolver{}, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{Username: "amy", Password: "swordfish1"})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestSelectRoleRotatesSession(t *testing.T) {
	user := hashedUser(t, "amy", "swordfish1")
	warehouseID := uuid.New()
	selected := authz.Scoped(user.ID, uuid.New(), warehouseID, enums.RoleWarehouseManager, nil)
	sessions := &stubSessions{}
	svc := newService(t, &stubUsers{user: user}, &stubResolver{selected: selected}, sessions)

	oldClaims := &pkgauth.AccessTokenClaims{UserID: user.ID, Role: user.PrimaryRole}
	oldClaims.ID = "old-jti"

	result, err := svc.SelectRole(context.Background(), oldClaims, *selected.AssignmentID)
	if err != nil {
		t.Fatalf("select role: %v", err)
	}
	if result.Role != enums.RoleWarehouseManager {
		t.Fatalf("unexpected role: %s", result.Role)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "old-jti" {
		t.Fatal("old session not revoked")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTCfg(), result.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.ID == "old-jti" {
		t.Fatal("new token must carry a fresh jti")
	}
	if claims.AssignmentID == nil || *claims.AssignmentID != *selected.AssignmentID {
		t.Fatal("selected assignment not pinned")
	}
}

func TestSelectRoleInvalidChoiceLeavesSession(t *testing.T) {
	user := hashedUser(t, "amy", "swordfish1")
	sessions := &stubSessions{}
	svc := newService(t, &stubUsers{user: user},
		&stubResolver{selectErr: pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")},
		sessions)

	claims := &pkgauth.AccessTokenClaims{UserID: user.ID, Role: user.PrimaryRole}
	claims.ID = "old-jti"

	_, err := svc.SelectRole(context.Background(), claims, uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
	if len(sessions.revoked) != 0 {
		t.Fatal("failed selection must leave the prior session untouched")
	}
}

func TestRefreshReissuesTokens(t *testing.T) {
	user := hashedUser(t, "amy", "swordfish1")
	warehouseID := uuid.New()
	assignmentID := uuid.New()
	svc := newService(t, &stubUsers{user: user}, &stubResolver{}, &stubSessions{})

	claims := &pkgauth.AccessTokenClaims{
		UserID:       user.ID,
		Role:         enums.RoleWarehouseAdmin,
		AssignmentID: &assignmentID,
		WarehouseID:  &warehouseID,
	}
	claims.ID = "old-jti"

	pair, err := svc.Refresh(context.Background(), claims, "refresh-token")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	newClaims, err := pkgauth.ParseAccessToken(testJWTCfg(), pair.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if newClaims.WarehouseID == nil || *newClaims.WarehouseID != warehouseID {
		t.Fatal("context lost across refresh")
	}
	if newClaims.ID != "rotated-old-jti" {
		t.Fatalf("jti not rotated: %s", newClaims.ID)
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	svc := newService(t, &stubUsers{}, &stubResolver{}, &stubSessions{rotateErr: errors.New("no session")})

	claims := &pkgauth.AccessTokenClaims{UserID: uuid.New(), Role: enums.RoleStoreManager}
	claims.ID = "jti"
	_, err := svc.Refresh(context.Background(), claims, "bogus")
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessions{}
	svc := newService(t, &stubUsers{}, &stubResolver{}, sessions)

	if err := svc.Logout(context.Background(), "jti"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "jti" {
		t.Fatal("session not revoked")
	}
}

func TestRoleOptions(t *testing.T) {
	user := hashedUser(t, "amy", "swordfish1")
	choices := []session.Choice{{AssignmentID: uuid.New(), WarehouseID: uuid.New(), Role: enums.RoleStoreManager}}
	svc := newService(t, &stubUsers{user: user},
		&stubResolver{resolution: session.Resolution{State: session.StateNeedsSelection, Choices: choices}},
		&stubSessions{})

	got, err := svc.RoleOptions(context.Background(), user.ID, nil)
	if err != nil {
		t.Fatalf("role options: %v", err)
	}
	if len(got) != 1 || got[0].AssignmentID != choices[0].AssignmentID {
		t.Fatalf("unexpected choices: %+v", got)
	}
}
