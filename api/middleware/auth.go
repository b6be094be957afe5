package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/api/responses"
	"github.com/warehouse360/warehouse360-backend/internal/session"
	pkgauth "github.com/warehouse360/warehouse360-backend/pkg/auth"
	sessionstore "github.com/warehouse360/warehouse360-backend/pkg/auth/session"
	"github.com/warehouse360/warehouse360-backend/pkg/config"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
	"github.com/warehouse360/warehouse360-backend/pkg/logger"
)

type identitySource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type contextResolver interface {
	Resolve(ctx context.Context, user *models.User, activeAssignmentID *uuid.UUID) (session.Resolution, error)
}

// Auth validates a bearer token, confirms the backing session is still
// alive, and rebuilds the actor's authorization context from current
// assignment rows. Tokens that predate a role selection pass through
// without a context; RequireContext gates them further in.
func Auth(cfg config.JWTConfig, verifier sessionstore.AccessSessionChecker, users identitySource, resolver contextResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account unavailable"))
				return
			}
			if user == nil || !user.IsActive {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account unavailable"))
				return
			}

			resolution, err := resolver.Resolve(r.Context(), user, claims.AssignmentID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := withClaims(r.Context(), claims)
			switch resolution.State {
			case session.StateResolved:
				ctx = WithActiveContext(ctx, resolution.Context)
			case session.StateNoAccess:
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "account has no role assignments"))
				return
			case session.StateNeedsSelection:
				// context-free request; only selection endpoints may proceed
			}

			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
				if active, ok := ActiveContextFromContext(ctx); ok {
					ctx = logg.WithActorRole(ctx, string(active.Role))
					if active.WarehouseID != nil {
						ctx = logg.WithWarehouseID(ctx, active.WarehouseID.String())
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireContext rejects requests whose token has not committed to a
// role yet. Clients are expected to call the select-role endpoint and
// retry with the fresh token.
func RequireContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ActiveContextFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNeedsRoleSelection, "select a role to continue"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
