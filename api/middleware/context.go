package middleware

import (
	"context"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	pkgauth "github.com/warehouse360/warehouse360-backend/pkg/auth"
)

type contextKey string

const (
	ctxActive contextKey = "active_context"
	ctxClaims contextKey = "access_claims"
)

// WithActiveContext injects the resolved authorization context for
// downstream handlers.
func WithActiveContext(ctx context.Context, active authz.ActiveContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActive, active)
}

// ActiveContextFromContext returns the resolved authorization context.
// The second return is false when the request carries a context-free
// token that has not selected a role yet.
func ActiveContextFromContext(ctx context.Context) (authz.ActiveContext, bool) {
	if ctx == nil {
		return authz.ActiveContext{}, false
	}
	active, ok := ctx.Value(ctxActive).(authz.ActiveContext)
	return active, ok
}

func withClaims(ctx context.Context, claims *pkgauth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}

// ClaimsFromContext returns the verified access token claims.
func ClaimsFromContext(ctx context.Context) (*pkgauth.AccessTokenClaims, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(ctxClaims).(*pkgauth.AccessTokenClaims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}
