package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/api/middleware"
	"github.com/warehouse360/warehouse360-backend/api/responses"
	"github.com/warehouse360/warehouse360-backend/internal/authz"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
	"github.com/warehouse360/warehouse360-backend/pkg/logger"
)

// actorFromRequest pulls the resolved authorization context or writes the
// error response itself. Callers return immediately on !ok.
func actorFromRequest(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (authz.ActiveContext, bool) {
	actor, ok := middleware.ActiveContextFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNeedsRoleSelection, "select a role to continue"))
		return authz.ActiveContext{}, false
	}
	return actor, true
}

func parseUUIDField(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "must be a valid uuid").WithDetails(map[string]any{"field": field})
	}
	return id, nil
}

func parseOptionalUUIDField(value *string, field string) (*uuid.UUID, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	id, err := parseUUIDField(*value, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
