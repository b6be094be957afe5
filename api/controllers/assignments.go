package controllers

import (
	"net/http"

	"github.com/warehouse360/warehouse360-backend/api/responses"
	"github.com/warehouse360/warehouse360-backend/api/validators"
	"github.com/warehouse360/warehouse360-backend/internal/assignments"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
	"github.com/warehouse360/warehouse360-backend/pkg/logger"
)

// AssignmentListByUser returns a user's role grants visible to the caller.
func AssignmentListByUser(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		userID, err := validators.ParsePathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByUser(r.Context(), actor, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type assignmentCreateRequest struct {
	WarehouseID string  `json:"warehouse_id" validate:"required,uuid"`
	Role        string  `json:"role" validate:"required"`
	StoreID     *string `json:"store_id,omitempty" validate:"omitempty,uuid"`
}

// AssignmentCreate grants a user a role at a warehouse. Store managers
// additionally bind to a store inside that warehouse.
func AssignmentCreate(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		userID, err := validators.ParsePathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignmentCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouseID, err := parseUUIDField(payload.WarehouseID, "warehouse_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		storeID, err := parseOptionalUUIDField(payload.StoreID, "store_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.Create(r.Context(), actor, userID, assignments.CreateAssignmentInput{
			WarehouseID: warehouseID,
			Role:        role,
			StoreID:     storeID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, assignment)
	}
}

// AssignmentDelete revokes a role grant.
func AssignmentDelete(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, ok := actorFromRequest(w, r, logg)
		if !ok {
			return
		}

		id, err := validators.ParsePathUUID(r, "assignmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}
