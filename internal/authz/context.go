package authz

import (
	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

// ActiveContext is the authority governing a request. It is either the
// synthetic global context of a super admin, carrying no warehouse, or a
// scoped context derived from one selected assignment group. It is built
// fresh per request and never persisted.
type ActiveContext struct {
	UserID       uuid.UUID
	Role         enums.Role
	AssignmentID *uuid.UUID
	WarehouseID  *uuid.UUID

	// StoreIDs lists the stores covered by the context. Store manager
	// assignments at the same (warehouse, role) group fold into one context
	// with multiple stores; warehouse-level contexts leave it empty.
	StoreIDs []uuid.UUID
}

// Global constructs the synthetic super-admin context.
func Global(userID uuid.UUID) ActiveContext {
	return ActiveContext{
		UserID: userID,
		Role:   enums.RoleSuperAdmin,
	}
}

// Scoped constructs a context bound to a warehouse assignment.
func Scoped(userID, assignmentID, warehouseID uuid.UUID, role enums.Role, storeIDs []uuid.UUID) ActiveContext {
	aid := assignmentID
	wid := warehouseID
	return ActiveContext{
		UserID:       userID,
		Role:         role,
		AssignmentID: &aid,
		WarehouseID:  &wid,
		StoreIDs:     storeIDs,
	}
}

// IsGlobal reports whether the context carries unrestricted authority.
func (c ActiveContext) IsGlobal() bool {
	return c.Role == enums.RoleSuperAdmin && c.WarehouseID == nil
}

// CoversStore reports whether the context includes a given store.
func (c ActiveContext) CoversStore(storeID uuid.UUID) bool {
	for _, id := range c.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}
