package authz

import (
	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
)

// Action is an intended operation on a resource kind.
type Action string

const (
	ActionList       Action = "list"
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionEdit       Action = "edit"
	ActionDelete     Action = "delete"
	ActionTransition Action = "transition"
)

// Resource names an entity kind subject to authorization.
type Resource string

const (
	ResourceWarehouse  Resource = "warehouse"
	ResourceStore      Resource = "store"
	ResourceUser       Resource = "user"
	ResourceProduct    Resource = "product"
	ResourceOrder      Resource = "order"
	ResourceAssignment Resource = "assignment"
)

// Scope restricts which records a list operation may return. The zero value
// means no visibility at all; All grants everything.
type Scope struct {
	All         bool
	WarehouseID *uuid.UUID
	StoreIDs    []uuid.UUID
	CreatedBy   *uuid.UUID
}

// Authorize is the pure decision function for (role x action x resource).
// It never touches persistence; callers supply entity facts through the
// dedicated ownership/warehouse checks below.
func Authorize(ctx ActiveContext, action Action, resource Resource) error {
	if ctx.IsGlobal() {
		return nil
	}

	allowed := false
	switch resource {
	case ResourceWarehouse:
		// Non-super roles have no warehouse authority at all.
		allowed = false
	case ResourceStore:
		switch ctx.Role {
		case enums.RoleWarehouseAdmin:
			allowed = true
		case enums.RoleStoreManager:
			allowed = action == ActionList || action == ActionRead
		}
	case ResourceUser:
		allowed = ctx.Role == enums.RoleWarehouseAdmin && action != ActionDelete
	case ResourceProduct:
		switch ctx.Role {
		case enums.RoleWarehouseAdmin:
			allowed = true
		case enums.RoleStoreManager:
			allowed = action != ActionDelete
		}
	case ResourceOrder:
		switch ctx.Role {
		case enums.RoleWarehouseAdmin:
			allowed = true
		case enums.RoleStoreManager:
			allowed = action != ActionTransition && action != ActionDelete
		case enums.RoleWarehouseManager:
			allowed = action == ActionList || action == ActionRead || action == ActionTransition
		}
	case ResourceAssignment:
		allowed = ctx.Role == enums.RoleWarehouseAdmin
	}

	if !allowed {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role lacks permission for this operation")
	}
	return nil
}

// CheckOwnership enforces the created-by rule for store managers editing
// products and orders. Other roles pass through; missing owners fail closed.
func CheckOwnership(ctx ActiveContext, createdBy *uuid.UUID) error {
	if ctx.IsGlobal() || ctx.Role != enums.RoleStoreManager {
		return nil
	}
	if createdBy == nil || *createdBy != ctx.UserID {
		return pkgerrors.New(pkgerrors.CodeNotOwner, "resource was created by another user")
	}
	return nil
}

// CheckOrderWarehouse enforces warehouse ownership before a transition.
// Super admins bypass the check entirely.
func CheckOrderWarehouse(ctx ActiveContext, orderWarehouseID *uuid.UUID) error {
	if ctx.IsGlobal() {
		return nil
	}
	if ctx.WarehouseID == nil || orderWarehouseID == nil || *orderWarehouseID != *ctx.WarehouseID {
		return pkgerrors.New(pkgerrors.CodeWrongWarehouse, "order belongs to another warehouse")
	}
	return nil
}

// CheckGrant validates an assignment create/delete: only super admins and
// warehouse admins may manage grants, and warehouse admins may only hand out
// the two manager roles inside their own warehouse.
func CheckGrant(ctx ActiveContext, role enums.Role, warehouseID uuid.UUID) error {
	if ctx.IsGlobal() {
		return nil
	}
	if ctx.Role != enums.RoleWarehouseAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role may not manage assignments")
	}
	if ctx.WarehouseID == nil || *ctx.WarehouseID != warehouseID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "assignments may only be managed within own warehouse")
	}
	if role != enums.RoleStoreManager && role != enums.RoleWarehouseManager {
		return pkgerrors.New(pkgerrors.CodeForbidden, "warehouse admins may only grant manager roles")
	}
	return nil
}

// GrantableRoles lists the roles the context may assign or set on users.
func GrantableRoles(ctx ActiveContext) []enums.Role {
	if ctx.IsGlobal() {
		return enums.Roles()
	}
	if ctx.Role == enums.RoleWarehouseAdmin {
		return []enums.Role{enums.RoleStoreManager, enums.RoleWarehouseManager}
	}
	return nil
}

// OrderScope yields the list filter for orders.
func OrderScope(ctx ActiveContext) Scope {
	switch {
	case ctx.IsGlobal():
		return Scope{All: true}
	case ctx.Role == enums.RoleStoreManager:
		uid := ctx.UserID
		return Scope{CreatedBy: &uid}
	case ctx.Role == enums.RoleWarehouseAdmin || ctx.Role == enums.RoleWarehouseManager:
		return Scope{WarehouseID: ctx.WarehouseID}
	default:
		return Scope{}
	}
}

// ProductScope yields the list filter for products.
func ProductScope(ctx ActiveContext) Scope {
	switch {
	case ctx.IsGlobal():
		return Scope{All: true}
	case ctx.Role == enums.RoleWarehouseAdmin:
		return Scope{All: true}
	case ctx.Role == enums.RoleStoreManager:
		uid := ctx.UserID
		return Scope{CreatedBy: &uid}
	default:
		return Scope{}
	}
}

// StoreScope yields the list filter for stores.
func StoreScope(ctx ActiveContext) Scope {
	switch {
	case ctx.IsGlobal():
		return Scope{All: true}
	case ctx.Role == enums.RoleWarehouseAdmin:
		return Scope{WarehouseID: ctx.WarehouseID}
	case ctx.Role == enums.RoleStoreManager:
		return Scope{StoreIDs: ctx.StoreIDs}
	default:
		return Scope{}
	}
}

// UserScope yields the list filter for users: warehouse admins see the users
// assigned to their warehouse.
func UserScope(ctx ActiveContext) Scope {
	switch {
	case ctx.IsGlobal():
		return Scope{All: true}
	case ctx.Role == enums.RoleWarehouseAdmin:
		return Scope{WarehouseID: ctx.WarehouseID}
	default:
		return Scope{}
	}
}
