package fulfillment

import (
	"fmt"

	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
)

// edge is one legal move through the pipeline. A kind may be legal from
// more than one status (out-of-stock is reachable from pending and from
// delivered), so edges key on the (kind, from) pair.
type edge struct {
	kind enums.TransitionKind
	from enums.OrderStatus
}

var transitions = map[edge]enums.OrderStatus{
	{enums.TransitionDelivered, enums.OrderStatusPending}:      enums.OrderStatusDelivered,
	{enums.TransitionOutOfStock, enums.OrderStatusPending}:     enums.OrderStatusOutOfStock,
	{enums.TransitionReadyToShip, enums.OrderStatusDelivered}:  enums.OrderStatusReadyToShip,
	{enums.TransitionOutOfStock, enums.OrderStatusDelivered}:   enums.OrderStatusOutOfStock,
	{enums.TransitionReturn, enums.OrderStatusOutOfStock}:      enums.OrderStatusDelivered,
	{enums.TransitionCompleted, enums.OrderStatusReadyToShip}:  enums.OrderStatusCompleted,
}

var transitionRoles = []enums.Role{
	enums.RoleSuperAdmin,
	enums.RoleWarehouseAdmin,
	enums.RoleWarehouseManager,
}

// NextStatus resolves the target status for applying kind to an order
// currently in from. Unknown kinds and edges with no table row both return
// InvalidTransition; completed has no outgoing edges at all.
func NextStatus(from enums.OrderStatus, kind enums.TransitionKind) (enums.OrderStatus, error) {
	if !kind.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeInvalidTransition, fmt.Sprintf("unknown transition %q", kind))
	}
	to, ok := transitions[edge{kind, from}]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeInvalidTransition,
			fmt.Sprintf("cannot apply %s to an order in status %s", kind, from))
	}
	return to, nil
}

// RoleMayTransition reports whether the role is allowed to action orders.
// Every edge shares the same actor set.
func RoleMayTransition(role enums.Role) bool {
	for _, r := range transitionRoles {
		if r == role {
			return true
		}
	}
	return false
}
