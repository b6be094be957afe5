package fulfillment

import (
	"testing"

	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
)

var allStatuses = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusDelivered,
	enums.OrderStatusOutOfStock,
	enums.OrderStatusReadyToShip,
	enums.OrderStatusCompleted,
}

var allKinds = []enums.TransitionKind{
	enums.TransitionDelivered,
	enums.TransitionOutOfStock,
	enums.TransitionReadyToShip,
	enums.TransitionReturn,
	enums.TransitionCompleted,
}

func TestNextStatusTable(t *testing.T) {
	legal := map[[2]string]enums.OrderStatus{
		{"pending", "dtw"}:        enums.OrderStatusDelivered,
		{"pending", "ofs"}:        enums.OrderStatusOutOfStock,
		{"delivered", "rts"}:      enums.OrderStatusReadyToShip,
		{"delivered", "ofs"}:      enums.OrderStatusOutOfStock,
		{"out_of_stock", "return-to-dtw"}: enums.OrderStatusDelivered,
		{"ready_to_ship", "cs"}:   enums.OrderStatusCompleted,
	}

	// Exhaustive sweep: every (status, kind) pair either matches the table
	// row or rejects as an invalid transition. Nothing else.
	for _, from := range allStatuses {
		for _, kind := range allKinds {
			to, err := NextStatus(from, kind)
			want, ok := legal[[2]string{string(from), string(kind)}]
			if ok {
				if err != nil {
					t.Errorf("%s + %s: unexpected rejection %v", from, kind, err)
				} else if to != want {
					t.Errorf("%s + %s: got %s want %s", from, kind, to, want)
				}
				continue
			}
			if err == nil {
				t.Errorf("%s + %s: expected rejection, got %s", from, kind, to)
				continue
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeInvalidTransition {
				t.Errorf("%s + %s: expected invalid transition, got %v", from, kind, err)
			}
		}
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	for _, kind := range allKinds {
		if _, err := NextStatus(enums.OrderStatusCompleted, kind); err == nil {
			t.Fatalf("completed must have no outgoing edge, %s succeeded", kind)
		}
	}
}

func TestNextStatusRejectsUnknownKind(t *testing.T) {
	_, err := NextStatus(enums.OrderStatusPending, enums.TransitionKind("teleport"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidTransition {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestRoleMayTransition(t *testing.T) {
	allowed := map[enums.Role]bool{
		enums.RoleSuperAdmin:       true,
		enums.RoleWarehouseAdmin:   true,
		enums.RoleWarehouseManager: true,
		enums.RoleStoreManager:     false,
	}
	for role, want := range allowed {
		if got := RoleMayTransition(role); got != want {
			t.Errorf("%s: got %v want %v", role, got, want)
		}
	}
}
