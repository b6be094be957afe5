package authz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/enums"
	pkgerrors "github.com/warehouse360/warehouse360-backend/pkg/errors"
)

func scopedCtx(role enums.Role, storeIDs ...uuid.UUID) ActiveContext {
	return Scoped(uuid.New(), uuid.New(), uuid.New(), role, storeIDs)
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestAuthorizeDecisionTable(t *testing.T) {
	cases := []struct {
		name     string
		role     enums.Role
		action   Action
		resource Resource
		allowed  bool
	}{
		{"warehouse admin cannot touch warehouses", enums.RoleWarehouseAdmin, ActionCreate, ResourceWarehouse, false},
		{"warehouse admin manages stores", enums.RoleWarehouseAdmin, ActionCreate, ResourceStore, true},
		{"warehouse admin edits users", enums.RoleWarehouseAdmin, ActionEdit, ResourceUser, true},
		{"warehouse admin cannot delete users", enums.RoleWarehouseAdmin, ActionDelete, ResourceUser, false},
		{"warehouse admin manages products", enums.RoleWarehouseAdmin, ActionEdit, ResourceProduct, true},
		{"warehouse admin transitions orders", enums.RoleWarehouseAdmin, ActionTransition, ResourceOrder, true},
		{"warehouse admin manages assignments", enums.RoleWarehouseAdmin, ActionCreate, ResourceAssignment, true},
		{"store manager reads stores", enums.RoleStoreManager, ActionRead, ResourceStore, true},
		{"store manager cannot create stores", enums.RoleStoreManager, ActionCreate, ResourceStore, false},
		{"store manager cannot touch users", enums.RoleStoreManager, ActionCreate, ResourceUser, false},
		{"store manager creates products", enums.RoleStoreManager, ActionCreate, ResourceProduct, true},
		{"store manager creates orders", enums.RoleStoreManager, ActionCreate, ResourceOrder, true},
		{"store manager cannot transition orders", enums.RoleStoreManager, ActionTransition, ResourceOrder, false},
		{"store manager cannot manage assignments", enums.RoleStoreManager, ActionCreate, ResourceAssignment, false},
		{"warehouse manager lists orders", enums.RoleWarehouseManager, ActionList, ResourceOrder, true},
		{"warehouse manager transitions orders", enums.RoleWarehouseManager, ActionTransition, ResourceOrder, true},
		{"warehouse manager cannot edit orders", enums.RoleWarehouseManager, ActionEdit, ResourceOrder, false},
		{"warehouse manager cannot see stores", enums.RoleWarehouseManager, ActionList, ResourceStore, false},
		{"warehouse manager cannot touch products", enums.RoleWarehouseManager, ActionList, ResourceProduct, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(scopedCtx(tc.role), tc.action, tc.resource)
			if tc.allowed && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tc.allowed {
				assertCode(t, err, pkgerrors.CodeForbidden)
			}
		})
	}
}

func TestAuthorizeGlobalBypassesEverything(t *testing.T) {
	ctx := Global(uuid.New())
	for _, resource := range []Resource{ResourceWarehouse, ResourceStore, ResourceUser, ResourceProduct, ResourceOrder, ResourceAssignment} {
		for _, action := range []Action{ActionList, ActionRead, ActionCreate, ActionEdit, ActionDelete, ActionTransition} {
			if err := Authorize(ctx, action, resource); err != nil {
				t.Fatalf("super admin denied %s %s: %v", action, resource, err)
			}
		}
	}
}

func TestCheckOwnership(t *testing.T) {
	owner := uuid.New()
	ctx := ActiveContext{UserID: owner, Role: enums.RoleStoreManager}

	if err := CheckOwnership(ctx, &owner); err != nil {
		t.Fatalf("owner denied: %v", err)
	}

	other := uuid.New()
	assertCode(t, CheckOwnership(ctx, &other), pkgerrors.CodeNotOwner)
	assertCode(t, CheckOwnership(ctx, nil), pkgerrors.CodeNotOwner)

	// non-managers are not ownership-scoped
	adminCtx := scopedCtx(enums.RoleWarehouseAdmin)
	if err := CheckOwnership(adminCtx, &other); err != nil {
		t.Fatalf("warehouse admin should bypass ownership: %v", err)
	}
}

func TestCheckOrderWarehouse(t *testing.T) {
	warehouseID := uuid.New()
	ctx := Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleWarehouseManager, nil)

	if err := CheckOrderWarehouse(ctx, &warehouseID); err != nil {
		t.Fatalf("same warehouse denied: %v", err)
	}

	otherWarehouse := uuid.New()
	assertCode(t, CheckOrderWarehouse(ctx, &otherWarehouse), pkgerrors.CodeWrongWarehouse)
	assertCode(t, CheckOrderWarehouse(ctx, nil), pkgerrors.CodeWrongWarehouse)

	if err := CheckOrderWarehouse(Global(uuid.New()), &otherWarehouse); err != nil {
		t.Fatalf("super admin should bypass warehouse check: %v", err)
	}
}

func TestCheckGrant(t *testing.T) {
	warehouseID := uuid.New()
	admin := Scoped(uuid.New(), uuid.New(), warehouseID, enums.RoleWarehouseAdmin, nil)

	if err := CheckGrant(admin, enums.RoleStoreManager, warehouseID); err != nil {
		t.Fatalf("admin denied store_manager grant: %v", err)
	}
	if err := CheckGrant(admin, enums.RoleWarehouseManager, warehouseID); err != nil {
		t.Fatalf("admin denied warehouse_manager grant: %v", err)
	}

	// escalation attempts
	assertCode(t, CheckGrant(admin, enums.RoleSuperAdmin, warehouseID), pkgerrors.CodeForbidden)
	assertCode(t, CheckGrant(admin, enums.RoleWarehouseAdmin, warehouseID), pkgerrors.CodeForbidden)

	// cross-warehouse
	assertCode(t, CheckGrant(admin, enums.RoleStoreManager, uuid.New()), pkgerrors.CodeForbidden)

	// other roles never grant
	assertCode(t, CheckGrant(scopedCtx(enums.RoleStoreManager), enums.RoleStoreManager, warehouseID), pkgerrors.CodeForbidden)
	assertCode(t, CheckGrant(scopedCtx(enums.RoleWarehouseManager), enums.RoleStoreManager, warehouseID), pkgerrors.CodeForbidden)

	// super admin grants anything anywhere
	if err := CheckGrant(Global(uuid.New()), enums.RoleWarehouseAdmin, warehouseID); err != nil {
		t.Fatalf("super admin grant denied: %v", err)
	}
}

func TestGrantableRoles(t *testing.T) {
	if got := GrantableRoles(Global(uuid.New())); len(got) != 4 {
		t.Fatalf("expected all roles for super admin, got %v", got)
	}
	got := GrantableRoles(scopedCtx(enums.RoleWarehouseAdmin))
	if len(got) != 2 || got[0] != enums.RoleStoreManager || got[1] != enums.RoleWarehouseManager {
		t.Fatalf("unexpected warehouse admin grantable roles: %v", got)
	}
	if got := GrantableRoles(scopedCtx(enums.RoleStoreManager)); got != nil {
		t.Fatalf("expected none for store manager, got %v", got)
	}
}

func TestOrderScope(t *testing.T) {
	if !OrderScope(Global(uuid.New())).All {
		t.Fatal("super admin should see all orders")
	}

	manager := scopedCtx(enums.RoleStoreManager)
	scope := OrderScope(manager)
	if scope.CreatedBy == nil || *scope.CreatedBy != manager.UserID {
		t.Fatalf("store manager scope should pin created_by, got %+v", scope)
	}

	admin := scopedCtx(enums.RoleWarehouseAdmin)
	scope = OrderScope(admin)
	if scope.WarehouseID == nil || *scope.WarehouseID != *admin.WarehouseID {
		t.Fatalf("warehouse admin scope should pin warehouse, got %+v", scope)
	}

	viewer := scopedCtx(enums.RoleWarehouseManager)
	scope = OrderScope(viewer)
	if scope.WarehouseID == nil {
		t.Fatalf("warehouse manager scope should pin warehouse, got %+v", scope)
	}
}

func TestStoreScopePinsAssignedStores(t *testing.T) {
	s1, s2 := uuid.New(), uuid.New()
	manager := scopedCtx(enums.RoleStoreManager, s1, s2)

	scope := StoreScope(manager)
	if len(scope.StoreIDs) != 2 {
		t.Fatalf("expected two stores, got %+v", scope)
	}
	if !manager.CoversStore(s1) || !manager.CoversStore(s2) {
		t.Fatal("context should cover both assigned stores")
	}
	if manager.CoversStore(uuid.New()) {
		t.Fatal("context should not cover foreign stores")
	}

	// warehouse manager has no store visibility
	if scope := StoreScope(scopedCtx(enums.RoleWarehouseManager)); scope.All || scope.WarehouseID != nil || len(scope.StoreIDs) != 0 {
		t.Fatalf("expected empty scope, got %+v", scope)
	}
}

func TestProductScope(t *testing.T) {
	if !ProductScope(scopedCtx(enums.RoleWarehouseAdmin)).All {
		t.Fatal("warehouse admin sees all products")
	}
	manager := scopedCtx(enums.RoleStoreManager)
	if scope := ProductScope(manager); scope.CreatedBy == nil || *scope.CreatedBy != manager.UserID {
		t.Fatalf("store manager product scope should pin created_by, got %+v", scope)
	}
}
