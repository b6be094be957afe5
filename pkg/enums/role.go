package enums

import "fmt"

// Role represents the access level a user holds, either as their primary
// role or through a warehouse assignment.
type Role string

const (
	RoleSuperAdmin       Role = "super_admin"
	RoleWarehouseAdmin   Role = "warehouse_admin"
	RoleStoreManager     Role = "store_manager"
	RoleWarehouseManager Role = "warehouse_manager"
)

var validRoles = []Role{
	RoleSuperAdmin,
	RoleWarehouseAdmin,
	RoleStoreManager,
	RoleWarehouseManager,
}

// Roles returns every known role value.
func Roles() []Role {
	out := make([]Role, len(validRoles))
	copy(out, validRoles)
	return out
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// BindsStore reports whether assignments with this role reference a store.
// Only store managers are scoped to a single sales channel.
func (r Role) BindsStore() bool {
	return r == RoleStoreManager
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
