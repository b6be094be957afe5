package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT. A nil
// AssignmentID with RoleSuperAdmin denotes the synthetic global context;
// every other token pins the selected assignment.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	Role         enums.Role
	AssignmentID *uuid.UUID
	WarehouseID  *uuid.UUID
	StoreID      *uuid.UUID
	JTI          string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID       uuid.UUID  `json:"user_id"`
	Role         enums.Role `json:"role"`
	AssignmentID *uuid.UUID `json:"assignment_id,omitempty"`
	WarehouseID  *uuid.UUID `json:"warehouse_id,omitempty"`
	StoreID      *uuid.UUID `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}
