package auth

import (
	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/internal/session"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

// LoginInput carries the credentials posted to login.
type LoginInput struct {
	Username string
	Password string
}

// TokenPair is one issued access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is the login (or role selection) response. When
// NeedsSelection is set the tokens are context-free: the client must call
// select-role with one of Choices before touching protected resources.
type LoginResult struct {
	TokenPair
	UserID         uuid.UUID        `json:"user_id"`
	Role           enums.Role       `json:"role"`
	WarehouseID    *uuid.UUID       `json:"warehouse_id,omitempty"`
	NeedsSelection bool             `json:"needs_selection,omitempty"`
	Choices        []session.Choice `json:"choices,omitempty"`
}
