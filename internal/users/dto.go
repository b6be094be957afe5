package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

// UserDTO is the API representation of a user. The password hash never
// leaves the service layer.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	PrimaryRole enums.Role `json:"primary_role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserDTO maps a model row into its API shape.
func ToUserDTO(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		PrimaryRole: u.PrimaryRole,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// CreateUserInput carries the fields for a new user account.
type CreateUserInput struct {
	Username    string
	Email       string
	FullName    string
	Phone       *string
	Password    string
	PrimaryRole enums.Role
}

// UpdateUserInput is a partial update; nil fields stay untouched. Password
// is re-hashed only when provided.
type UpdateUserInput struct {
	Email       *string
	FullName    *string
	Phone       *string
	Password    *string
	PrimaryRole *enums.Role
	IsActive    *bool
}
