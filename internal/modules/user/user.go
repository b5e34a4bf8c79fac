package user

import (
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/google/uuid"
)

// User is a marketplace account: customer, vendor or admin.
type User struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Role         identity.Role `json:"role"`
	Phone        string        `json:"phone,omitempty"`
	Address      string        `json:"address,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// UpdateProfileRequest carries the editable profile fields; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,personname"`
	Phone   *string `json:"phone" validate:"omitempty,min=7,max=20"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

// UpdateRoleRequest is the admin payload for changing a user's role.
type UpdateRoleRequest struct {
	Role identity.Role `json:"role" validate:"required,oneof=customer vendor admin"`
}
