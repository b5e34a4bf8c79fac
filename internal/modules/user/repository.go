package user

import (
	"context"

	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/google/uuid"
)

// Repository defines data access for users.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role identity.Role) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
