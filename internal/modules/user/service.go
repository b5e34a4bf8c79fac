package user

import (
	"context"

	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/google/uuid"
)

// Service defines the interface for user-related business logic.
type Service interface {
	// RegisterUser hashes the password and stores a new customer account.
	RegisterUser(ctx context.Context, name, email, password string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error)
	// UpdateRole changes a user's role. Promotion to vendor requires a vendor
	// application on file and marks it verified.
	UpdateRole(ctx context.Context, id uuid.UUID, role identity.Role) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// VendorVerifier approves a user's pending vendor application.
type VendorVerifier interface {
	Verify(ctx context.Context, userID uuid.UUID) error
}
