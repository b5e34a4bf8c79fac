package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo    Repository
	vendors VendorVerifier
	tx      database.Transactor
}

// NewService creates a new user service.
func NewService(repo Repository, vendors VendorVerifier, tx database.Transactor) Service {
	return &service{repo: repo, vendors: vendors, tx: tx}
}

func (s *service) RegisterUser(ctx context.Context, name, email, password string) (*User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashedPassword),
		Role:         identity.RoleCustomer,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		user.Address = strings.TrimSpace(*req.Address)
	}
	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) UpdateRole(ctx context.Context, id uuid.UUID, role identity.Role) (*User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("Invalid role",
			apperr.FieldError{Field: "role", Message: "role must be one of: customer vendor admin"})
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetUserByID(ctx, id); err != nil {
			return err
		}
		if role == identity.RoleVendor {
			if err := s.vendors.Verify(ctx, id); err != nil {
				return err
			}
		}
		return s.repo.UpdateRole(ctx, id, role)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteUser(ctx, id)
}
