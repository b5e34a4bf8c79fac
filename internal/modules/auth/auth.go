package auth

import (
	"context"

	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Signup registers a customer account and returns a session token for it.
	Signup(ctx context.Context, req SignupRequest) (*Session, error)
	// Login checks the credentials and returns a session token.
	Login(ctx context.Context, req LoginRequest) (*Session, error)
}

// Session is what the client keeps after signing in.
type Session struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,personname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
