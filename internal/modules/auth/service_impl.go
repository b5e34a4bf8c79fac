package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	users    user.Service
	userRepo user.Repository
	tokens   *Tokens
}

// NewService creates a new auth service.
func NewService(users user.Service, userRepo user.Repository, tokens *Tokens) Service {
	return &service{users: users, userRepo: userRepo, tokens: tokens}
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	u, err := s.users.RegisterUser(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user signed up", slog.String("user_id", u.ID.String()))
	return s.session(u)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperr.Validation("Invalid password")
		}
		return nil, err
	}

	return s.session(u)
}

func (s *service) session(u *user.User) (*Session, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}
