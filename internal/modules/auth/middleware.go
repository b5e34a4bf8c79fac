package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

// Middleware authenticates bearer tokens against the user store.
type Middleware struct {
	tokens   *Tokens
	userRepo user.Repository
}

func NewMiddleware(tokens *Tokens, userRepo user.Repository) *Middleware {
	return &Middleware{tokens: tokens, userRepo: userRepo}
}

// Authenticate reads the bearer token of each request and reloads the user,
// so a deleted account or a changed role applies immediately.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			httpx.Error(w, r, apperr.Unauthorized("Not authorized, no token"))
			return
		}

		claimed, err := m.tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			slog.DebugContext(r.Context(), "token rejected", slog.String("error", err.Error()))
			httpx.Error(w, r, apperr.Unauthorized("Not authorized, token failed"))
			return
		}

		u, err := m.userRepo.GetUserByID(r.Context(), claimed.UserID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				httpx.Error(w, r, apperr.Unauthorized("Not authorized, user not found"))
				return
			}
			httpx.Error(w, r, err)
			return
		}

		p := identity.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
		next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), p)))
	})
}
