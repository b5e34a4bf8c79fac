package user

import (
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(authn)
		r.Get("/me", h.getProfile)         // GET    /api/users/me
		r.Get("/profile", h.getProfile)    // GET    /api/users/profile
		r.Put("/profile", h.updateProfile) // PUT    /api/users/profile
		r.Delete("/profile", h.deleteSelf) // DELETE /api/users/profile

		r.Group(func(r chi.Router) {
			r.Use(identity.RequireRole(identity.RoleAdmin))
			r.Get("/", h.listUsers)           // GET    /api/users
			r.Get("/{id}", h.getUser)         // GET    /api/users/{id}
			r.Put("/{id}/role", h.updateRole) // PUT    /api/users/{id}/role
			r.Delete("/{id}", h.deleteUser)   // DELETE /api/users/{id}
		})
	})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p := identity.MustFromContext(r.Context())
	user, err := h.service.GetUser(r.Context(), p.UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", user)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p := identity.MustFromContext(r.Context())
	user, err := h.service.UpdateProfile(r.Context(), p.UserID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Profile updated successfully", user)
}

func (h *Handler) deleteSelf(w http.ResponseWriter, r *http.Request) {
	p := identity.MustFromContext(r.Context())
	if err := h.service.DeleteUser(r.Context(), p.UserID); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Account deleted successfully", nil)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", user)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req UpdateRoleRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	user, err := h.service.UpdateRole(r.Context(), id, req.Role)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "User role updated successfully", user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "User deleted successfully", nil)
}

func userID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid user id")
	}
	return id, nil
}
