package dashboard

import (
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the admin dashboard. The queries are read-only
// aggregates, so it talks to the repository directly.
type Handler struct{ repo Repository }

func NewHandler(repo Repository) *Handler { return &Handler{repo: repo} }

func (h *Handler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(authn, identity.RequireRole(identity.RoleAdmin))
		r.Get("/stats", h.stats)                // GET /api/dashboard/stats
		r.Get("/recent-orders", h.recentOrders) // GET /api/dashboard/recent-orders
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.Stats(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", s)
}

func (h *Handler) recentOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.RecentOrders(r.Context(), recentOrdersLimit)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", orders)
}
