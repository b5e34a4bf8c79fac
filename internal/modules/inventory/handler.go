package inventory

import (
	"net/http"
	"strconv"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Route("/api/inventory", func(r chi.Router) {
		r.Use(authn, identity.RequireRole(identity.RoleVendor))
		r.Get("/low-stock", h.lowStock)              // GET   /api/inventory/low-stock?threshold=5
		r.Patch("/{productId}/stock", h.adjustStock) // PATCH /api/inventory/{productId}/stock
	})
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold := 0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Error(w, r, apperr.Validation("threshold must be a number"))
			return
		}
		threshold = n
	}
	levels, err := h.service.LowStock(r.Context(), identity.MustFromContext(r.Context()).UserID, threshold)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", levels)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		httpx.Error(w, r, apperr.Validation("Invalid product id"))
		return
	}
	var req AdjustStockRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	level, err := h.service.AdjustStock(r.Context(), identity.MustFromContext(r.Context()).UserID, productID, req.Delta)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Stock updated", level)
}
