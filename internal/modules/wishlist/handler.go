package wishlist

import (
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct{ service *Service }

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Route("/api/wishlist", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", h.get)                         // GET    /api/wishlist
		r.Post("/add/{productId}", h.add)         // POST   /api/wishlist/add/{productId}
		r.Delete("/remove/{productId}", h.remove) // DELETE /api/wishlist/remove/{productId}
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Get(r.Context(), identity.MustFromContext(r.Context()).UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", entries)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		httpx.Error(w, r, apperr.NotFound("Product not found"))
		return
	}
	entries, err := h.service.Add(r.Context(), identity.MustFromContext(r.Context()).UserID, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Product added to wishlist", entries)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		httpx.Error(w, r, apperr.NotFound("Product not found"))
		return
	}
	entries, err := h.service.Remove(r.Context(), identity.MustFromContext(r.Context()).UserID, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Product removed from wishlist", entries)
}
