package shipping

import (
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Route("/api/shipping", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", h.get)          // GET  /api/shipping
		r.Post("/add", h.add)      // POST /api/shipping/add
		r.Put("/update", h.update) // PUT  /api/shipping/update
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), identity.MustFromContext(r.Context()).UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", a)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	a, err := h.service.Add(r.Context(), identity.MustFromContext(r.Context()).UserID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Shipping address added successfully", a)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	a, err := h.service.Update(r.Context(), identity.MustFromContext(r.Context()).UserID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Shipping address updated successfully", a)
}
