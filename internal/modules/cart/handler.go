package cart

import (
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authn)
		r.Get("/", h.get)                         // GET    /api/cart
		r.Post("/add/{productId}", h.add)         // POST   /api/cart/add/{productId}
		r.Put("/update/{productId}", h.update)    // PUT    /api/cart/update/{productId}
		r.Delete("/remove/{productId}", h.remove) // DELETE /api/cart/remove/{productId}
		r.Delete("/clear", h.clear)               // DELETE /api/cart/clear
	})
}

func productID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("Product not found")
	}
	return id, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), identity.MustFromContext(r.Context()).UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", c)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.Add(r.Context(), identity.MustFromContext(r.Context()).UserID, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Product added to cart", c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req UpdateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.Update(r.Context(), identity.MustFromContext(r.Context()).UserID, id, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Cart updated", c)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	c, err := h.service.Remove(r.Context(), identity.MustFromContext(r.Context()).UserID, id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Product removed from cart", c)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Clear(r.Context(), identity.MustFromContext(r.Context()).UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Cart cleared", c)
}
