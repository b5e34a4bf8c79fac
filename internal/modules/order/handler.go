package order

import (
	"net/http"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authn)
		r.Post("/add", h.placeOrder)              // POST /api/orders/add
		r.Get("/user/{id}", h.listCustomerOrders) // GET  /api/orders/user/{id}
		r.Put("/{id}/cancel", h.cancelOrder)      // PUT  /api/orders/{id}/cancel

		r.With(identity.RequireRole(identity.RoleVendor)).
			Get("/vendor", h.listVendorOrders) // GET /api/orders/vendor

		r.Group(func(r chi.Router) {
			r.Use(identity.RequireRole(identity.RoleAdmin))
			r.Get("/", h.listOrders)                // GET /api/orders
			r.Put("/confirm-order", h.confirmOrder) // PUT /api/orders/confirm-order
			r.Put("/{id}/pay", h.markPaid)          // PUT /api/orders/{id}/pay
			r.Put("/{id}/deliver", h.markDelivered) // PUT /api/orders/{id}/deliver
		})

		r.Get("/{id}", h.getOrder) // GET /api/orders/{id}
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.PlaceOrder(r.Context(), identity.MustFromContext(r.Context()), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Order placed successfully", o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.GetOrder(r.Context(), identity.MustFromContext(r.Context()), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", orders)
}

func (h *Handler) listVendorOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListVendorOrders(r.Context(), identity.MustFromContext(r.Context()).UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", orders)
}

func (h *Handler) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, apperr.Validation("Invalid user ID"))
		return
	}
	orders, err := h.service.ListCustomerOrders(r.Context(), identity.MustFromContext(r.Context()), customerID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", orders)
}

func (h *Handler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderIDRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, err := parseOrderID(req.OrderID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.ConfirmOrder(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Order confirmed successfully", o)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.MarkPaid(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Order marked as paid", o)
}

func (h *Handler) markDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.MarkDelivered(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Order marked as delivered", o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	o, err := h.service.CancelOrder(r.Context(), identity.MustFromContext(r.Context()), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Order cancelled", o)
}

func parseOrderID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, apperr.Validation("Order ID is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NotFound("Order not found")
	}
	return id, nil
}
