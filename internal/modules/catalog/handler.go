package catalog

import (
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.listProducts)                  // GET /api/products
		r.Get("/search", h.search)                  // GET /api/products/search?q=
		r.Get("/category/{category}", h.byCategory) // GET /api/products/category/{category}?excludeId=

		r.Group(func(r chi.Router) {
			r.Use(authn, identity.RequireRole(identity.RoleVendor))
			r.Get("/vendor", h.listVendorProducts) // GET    /api/products/vendor
			r.Post("/", h.createProduct)           // POST   /api/products
			r.Patch("/{id}", h.updateProduct)      // PATCH  /api/products/{id}
			r.Delete("/{id}", h.deleteProduct)     // DELETE /api/products/{id}
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authn, identity.RequireRole(identity.RoleAdmin))
			r.Get("/", h.listAllProducts)             // GET    /api/products/admin
			r.Put("/{id}", h.updateProduct)           // PUT    /api/products/admin/{id}
			r.Put("/confirm-product/{id}", h.confirm) // PUT    /api/products/admin/confirm-product/{id}
			r.Delete("/{id}", h.deleteProduct)        // DELETE /api/products/admin/{id}
		})

		r.Get("/{id}", h.getProduct) // GET /api/products/{id}
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", products)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", products)
}

func (h *Handler) byCategory(w http.ResponseWriter, r *http.Request) {
	var exclude *uuid.UUID
	if raw := r.URL.Query().Get("excludeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpx.Error(w, r, apperr.Validation("Invalid excludeId"))
			return
		}
		exclude = &id
	}
	products, err := h.service.ListByCategory(r.Context(), Category(chi.URLParam(r, "category")), exclude)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", p)
}

func (h *Handler) listVendorProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListVendorProducts(r.Context(), identity.MustFromContext(r.Context()).UserID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), identity.MustFromContext(r.Context()).UserID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Product created successfully. Awaiting admin confirmation.", p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req UpdateProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), identity.MustFromContext(r.Context()), id, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Product updated successfully", p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.DeleteProduct(r.Context(), identity.MustFromContext(r.Context()), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Product deleted successfully", nil)
}

func (h *Handler) listAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAllProducts(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", products)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.ConfirmProduct(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Product confirmed successfully", p)
}

func productID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid product id")
	}
	return id, nil
}
