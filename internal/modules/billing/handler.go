package billing

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes invoice HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Route("/api/invoices", func(r chi.Router) {
		r.Use(authn, identity.RequireRole(identity.RoleAdmin))
		r.Post("/generate-invoice", h.generate)    // POST /api/invoices/generate-invoice
		r.Get("/", h.list)                         // GET  /api/invoices
		r.Get("/download/{invoiceId}", h.download) // GET  /api/invoices/download/{invoiceId}
		r.Get("/{id}", h.get)                      // GET  /api/invoices/{id}
	})
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	raw := strings.TrimSpace(req.OrderID)
	if raw == "" {
		httpx.Error(w, r, apperr.Validation("Order ID is required"))
		return
	}
	orderID, err := uuid.Parse(raw)
	if err != nil {
		httpx.Error(w, r, apperr.NotFound("Order not found"))
		return
	}
	inv, err := h.service.GenerateInvoice(r.Context(), orderID)
	if errors.Is(err, ErrAlreadyGenerated) {
		httpx.ErrorWithData(w, r, err, inv)
		return
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Invoice generated successfully", inv)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	invs, err := h.service.ListInvoices(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", invs)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := invoiceID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	inv, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, "", inv)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	id, err := invoiceID(chi.URLParam(r, "invoiceId"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	inv, doc, err := h.service.Download(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+inv.InvoiceNumber+".pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func invoiceID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NotFound("Invoice not found")
	}
	return id, nil
}
