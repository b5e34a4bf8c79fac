// Package httpx holds the JSON request/response plumbing shared by module handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/go-chi/chi/v5/middleware"
)

// Envelope is the body shape of every JSON response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

func Respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// OK writes a successful envelope.
func OK(w http.ResponseWriter, status int, message string, data any) {
	Respond(w, status, Envelope{Success: true, Message: message, Data: data})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict, apperr.KindInsufficientStock:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAccessDenied:
		return http.StatusForbidden
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as an error envelope. Internal errors are logged and hidden.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	ErrorWithData(w, r, err, nil)
}

// ErrorWithData is Error with a data payload, used when a rejection still
// carries a useful resource (an already generated invoice).
func ErrorWithData(w http.ResponseWriter, r *http.Request, err error, data any) {
	status := StatusFor(err)
	body := Envelope{Success: false, Message: err.Error(), Data: data}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		body.Message = "Internal server error"
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		body.Errors = ae.Fields
	}
	Respond(w, status, body)
}
