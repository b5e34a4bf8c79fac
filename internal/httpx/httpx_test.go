package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad"), http.StatusBadRequest},
		{apperr.Conflict("Order is already confirmed"), http.StatusBadRequest},
		{&apperr.InsufficientStockError{Product: "P1", Available: 5, Ordered: 10}, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", apperr.NotFound("Order not found")), http.StatusNotFound},
		{apperr.AccessDenied("Access denied"), http.StatusForbidden},
		{apperr.Unauthorized("Not authorized"), http.StatusUnauthorized},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StatusFor(c.err), c.err.Error())
	}
}

func TestErrorHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	Error(rec, req, errors.New("pq: password authentication failed"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Internal server error", body.Message)
}

type signupBody struct {
	Name     string `json:"name" validate:"required,personname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

func TestDecodeReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Al","email":"nope","password":"weak"}`))
	var dst signupBody
	err := Decode(req, &dst)
	require.Error(t, err)

	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, apperr.KindValidation, ae.Kind)

	fields := map[string]string{}
	for _, f := range ae.Fields {
		fields[f.Field] = f.Message
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	rec := httptest.NewRecorder()
	Error(rec, req, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"email"`)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	var dst signupBody
	assert.ErrorIs(t, Decode(req, &dst), apperr.ErrValidation)
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, StrongPassword("Secr3t!pass"))
	assert.False(t, StrongPassword("short1!"))
	assert.False(t, StrongPassword("alllowercase1!"))
	assert.False(t, StrongPassword("NoDigitsHere!"))
	assert.False(t, StrongPassword("NoSymbols123"))
}
