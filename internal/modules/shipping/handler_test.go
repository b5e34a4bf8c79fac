package shipping

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu     sync.Mutex
	byUser map[uuid.UUID]*Address
}

func (m *memRepo) Create(_ context.Context, a *Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUser[a.UserID]; ok {
		return apperr.Conflict("Shipping address already exists. Please update it instead.")
	}
	cp := *a
	m.byUser[a.UserID] = &cp
	return nil
}

func (m *memRepo) GetByUser(_ context.Context, id uuid.UUID) (*Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byUser[id]
	if !ok {
		return nil, apperr.NotFound("Shipping address not found")
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, a *Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.byUser[a.UserID] = &cp
	return nil
}

// asUser stands in for bearer authentication.
func asUser(id uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := identity.Principal{UserID: id, Role: identity.RoleCustomer}
			next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), p)))
		})
	}
}

func TestShippingRoutes(t *testing.T) {
	repo := &memRepo{byUser: map[uuid.UUID]*Address{}}
	router := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(router, asUser(uuid.New()))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodGet, "/api/shipping", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(http.MethodPost, "/api/shipping/add", `{"fullName":"Asha Rai","phone":"9800000000"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"addressLine1"`)
	assert.Contains(t, rec.Body.String(), `"field":"postalCode"`)

	valid := `{"fullName":"Asha Rai","phone":"9800000000","addressLine1":"Thamel 12","city":"Kathmandu","postalCode":"44600"}`
	rec = do(http.MethodPost, "/api/shipping/add", valid)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"country":"Nepal"`)

	rec = do(http.MethodPost, "/api/shipping/add", valid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPut, "/api/shipping/update", strings.Replace(valid, "Kathmandu", "Pokhara", 1))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"city":"Pokhara"`)
}
