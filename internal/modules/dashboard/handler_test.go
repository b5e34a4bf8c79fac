package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	stats *Stats
	err   error
	limit int
}

func (s *stubRepo) Stats(context.Context) (*Stats, error) { return s.stats, s.err }

func (s *stubRepo) RecentOrders(_ context.Context, limit int) ([]RecentOrder, error) {
	s.limit = limit
	return []RecentOrder{}, s.err
}

func asRole(role identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := identity.Principal{UserID: uuid.New(), Role: role}
			next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), p)))
		})
	}
}

func serve(repo Repository, role identity.Role, path string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	NewHandler(repo).RegisterRoutes(router, asRole(role))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStats(t *testing.T) {
	repo := &stubRepo{stats: &Stats{TotalOrders: 7, PendingOrders: 2, PendingVendors: 1}}

	rec := serve(repo, identity.RoleAdmin, "/api/dashboard/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalOrders":7`)
	assert.Contains(t, rec.Body.String(), `"pendingVendors":1`)

	rec = serve(repo, identity.RoleVendor, "/api/dashboard/stats")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecentOrders(t *testing.T) {
	repo := &stubRepo{}
	rec := serve(repo, identity.RoleAdmin, "/api/dashboard/recent-orders")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, repo.limit)

	repo.err = errors.New("connection reset")
	rec = serve(repo, identity.RoleAdmin, "/api/dashboard/recent-orders")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}
