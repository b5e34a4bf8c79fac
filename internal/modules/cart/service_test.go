package cart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	product  uuid.UUID
	quantity int
}

type memRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
	lines    map[uuid.UUID][]*line
}

func newMemRepo() *memRepo {
	return &memRepo{products: map[uuid.UUID]*catalog.Product{}, lines: map[uuid.UUID][]*line{}}
}

func (m *memRepo) addProduct(name, price string) uuid.UUID {
	p := &catalog.Product{ID: uuid.New(), Name: name, Price: decimal.RequireFromString(price), Stock: 9, IsActive: true, Confirmed: true}
	m.products[p.ID] = p
	return p.ID
}

func (m *memRepo) GetProduct(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := m.products[id]
	if !ok || !p.Visible() {
		return nil, apperr.NotFound("Product not found")
	}
	return p, nil
}

func (m *memRepo) Items(_ context.Context, userID uuid.UUID) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []Item
	for _, l := range m.lines[userID] {
		p := m.products[l.product]
		items = append(items, Item{
			Product:  ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock},
			Quantity: l.quantity,
			AddedAt:  time.Now(),
		})
	}
	return items, nil
}

func (m *memRepo) line(userID, productID uuid.UUID) *line {
	for _, l := range m.lines[userID] {
		if l.product == productID {
			return l
		}
	}
	return nil
}

func (m *memRepo) AddOne(_ context.Context, userID, productID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l := m.line(userID, productID); l != nil {
		l.quantity++
		return nil
	}
	m.lines[userID] = append(m.lines[userID], &line{product: productID, quantity: 1})
	return nil
}

func (m *memRepo) Step(_ context.Context, userID, productID uuid.UUID, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.line(userID, productID)
	if l == nil {
		return errNotInCart
	}
	if l.quantity += delta; l.quantity < 1 {
		l.quantity = 1
	}
	return nil
}

func (m *memRepo) Remove(_ context.Context, userID, productID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := m.lines[userID]
	for i, l := range lines {
		if l.product == productID {
			m.lines[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return errNotInCart
}

func (m *memRepo) Clear(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, userID)
	return nil
}

func TestCartLifecycle(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, repo)
	ctx := context.Background()
	user := uuid.New()
	mug := repo.addProduct("Mug", "10.50")
	tea := repo.addProduct("Tea", "3.25")

	c, err := svc.Get(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.True(t, c.Subtotal.IsZero())

	_, err = svc.Add(ctx, user, mug)
	require.NoError(t, err)
	_, err = svc.Add(ctx, user, mug)
	require.NoError(t, err)
	c, err = svc.Add(ctx, user, tea)
	require.NoError(t, err)
	assert.Equal(t, 3, c.ItemCount)
	assert.Equal(t, "24.25", c.Subtotal.StringFixed(2))

	c, err = svc.Update(ctx, user, tea, UpdateRequest{Action: ActionDecrement})
	require.NoError(t, err)
	assert.Equal(t, 3, c.ItemCount, "decrement stops at one")

	c, err = svc.Update(ctx, user, tea, UpdateRequest{Action: ActionIncrement})
	require.NoError(t, err)
	assert.Equal(t, 4, c.ItemCount)

	c, err = svc.Remove(ctx, user, mug)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "6.50", c.Subtotal.StringFixed(2))

	_, err = svc.Remove(ctx, user, mug)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	c, err = svc.Clear(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestAddRejectsUnknownProduct(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, repo)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCartRoutes(t *testing.T) {
	repo := newMemRepo()
	mug := repo.addProduct("Mug", "10.50")
	user := uuid.New()
	authn := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := identity.Principal{UserID: user, Role: identity.RoleCustomer}
			next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), p)))
		})
	}
	router := chi.NewRouter()
	NewHandler(NewService(repo, repo)).RegisterRoutes(router, authn)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	rec := do(http.MethodPost, "/api/cart/add/"+mug.String(), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"itemCount":1`)

	rec = do(http.MethodPut, "/api/cart/update/"+mug.String(), `{"action":"double"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPut, "/api/cart/update/"+mug.String(), `{"action":"increment"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"itemCount":2`)

	rec = do(http.MethodPost, "/api/cart/add/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(http.MethodDelete, "/api/cart/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}
