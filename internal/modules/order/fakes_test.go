package order

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/georgemunganga/marketplace-backend/internal/modules/inventory"
	"github.com/georgemunganga/marketplace-backend/internal/modules/shipping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// store keeps orders and product stock together so one transaction covers
// both. A failed transaction restores the snapshot taken when it began.
type store struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	orders   map[uuid.UUID]*Order
	products map[uuid.UUID]*catalog.Product
}

func newStore() *store {
	return &store{orders: map[uuid.UUID]*Order{}, products: map[uuid.UUID]*catalog.Product{}}
}

func (s *store) addProduct(name string, vendor uuid.UUID, price string, stock int) *catalog.Product {
	p := &catalog.Product{
		ID:        uuid.New(),
		VendorID:  vendor,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		IsActive:  true,
		Confirmed: true,
	}
	s.products[p.ID] = p
	return p
}

func (s *store) stock(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *store) status(id uuid.UUID) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].Status
}

func cloneOrder(o *Order) *Order {
	cp := *o
	cp.Items = make([]*LineItem, len(o.Items))
	for i, item := range o.Items {
		it := *item
		cp.Items[i] = &it
	}
	return &cp
}

type inTx struct{}

func (s *store) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	if ctx.Value(inTx{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	orders := make(map[uuid.UUID]*Order, len(s.orders))
	for id, o := range s.orders {
		orders[id] = cloneOrder(o)
	}
	stock := make(map[uuid.UUID]int, len(s.products))
	for id, p := range s.products {
		stock[id] = p.Stock
	}
	s.mu.Unlock()

	err := fn(context.WithValue(ctx, inTx{}, true))
	if err != nil {
		s.mu.Lock()
		s.orders = orders
		for id, n := range stock {
			s.products[id].Stock = n
		}
		s.mu.Unlock()
	}
	return err
}

// ── Repository ───────────────────────────────────────────────────────────────

func (s *store) CreateOrder(_ context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (s *store) GetOrderByID(_ context.Context, id uuid.UUID) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order not found")
	}
	return cloneOrder(o), nil
}

func (s *store) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.GetOrderByID(ctx, id)
}

func (s *store) list(keep func(*Order) bool) []*Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*Order{}
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *store) ListOrdersByCustomer(_ context.Context, customerID uuid.UUID) ([]*Order, error) {
	return s.list(func(o *Order) bool { return o.CustomerID == customerID }), nil
}

func (s *store) ListOrders(context.Context) ([]*Order, error) {
	return s.list(func(*Order) bool { return true }), nil
}

func (s *store) ListOrdersByVendor(_ context.Context, vendorID uuid.UUID) ([]*Order, error) {
	return s.list(func(o *Order) bool { return o.HasVendor(vendorID) }), nil
}

func (s *store) UpdateStatus(_ context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; !ok {
		return apperr.NotFound("Order not found")
	}
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

// ── inventory.Ledger ─────────────────────────────────────────────────────────

func (s *store) Decrement(_ context.Context, id uuid.UUID, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return 0, apperr.NotFound("Product with ID %s not found", id)
	}
	if p.Stock < qty {
		return 0, &apperr.InsufficientStockError{ProductID: id.String(), Product: p.Name, Available: p.Stock, Ordered: qty}
	}
	p.Stock -= qty
	return p.Stock, nil
}

func (s *store) Increment(_ context.Context, id uuid.UUID, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return 0, apperr.NotFound("Product with ID %s not found", id)
	}
	p.Stock += qty
	return p.Stock, nil
}

func (s *store) Adjust(context.Context, uuid.UUID, uuid.UUID, int) (*inventory.Level, error) {
	return nil, errors.New("not used")
}

func (s *store) LowStock(context.Context, uuid.UUID, int) ([]*inventory.Level, error) {
	return nil, errors.New("not used")
}

// ── ProductFinder ────────────────────────────────────────────────────────────

func (s *store) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	cp := *p
	return &cp, nil
}

type addressBook map[uuid.UUID]*shipping.Address

func (a addressBook) Get(_ context.Context, userID uuid.UUID) (*shipping.Address, error) {
	addr, ok := a[userID]
	if !ok {
		return nil, apperr.NotFound("Shipping address not found")
	}
	return addr, nil
}

// invoiceSpy records the orders it was asked to invoice.
type invoiceSpy struct {
	mu     sync.Mutex
	err    error
	issued []uuid.UUID
}

func (i *invoiceSpy) IssueForOrder(_ context.Context, o *Order) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.err != nil {
		return i.err
	}
	i.issued = append(i.issued, o.ID)
	return nil
}
