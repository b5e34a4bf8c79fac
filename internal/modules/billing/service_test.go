package billing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/events/eventstest"
	"github.com/georgemunganga/marketplace-backend/internal/modules/order"
	"github.com/georgemunganga/marketplace-backend/internal/modules/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	invoices []*Invoice
}

func (m *memRepo) CreateInvoice(_ context.Context, inv *Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.invoices {
		if existing.OrderID == inv.OrderID {
			return errOrderInvoiced
		}
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return errNumberTaken
		}
	}
	cp := *inv
	m.invoices = append(m.invoices, &cp)
	return nil
}

func (m *memRepo) find(match func(*Invoice) bool) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if match(inv) {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("Invoice not found")
}

func (m *memRepo) GetInvoiceByID(_ context.Context, id uuid.UUID) (*Invoice, error) {
	return m.find(func(inv *Invoice) bool { return inv.ID == id })
}

func (m *memRepo) GetInvoiceByOrder(_ context.Context, orderID uuid.UUID) (*Invoice, error) {
	return m.find(func(inv *Invoice) bool { return inv.OrderID == orderID })
}

func (m *memRepo) ListInvoices(context.Context) ([]*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*Invoice{}, m.invoices...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type orderBook map[uuid.UUID]*order.Order

func (b orderBook) GetOrderByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := b[id]
	if !ok {
		return nil, apperr.NotFound("Order not found")
	}
	return o, nil
}

// fixedSequence always hands out the same number.
type fixedSequence int64

func (f fixedSequence) Next(context.Context, time.Time) (int64, error) { return int64(f), nil }

var issuedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(repo Repository, orders orderBook, seq Sequence, pub events.Publisher) Service {
	svc := NewService(repo, orders, seq, pub).(*service)
	svc.now = func() time.Time { return issuedAt }
	return svc
}

func confirmedOrder() *order.Order {
	confirmedAt := issuedAt.Add(-time.Hour)
	return &order.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-20260314-AB12CD34",
		CustomerID:  uuid.New(),
		Customer:    &order.CustomerSummary{Name: "Asha Rai", Email: "asha@example.com"},
		Items: []*order.LineItem{{
			ProductID: uuid.New(),
			Name:      "Mug",
			UnitPrice: decimal.RequireFromString("10.50"),
			Quantity:  2,
			LineTotal: decimal.RequireFromString("21.00"),
		}},
		ShippingAddress: order.ShippingAddress{FullName: "Asha Rai", Phone: "9800000000", City: "Kathmandu"},
		ItemsPrice:      decimal.RequireFromString("21.00"),
		ShippingPrice:   decimal.RequireFromString("5.00"),
		TotalPrice:      decimal.RequireFromString("26.00"),
		PaymentMethod:   payment.MethodCOD,
		Status:          order.StatusConfirmed,
		ConfirmedAt:     &confirmedAt,
	}
}

func TestGenerateInvoiceSnapshotsOrder(t *testing.T) {
	o := confirmedOrder()
	repo := &memRepo{}
	rec := &eventstest.Recorder{}
	svc := newTestService(repo, orderBook{o.ID: o}, newMemorySequence(), rec)

	inv, err := svc.GenerateInvoice(context.Background(), o.ID)
	require.NoError(t, err)

	assert.Equal(t, "INV-20260314-0001", inv.InvoiceNumber)
	assert.Equal(t, o.ID, inv.OrderID)
	assert.Equal(t, "Asha Rai", inv.Customer.Name)
	assert.Equal(t, "9800000000", inv.Customer.Phone)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "21.00", inv.Items[0].Total.StringFixed(2))
	assert.Equal(t, "26.00", inv.TotalPrice.StringFixed(2))
	assert.False(t, inv.IsPaid)
	assert.Equal(t, []events.Type{events.InvoiceGenerated}, rec.Types())
}

func TestGenerateInvoiceRequiresConfirmation(t *testing.T) {
	o := confirmedOrder()
	o.Status, o.ConfirmedAt = order.StatusCreated, nil
	repo := &memRepo{}
	svc := newTestService(repo, orderBook{o.ID: o}, newMemorySequence(), nil)

	_, err := svc.GenerateInvoice(context.Background(), o.ID)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.EqualError(t, err, "Cannot generate invoice for unconfirmed order")
	assert.Empty(t, repo.invoices)

	_, err = svc.GenerateInvoice(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGenerateInvoiceTwiceReturnsExisting(t *testing.T) {
	o := confirmedOrder()
	repo := &memRepo{}
	svc := newTestService(repo, orderBook{o.ID: o}, newMemorySequence(), nil)

	first, err := svc.GenerateInvoice(context.Background(), o.ID)
	require.NoError(t, err)

	second, err := svc.GenerateInvoice(context.Background(), o.ID)
	require.ErrorIs(t, err, ErrAlreadyGenerated)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.invoices, 1)

	assert.NoError(t, svc.IssueForOrder(context.Background(), o))
	assert.Len(t, repo.invoices, 1)
}

// racingRepo reports no invoice on lookup, as if a concurrent request had
// not committed yet, so the unique index is what catches the duplicate.
type racingRepo struct {
	*memRepo
	lookups int
}

func (r *racingRepo) GetInvoiceByOrder(ctx context.Context, orderID uuid.UUID) (*Invoice, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, apperr.NotFound("Invoice not found")
	}
	return r.memRepo.GetInvoiceByOrder(ctx, orderID)
}

func TestGenerateInvoiceConcurrentDuplicate(t *testing.T) {
	o := confirmedOrder()
	repo := &racingRepo{memRepo: &memRepo{}}
	require.NoError(t, repo.memRepo.CreateInvoice(context.Background(), &Invoice{ID: uuid.New(), OrderID: o.ID, InvoiceNumber: "INV-20260314-0001"}))
	svc := newTestService(repo, orderBook{o.ID: o}, fixedSequence(7), nil)

	inv, err := svc.GenerateInvoice(context.Background(), o.ID)
	require.ErrorIs(t, err, ErrAlreadyGenerated)
	assert.Equal(t, "INV-20260314-0001", inv.InvoiceNumber)
}

func TestGenerateInvoiceRetriesNumberCollision(t *testing.T) {
	taken := &Invoice{ID: uuid.New(), OrderID: uuid.New(), InvoiceNumber: "INV-20260314-0001"}

	t.Run("next number wins", func(t *testing.T) {
		o := confirmedOrder()
		repo := &memRepo{invoices: []*Invoice{taken}}
		svc := newTestService(repo, orderBook{o.ID: o}, newMemorySequence(), nil)

		inv, err := svc.GenerateInvoice(context.Background(), o.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-20260314-0002", inv.InvoiceNumber)
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		o := confirmedOrder()
		repo := &memRepo{invoices: []*Invoice{taken}}
		svc := newTestService(repo, orderBook{o.ID: o}, fixedSequence(1), nil)

		_, err := svc.GenerateInvoice(context.Background(), o.ID)
		require.True(t, errors.Is(err, errNumberTaken), "got %v", err)
		assert.Len(t, repo.invoices, 1)
	})
}

func TestGenerateInvoiceRejectsCancelled(t *testing.T) {
	o := confirmedOrder()
	o.Status = order.StatusCancelled
	svc := newTestService(&memRepo{}, orderBook{o.ID: o}, newMemorySequence(), nil)

	_, err := svc.GenerateInvoice(context.Background(), o.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDownloadRendersPDF(t *testing.T) {
	o := confirmedOrder()
	svc := newTestService(&memRepo{}, orderBook{o.ID: o}, newMemorySequence(), nil)
	inv, err := svc.GenerateInvoice(context.Background(), o.ID)
	require.NoError(t, err)

	got, doc, err := svc.Download(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, got.InvoiceNumber)
	assert.True(t, len(doc) > 0 && string(doc[:5]) == "%PDF-", "not a PDF")

	_, _, err = svc.Download(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
