package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/modules/order"
	"github.com/google/uuid"
)

// ErrAlreadyGenerated accompanies the existing invoice when an order is invoiced twice.
var ErrAlreadyGenerated = apperr.Conflict("Invoice already generated for this order")

// maxNumberAttempts bounds retries after an invoice number collision.
const maxNumberAttempts = 3

// Service defines billing business logic.
type Service interface {
	// GenerateInvoice invoices a confirmed order. When the order already has
	// an invoice it is returned together with ErrAlreadyGenerated.
	GenerateInvoice(ctx context.Context, orderID uuid.UUID) (*Invoice, error)
	// IssueForOrder invoices an order that was just confirmed; an existing
	// invoice is not an error.
	IssueForOrder(ctx context.Context, o *order.Order) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context) ([]*Invoice, error)
	// Download renders the invoice as a PDF document.
	Download(ctx context.Context, id uuid.UUID) (*Invoice, []byte, error)
}

// OrderSource loads orders to invoice.
type OrderSource interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
}

type service struct {
	repo      Repository
	orders    OrderSource
	seq       Sequence
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, orders OrderSource, seq Sequence, publisher events.Publisher) Service {
	return &service{repo: repo, orders: orders, seq: seq, publisher: publisher, now: time.Now}
}

func (s *service) GenerateInvoice(ctx context.Context, orderID uuid.UUID) (*Invoice, error) {
	o, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, o)
}

func (s *service) IssueForOrder(ctx context.Context, o *order.Order) error {
	_, err := s.issue(ctx, o)
	if errors.Is(err, ErrAlreadyGenerated) {
		return nil
	}
	return err
}

func (s *service) issue(ctx context.Context, o *order.Order) (*Invoice, error) {
	if o.Status == order.StatusCancelled {
		return nil, apperr.Validation("Cannot generate invoice for cancelled order")
	}
	if !o.IsConfirmed() {
		return nil, apperr.Validation("Cannot generate invoice for unconfirmed order")
	}
	if existing, err := s.repo.GetInvoiceByOrder(ctx, o.ID); err == nil {
		return existing, ErrAlreadyGenerated
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	inv := snapshot(o, now)
	for attempt := 1; ; attempt++ {
		n, err := s.seq.Next(ctx, now)
		if err != nil {
			return nil, fmt.Errorf("next invoice number: %w", err)
		}
		inv.InvoiceNumber = formatInvoiceNumber(now, n)

		err = s.repo.CreateInvoice(ctx, inv)
		if err == nil {
			break
		}
		switch {
		case errors.Is(err, errOrderInvoiced):
			existing, getErr := s.repo.GetInvoiceByOrder(ctx, o.ID)
			if getErr != nil {
				return nil, getErr
			}
			return existing, ErrAlreadyGenerated
		case errors.Is(err, errNumberTaken) && attempt < maxNumberAttempts:
			slog.WarnContext(ctx, "invoice number collision",
				slog.String("invoice_number", inv.InvoiceNumber),
				slog.Int("attempt", attempt))
			continue
		}
		return nil, err
	}

	slog.InfoContext(ctx, "invoice generated",
		slog.String("invoice_id", inv.ID.String()),
		slog.String("invoice_number", inv.InvoiceNumber),
		slog.String("order_id", o.ID.String()))
	events.Emit(ctx, s.publisher, events.New(events.InvoiceGenerated, inv.ID.String(), inv))
	return inv, nil
}

func (s *service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoiceByID(ctx, id)
}

func (s *service) ListInvoices(ctx context.Context) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

func (s *service) Download(ctx context.Context, id uuid.UUID) (*Invoice, []byte, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := RenderPDF(inv)
	if err != nil {
		return nil, nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return inv, doc, nil
}
