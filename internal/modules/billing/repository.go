package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// errOrderInvoiced is returned by CreateInvoice when the order already has an invoice.
	errOrderInvoiced = errors.New("order already invoiced")
	// errNumberTaken is returned by CreateInvoice when the invoice number is in use.
	errNumberTaken = errors.New("invoice number taken")
)

// Repository defines data access for invoices.
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetInvoiceByOrder(ctx context.Context, orderID uuid.UUID) (*Invoice, error)
	// ListInvoices returns every invoice with its order summary, newest first.
	ListInvoices(ctx context.Context) ([]*Invoice, error)
}
