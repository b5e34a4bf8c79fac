package billing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const invoiceColumns = `i.id, i.order_id, i.invoice_number, i.customer, i.order_items, i.items_price,
	i.shipping_price, i.total_price, i.payment_method, i.is_paid, i.paid_at, i.is_delivered,
	i.delivered_at, i.created_at`

func (r *postgresRepo) CreateInvoice(ctx context.Context, inv *Invoice) error {
	customer, err := json.Marshal(inv.Customer)
	if err != nil {
		return fmt.Errorf("encode customer: %w", err)
	}
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	err = database.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO invoices
		  (id, order_id, invoice_number, customer, order_items, items_price, shipping_price,
		   total_price, payment_method, is_paid, paid_at, is_delivered, delivered_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at`,
		inv.ID, inv.OrderID, inv.InvoiceNumber, customer, items, inv.ItemsPrice, inv.ShippingPrice,
		inv.TotalPrice, inv.PaymentMethod, inv.IsPaid, inv.PaidAt, inv.IsDelivered, inv.DeliveredAt,
	).Scan(&inv.CreatedAt)
	switch {
	case database.IsUniqueViolation(err, "invoices_order_id_key"):
		return errOrderInvoiced
	case database.IsUniqueViolation(err, "invoices_invoice_number_key"):
		return errNumberTaken
	case err != nil:
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func scanInvoice(scan func(...interface{}) error, extra ...interface{}) (*Invoice, error) {
	inv := &Invoice{}
	var customer, items []byte
	dest := []interface{}{&inv.ID, &inv.OrderID, &inv.InvoiceNumber, &customer, &items, &inv.ItemsPrice,
		&inv.ShippingPrice, &inv.TotalPrice, &inv.PaymentMethod, &inv.IsPaid, &inv.PaidAt, &inv.IsDelivered,
		&inv.DeliveredAt, &inv.CreatedAt}
	if err := scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Invoice not found")
		}
		return nil, err
	}
	if err := json.Unmarshal(customer, &inv.Customer); err != nil {
		return nil, fmt.Errorf("decode customer: %w", err)
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return inv, nil
}

func (r *postgresRepo) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	row := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i WHERE i.id=$1`, id)
	return scanInvoice(row.Scan)
}

func (r *postgresRepo) GetInvoiceByOrder(ctx context.Context, orderID uuid.UUID) (*Invoice, error) {
	row := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices i WHERE i.order_id=$1`, orderID)
	return scanInvoice(row.Scan)
}

func (r *postgresRepo) ListInvoices(ctx context.Context) ([]*Invoice, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+invoiceColumns+`, o.order_number, o.status, o.total_price, o.customer_id
		FROM invoices i JOIN orders o ON o.id = i.order_id
		ORDER BY i.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	invs := []*Invoice{}
	for rows.Next() {
		sum := &OrderSummary{}
		inv, err := scanInvoice(rows.Scan, &sum.OrderNumber, &sum.Status, &sum.TotalPrice, &sum.CustomerID)
		if err != nil {
			return nil, err
		}
		inv.Order = sum
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}
