package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `o.id, o.order_number, o.customer_id, o.shipping_address, o.items_price,
	o.shipping_price, o.total_price, o.payment_method, o.status, o.confirmed_at, o.paid_at,
	o.delivered_at, o.cancelled_at, o.created_at, o.updated_at, u.name, u.email`

const orderFrom = ` FROM orders o JOIN users u ON u.id = o.customer_id`

// CreateOrder inserts the order and all its items. Callers wrap it in a
// transaction so a failed item insert leaves no order behind.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	conn := database.Conn(ctx, r.db)
	err := conn.QueryRowContext(ctx, `
		INSERT INTO orders
		  (id, order_number, customer_id, shipping_address, items_price, shipping_price,
		   total_price, payment_method, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		o.ID, o.OrderNumber, o.CustomerID, o.ShippingAddress, o.ItemsPrice, o.ShippingPrice,
		o.TotalPrice, o.PaymentMethod, o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = conn.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, vendor_id, name, image, unit_price, quantity, line_total, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			item.ID, o.ID, item.ProductID, item.VendorID, item.Name, item.Image,
			item.UnitPrice, item.Quantity, item.LineTotal, i)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}
	return nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.id=$1`, id)
}

func (r *postgresRepo) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.id=$1 FOR UPDATE OF o`, id)
}

func (r *postgresRepo) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+orderFrom+`
		WHERE o.customer_id=$1 ORDER BY o.created_at DESC`, customerID)
}

func (r *postgresRepo) ListOrders(ctx context.Context) ([]*Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+orderFrom+` ORDER BY o.created_at DESC`)
}

func (r *postgresRepo) ListOrdersByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+orderFrom+`
		WHERE EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.vendor_id=$1)
		ORDER BY o.created_at DESC`, vendorID)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, o *Order) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE orders
		SET status=$1, confirmed_at=$2, paid_at=$3, delivered_at=$4, cancelled_at=$5, updated_at=$6
		WHERE id=$7`,
		o.Status, o.ConfirmedAt, o.PaidAt, o.DeliveredAt, o.CancelledAt, o.UpdatedAt, o.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Order not found")
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{Customer: &CustomerSummary{}}
	err := scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.ShippingAddress, &o.ItemsPrice,
		&o.ShippingPrice, &o.TotalPrice, &o.PaymentMethod, &o.Status, &o.ConfirmedAt, &o.PaidAt,
		&o.DeliveredAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt, &o.Customer.Name, &o.Customer.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Order not found")
	}
	if err != nil {
		return nil, err
	}
	o.Customer.ID = o.CustomerID
	return o, nil
}

func (r *postgresRepo) getOrder(ctx context.Context, query string, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(database.Conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, r.attachItems(ctx, orders)
}

// attachItems loads the line items of all orders with a single query.
func (r *postgresRepo) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		o.Items = []*LineItem{}
		ids = append(ids, o.ID.String())
	}

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT order_id, id, product_id, vendor_id, name, image, unit_price, quantity, line_total
		FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, position`,
		pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID uuid.UUID
		item := &LineItem{}
		if err := rows.Scan(&orderID, &item.ID, &item.ProductID, &item.VendorID, &item.Name,
			&item.Image, &item.UnitPrice, &item.Quantity, &item.LineTotal); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}
