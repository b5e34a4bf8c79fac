// Package dashboard serves the admin overview counters.
package dashboard

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/georgemunganga/marketplace-backend/internal/modules/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const recentOrdersLimit = 5

type Stats struct {
	TotalOrders     int `json:"totalOrders"`
	PendingOrders   int `json:"pendingOrders"`
	TotalProducts   int `json:"totalProducts"`
	PendingProducts int `json:"pendingProducts"`
	Users           int `json:"users"`
	PendingVendors  int `json:"pendingVendors"`
}

type RecentOrder struct {
	ID          uuid.UUID             `json:"id"`
	OrderNumber string                `json:"orderNumber"`
	Status      order.Status          `json:"status"`
	TotalPrice  decimal.Decimal       `json:"totalPrice"`
	CreatedAt   time.Time             `json:"createdAt"`
	Customer    order.CustomerSummary `json:"user"`
}

// Repository defines the aggregate queries behind the dashboard.
type Repository interface {
	Stats(ctx context.Context) (*Stats, error)
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)
}

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM orders),
		  (SELECT COUNT(*) FROM orders WHERE status = 'created'),
		  (SELECT COUNT(*) FROM products),
		  (SELECT COUNT(*) FROM products WHERE NOT confirmed),
		  (SELECT COUNT(*) FROM users WHERE role <> 'admin'),
		  (SELECT COUNT(*) FROM vendor_profiles WHERE NOT is_verified)`,
	).Scan(&s.TotalOrders, &s.PendingOrders, &s.TotalProducts, &s.PendingProducts, &s.Users, &s.PendingVendors)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT o.id, o.order_number, o.status, o.total_price, o.created_at, u.id, u.name, u.email
		FROM orders o JOIN users u ON u.id = o.customer_id
		ORDER BY o.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []RecentOrder{}
	for rows.Next() {
		var o RecentOrder
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.Status, &o.TotalPrice, &o.CreatedAt,
			&o.Customer.ID, &o.Customer.Name, &o.Customer.Email); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
