package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order and its items.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items and customer.
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// GetOrderForUpdate is GetOrderByID holding a row lock until the
	// surrounding transaction ends.
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListOrdersByCustomer returns a customer's orders, newest first.
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Order, error)

	// ListOrders returns every order, newest first.
	ListOrders(ctx context.Context) ([]*Order, error)

	// ListOrdersByVendor returns orders holding at least one line item of the
	// vendor, newest first, with all of their items.
	ListOrdersByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Order, error)

	// UpdateStatus writes the status and lifecycle timestamps of o.
	UpdateStatus(ctx context.Context, o *Order) error
}
