package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for product data storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// Update writes the editable fields. Stock is written only when stock is
	// non-nil; p.Stock is refreshed from the stored row either way.
	Update(ctx context.Context, p *Product, stock *int) error
	Delete(ctx context.Context, id uuid.UUID) error
	Confirm(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListVisible returns active, confirmed products, newest first.
	ListVisible(ctx context.Context) ([]*Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Product, error)
	// ListAll returns every product with its vendor populated.
	ListAll(ctx context.Context) ([]*Product, error)
	// Search matches visible products by name, category or description, case-insensitively.
	Search(ctx context.Context, query string, limit int) ([]*Product, error)
	ListByCategory(ctx context.Context, category Category, excludeID *uuid.UUID, limit int) ([]*Product, error)
}
