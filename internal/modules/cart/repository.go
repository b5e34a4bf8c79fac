package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for cart lines.
type Repository interface {
	// Items returns the user's lines with live product data, oldest first.
	Items(ctx context.Context, userID uuid.UUID) ([]Item, error)
	// AddOne inserts the product with quantity 1 or bumps an existing line.
	AddOne(ctx context.Context, userID, productID uuid.UUID) error
	// Step moves a line's quantity by delta without going below one.
	Step(ctx context.Context, userID, productID uuid.UUID, delta int) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
