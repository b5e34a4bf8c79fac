package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Ledger mutates product stock with single-statement conditional updates.
type Ledger interface {
	// Decrement removes qty when at least qty is on hand and returns what is left.
	// It fails with a NotFound or InsufficientStock error otherwise.
	Decrement(ctx context.Context, productID uuid.UUID, qty int) (int, error)
	// Increment returns qty to stock.
	Increment(ctx context.Context, productID uuid.UUID, qty int) (int, error)
	// Adjust moves stock by delta for a product owned by vendorID, never below zero.
	Adjust(ctx context.Context, productID, vendorID uuid.UUID, delta int) (*Level, error)
	// LowStock lists a vendor's products at or below threshold, lowest first.
	LowStock(ctx context.Context, vendorID uuid.UUID, threshold int) ([]*Level, error)
}
