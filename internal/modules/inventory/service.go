package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/google/uuid"
)

const defaultLowStockThreshold = 5

// Service defines inventory business logic.
type Service interface {
	// Reserve takes every line from stock or none of them.
	Reserve(ctx context.Context, lines []Line) error
	// Release returns every line to stock.
	Release(ctx context.Context, lines []Line) error
	AdjustStock(ctx context.Context, vendorID, productID uuid.UUID, delta int) (*Level, error)
	LowStock(ctx context.Context, vendorID uuid.UUID, threshold int) ([]*Level, error)
}

type service struct {
	ledger Ledger
	tx     database.Transactor
}

// NewService creates a new inventory service.
func NewService(ledger Ledger, tx database.Transactor) Service {
	return &service{ledger: ledger, tx: tx}
}

func (s *service) Reserve(ctx context.Context, lines []Line) error {
	for _, l := range lines {
		if l.Quantity <= 0 {
			return apperr.Validation(fmt.Sprintf("quantity must be > 0 for product %s", l.ProductID))
		}
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, l := range normalize(lines) {
			remaining, err := s.ledger.Decrement(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return err
			}
			slog.DebugContext(ctx, "stock reserved",
				slog.String("product_id", l.ProductID.String()),
				slog.Int("quantity", l.Quantity),
				slog.Int("remaining", remaining))
		}
		return nil
	})
}

func (s *service) Release(ctx context.Context, lines []Line) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, l := range normalize(lines) {
			if _, err := s.ledger.Increment(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *service) AdjustStock(ctx context.Context, vendorID, productID uuid.UUID, delta int) (*Level, error) {
	if delta == 0 {
		return nil, apperr.Validation("delta must not be zero")
	}
	return s.ledger.Adjust(ctx, productID, vendorID, delta)
}

func (s *service) LowStock(ctx context.Context, vendorID uuid.UUID, threshold int) ([]*Level, error) {
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}
	return s.ledger.LowStock(ctx, vendorID, threshold)
}
