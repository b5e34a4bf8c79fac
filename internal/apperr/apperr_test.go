package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwraps(t *testing.T) {
	err := fmt.Errorf("confirm order: %w", NotFound("Order not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestInsufficientStockMessage(t *testing.T) {
	err := fmt.Errorf("decrement: %w", &InsufficientStockError{Product: "Laptop", Available: 5, Ordered: 10})
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Contains(t, err.Error(), "Not enough stock for product: Laptop. Available: 5, Ordered: 10")
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}
