package shipping

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for saved addresses.
type Repository interface {
	Create(ctx context.Context, a *Address) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*Address, error)
	Update(ctx context.Context, a *Address) error
}
