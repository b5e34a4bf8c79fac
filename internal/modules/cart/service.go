package cart

import (
	"context"
	"log/slog"

	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/google/uuid"
)

// Service defines cart business logic. Every mutation returns the updated cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (*Cart, error)
	Update(ctx context.Context, userID, productID uuid.UUID, req UpdateRequest) (*Cart, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) (*Cart, error)
}

// ProductLookup resolves products shoppers may see.
type ProductLookup interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

type service struct {
	repo     Repository
	products ProductLookup
}

func NewService(repo Repository, products ProductLookup) Service {
	return &service{repo: repo, products: products}
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	items, err := s.repo.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newCart(userID, items), nil
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.repo.AddOne(ctx, userID, productID); err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "cart item added",
		slog.String("user_id", userID.String()), slog.String("product_id", productID.String()))
	return s.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID, productID uuid.UUID, req UpdateRequest) (*Cart, error) {
	delta := 1
	if req.Action == ActionDecrement {
		delta = -1
	}
	if err := s.repo.Step(ctx, userID, productID, delta); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) (*Cart, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return newCart(userID, nil), nil
}
