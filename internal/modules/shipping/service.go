package shipping

import (
	"context"

	"github.com/google/uuid"
)

// Service manages a customer's saved shipping address.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req AddressRequest) (*Address, error)
	Update(ctx context.Context, userID uuid.UUID, req AddressRequest) (*Address, error)
	Get(ctx context.Context, userID uuid.UUID) (*Address, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddressRequest) (*Address, error) {
	a := &Address{ID: uuid.New(), UserID: userID}
	req.apply(a)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, req AddressRequest) (*Address, error) {
	a, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	req.apply(a)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Address, error) {
	return s.repo.GetByUser(ctx, userID)
}
