package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/google/uuid"
)

const (
	searchLimit   = 20
	categoryLimit = 10
)

// Service defines catalog business logic.
type Service interface {
	// FindByID returns any product regardless of visibility.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// GetProduct returns a product shoppers may see.
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	Search(ctx context.Context, query string) ([]*Product, error)
	ListByCategory(ctx context.Context, category Category, excludeID *uuid.UUID) ([]*Product, error)

	CreateProduct(ctx context.Context, vendorID uuid.UUID, req CreateProductRequest) (*Product, error)
	ListVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]*Product, error)
	// UpdateProduct applies req; vendors may only touch their own products.
	UpdateProduct(ctx context.Context, caller identity.Principal, id uuid.UUID, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, caller identity.Principal, id uuid.UUID) error

	ListAllProducts(ctx context.Context) ([]*Product, error)
	ConfirmProduct(ctx context.Context, id uuid.UUID) (*Product, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service { return &service{repo: repo, now: time.Now} }

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Visible() {
		return nil, apperr.NotFound("Product not found")
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListVisible(ctx)
}

func (s *service) Search(ctx context.Context, query string) ([]*Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("Search query is required",
			apperr.FieldError{Field: "q", Message: "q is required"})
	}
	return s.repo.Search(ctx, query, searchLimit)
}

func (s *service) ListByCategory(ctx context.Context, category Category, excludeID *uuid.UUID) ([]*Product, error) {
	if !category.Valid() {
		return nil, apperr.Validation("Invalid category")
	}
	return s.repo.ListByCategory(ctx, category, excludeID, categoryLimit)
}

func (s *service) CreateProduct(ctx context.Context, vendorID uuid.UUID, req CreateProductRequest) (*Product, error) {
	if req.Price.IsNegative() {
		return nil, apperr.Validation("Validation failed",
			apperr.FieldError{Field: "price", Message: "price must be greater than or equal to 0"})
	}
	p := &Product{
		ID:          uuid.New(),
		VendorID:    vendorID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price.Round(2),
		Category:    req.Category,
		Stock:       req.Stock,
		Discount:    req.Discount,
		Features:    req.Features,
		Images:      req.Images,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "product created",
		slog.String("product_id", p.ID.String()), slog.String("vendor_id", vendorID.String()))
	return p, nil
}

func (s *service) ListVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]*Product, error) {
	return s.repo.ListByVendor(ctx, vendorID)
}

func (s *service) UpdateProduct(ctx context.Context, caller identity.Principal, id uuid.UUID, req UpdateProductRequest) (*Product, error) {
	p, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperr.Validation("Validation failed",
				apperr.FieldError{Field: "price", Message: "price must be greater than or equal to 0"})
		}
		p.Price = req.Price.Round(2)
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Discount != nil {
		p.Discount = *req.Discount
	}
	if req.Features != nil {
		p.Features = req.Features
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, p, req.Stock); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, caller identity.Principal, id uuid.UUID) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListAllProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ConfirmProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	if err := s.repo.Confirm(ctx, id, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// owned loads a product the caller may modify: admins any, vendors their own.
func (s *service) owned(ctx context.Context, caller identity.Principal, id uuid.UUID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && p.VendorID != caller.UserID {
		return nil, apperr.AccessDenied("You can only modify your own products")
	}
	return p, nil
}
