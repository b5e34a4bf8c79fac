// Package wishlist keeps the products a user has saved for later.
package wishlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is a saved product with its live catalog data.
type Entry struct {
	ProductID uuid.UUID        `json:"productId"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	Category  catalog.Category `json:"category"`
	Stock     int              `json:"stock"`
	Image     string           `json:"image,omitempty"`
	AddedAt   time.Time        `json:"addedAt"`
}

// Repository defines data access for wishlist entries.
type Repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	// Add is a no-op when the product is already saved.
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT p.id, p.name, p.price, p.category, p.stock, p.images, w.added_at
		FROM wishlist_items w JOIN products p ON p.id = w.product_id
		WHERE w.user_id=$1
		ORDER BY w.added_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var images []byte
		if err := rows.Scan(&e.ProductID, &e.Name, &e.Price, &e.Category, &e.Stock, &images, &e.AddedAt); err != nil {
			return nil, err
		}
		var decoded []catalog.Image
		if err := json.Unmarshal(images, &decoded); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
		if len(decoded) > 0 {
			e.Image = decoded[0].URL
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRepo) Add(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`, userID, productID)
	if database.IsForeignKeyViolation(err) {
		return apperr.NotFound("Product not found")
	}
	return err
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Product not found in wishlist")
	}
	return nil
}

// ProductLookup resolves products shoppers may see.
type ProductLookup interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

type Service struct {
	repo     Repository
	products ProductLookup
}

func NewService(repo Repository, products ProductLookup) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Add(ctx context.Context, userID, productID uuid.UUID) ([]Entry, error) {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, productID uuid.UUID) ([]Entry, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, userID)
}
