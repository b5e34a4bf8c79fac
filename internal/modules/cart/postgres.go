package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

var errNotInCart = apperr.NotFound("Product not found in cart")

func (r *postgresRepo) Items(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT p.id, p.name, p.price, p.stock, p.images, c.quantity, c.added_at
		FROM cart_items c JOIN products p ON p.id = c.product_id
		WHERE c.user_id=$1
		ORDER BY c.added_at, p.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Item{}
	for rows.Next() {
		var item Item
		var images []byte
		if err := rows.Scan(&item.Product.ID, &item.Product.Name, &item.Product.Price, &item.Product.Stock,
			&images, &item.Quantity, &item.AddedAt); err != nil {
			return nil, err
		}
		if item.Product.Image, err = firstImage(images); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// firstImage pulls the main image URL out of the products.images JSONB column.
func firstImage(raw []byte) (string, error) {
	var images []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &images); err != nil {
		return "", fmt.Errorf("decode images: %w", err)
	}
	if len(images) == 0 {
		return "", nil
	}
	return images[0].URL, nil
}

func (r *postgresRepo) AddOne(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, 1)
		ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_items.quantity + 1`,
		userID, productID)
	if database.IsForeignKeyViolation(err) {
		return apperr.NotFound("Product not found")
	}
	return err
}

func (r *postgresRepo) Step(ctx context.Context, userID, productID uuid.UUID, delta int) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE cart_items SET quantity = GREATEST(quantity + $1, 1)
		WHERE user_id=$2 AND product_id=$3`, delta, userID, productID)
	return expectOne(res, err)
}

func (r *postgresRepo) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
	return expectOne(res, err)
}

func (r *postgresRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}

func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errNotInCart
	}
	return nil
}
