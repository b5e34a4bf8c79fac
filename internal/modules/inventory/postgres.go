package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/google/uuid"
)

type ledgerPostgres struct{ db *sql.DB }

func NewPostgresLedger(db *sql.DB) Ledger { return &ledgerPostgres{db: db} }

func (r *ledgerPostgres) Decrement(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	conn := database.Conn(ctx, r.db)
	var remaining int
	err := conn.QueryRowContext(ctx, `
		UPDATE products SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
		RETURNING stock`, qty, productID).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// nothing updated: either the product is gone or stock is short
	var name string
	var available int
	err = conn.QueryRowContext(ctx,
		`SELECT name, stock FROM products WHERE id = $1`, productID).Scan(&name, &available)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.NotFound("Product with ID %s not found", productID)
	}
	if err != nil {
		return 0, err
	}
	return 0, &apperr.InsufficientStockError{
		ProductID: productID.String(),
		Product:   name,
		Available: available,
		Ordered:   qty,
	}
}

func (r *ledgerPostgres) Increment(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	var stock int
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE products SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING stock`, qty, productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.NotFound("Product with ID %s not found", productID)
	}
	return stock, err
}

func (r *ledgerPostgres) Adjust(ctx context.Context, productID, vendorID uuid.UUID, delta int) (*Level, error) {
	l := &Level{}
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE products SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2 AND vendor_id = $3 AND stock + $1 >= 0
		RETURNING id, name, stock`, delta, productID, vendorID).Scan(&l.ProductID, &l.Name, &l.Stock)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var owner uuid.UUID
	var stock int
	err = database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT vendor_id, stock FROM products WHERE id = $1`, productID).Scan(&owner, &stock)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, apperr.NotFound("Product with ID %s not found", productID)
	case err != nil:
		return nil, err
	case owner != vendorID:
		return nil, apperr.AccessDenied("You can only modify your own products")
	default:
		return nil, apperr.Validation("Stock cannot go below zero",
			apperr.FieldError{Field: "delta", Message: "delta exceeds stock on hand"})
	}
}

func (r *ledgerPostgres) LowStock(ctx context.Context, vendorID uuid.UUID, threshold int) ([]*Level, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT id, name, stock FROM products
		WHERE vendor_id = $1 AND stock <= $2
		ORDER BY stock ASC, name ASC`, vendorID, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := []*Level{}
	for rows.Next() {
		l := &Level{}
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Stock); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}
