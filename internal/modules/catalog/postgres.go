package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `p.id, p.vendor_id, p.name, p.description, p.price, p.category, p.stock, p.discount,
	p.features, p.images, p.is_active, p.confirmed, p.confirmed_at, p.created_at, p.updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	features, images, err := encodeLists(p)
	if err != nil {
		return err
	}
	return database.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO products
		  (id, vendor_id, name, description, price, category, stock, discount, features, images, is_active, confirmed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		p.ID, p.VendorID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.Discount,
		features, images, p.IsActive, p.Confirmed,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func scanProduct(scan func(...interface{}) error, extra ...interface{}) (*Product, error) {
	p := &Product{}
	var features, images []byte
	dest := []interface{}{&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Stock, &p.Discount, &features, &images, &p.IsActive, &p.Confirmed, &p.ConfirmedAt,
		&p.CreatedAt, &p.UpdatedAt}
	if err := scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, err
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id=$1`, id)
	return scanProduct(row.Scan)
}

func (r *postgresRepo) Update(ctx context.Context, p *Product, stock *int) error {
	features, images, err := encodeLists(p)
	if err != nil {
		return err
	}
	err = database.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, price=$3, category=$4, stock=COALESCE($5, stock), discount=$6,
		    features=$7, images=$8, is_active=$9, updated_at=NOW()
		WHERE id=$10
		RETURNING stock, updated_at`,
		p.Name, p.Description, p.Price, p.Category, stock, p.Discount,
		features, images, p.IsActive, p.ID,
	).Scan(&p.Stock, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("Product not found")
	}
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Product not found")
	}
	return nil
}

func (r *postgresRepo) Confirm(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE products SET confirmed=TRUE, confirmed_at=$1, updated_at=NOW()
		WHERE id=$2 AND confirmed=FALSE`, at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return apperr.Conflict("Product is already confirmed")
	}
	return nil
}

func (r *postgresRepo) ListVisible(ctx context.Context) ([]*Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.is_active AND p.confirmed ORDER BY p.created_at DESC`)
}

func (r *postgresRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.vendor_id=$1 ORDER BY p.created_at DESC`, vendorID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]*Product, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+productColumns+`, u.name, u.email
		FROM products p JOIN users u ON u.id = p.vendor_id
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		vendor := &VendorSummary{}
		p, err := scanProduct(rows.Scan, &vendor.Name, &vendor.Email)
		if err != nil {
			return nil, err
		}
		vendor.ID = p.VendorID
		p.Vendor = vendor
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Search(ctx context.Context, query string, limit int) ([]*Product, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.query(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.is_active AND p.confirmed
		  AND (p.name ILIKE $1 OR p.category ILIKE $1 OR p.description ILIKE $1)
		ORDER BY p.created_at DESC
		LIMIT $2`, pattern, limit)
}

func (r *postgresRepo) ListByCategory(ctx context.Context, category Category, excludeID *uuid.UUID, limit int) ([]*Product, error) {
	q := `SELECT ` + productColumns + ` FROM products p
		WHERE p.is_active AND p.confirmed AND p.category=$1`
	args := []interface{}{category}
	if excludeID != nil {
		q += ` AND p.id <> $2`
		args = append(args, *excludeID)
	}
	q += fmt.Sprintf(` ORDER BY p.created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)
	return r.query(ctx, q, args...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (r *postgresRepo) query(ctx context.Context, q string, args ...interface{}) ([]*Product, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func encodeLists(p *Product) (features, images []byte, err error) {
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Images == nil {
		p.Images = []Image{}
	}
	if features, err = json.Marshal(p.Features); err != nil {
		return nil, nil, err
	}
	if images, err = json.Marshal(p.Images); err != nil {
		return nil, nil, err
	}
	return features, images, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
