package shipping

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, a *Address) error {
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO shipping_addresses
		  (id, user_id, full_name, phone, address_line1, address_line2, landmark, city, state, postal_code, country)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		a.ID, a.UserID, a.FullName, a.Phone, a.AddressLine1, a.AddressLine2,
		a.Landmark, a.City, a.State, a.PostalCode, a.Country,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if database.IsUniqueViolation(err, "shipping_addresses_user_id_key") {
		return apperr.Conflict("Shipping address already exists. Please update it instead.")
	}
	return err
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*Address, error) {
	a := &Address{}
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, user_id, full_name, phone, address_line1, address_line2, landmark,
		       city, state, postal_code, country, created_at, updated_at
		FROM shipping_addresses WHERE user_id=$1`, userID).
		Scan(&a.ID, &a.UserID, &a.FullName, &a.Phone, &a.AddressLine1, &a.AddressLine2,
			&a.Landmark, &a.City, &a.State, &a.PostalCode, &a.Country, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Shipping address not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *postgresRepo) Update(ctx context.Context, a *Address) error {
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE shipping_addresses
		SET full_name=$1, phone=$2, address_line1=$3, address_line2=$4, landmark=$5,
		    city=$6, state=$7, postal_code=$8, country=$9, updated_at=NOW()
		WHERE user_id=$10
		RETURNING updated_at`,
		a.FullName, a.Phone, a.AddressLine1, a.AddressLine2, a.Landmark,
		a.City, a.State, a.PostalCode, a.Country, a.UserID,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("Shipping address not found")
	}
	return err
}
