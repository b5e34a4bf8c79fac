package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/georgemunganga/marketplace-backend/internal/identity"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, phone, address, created_at, updated_at`

func scanUser(scan func(...any) error) (*User, error) {
	user := &User{}
	err := scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Phone,
		&user.Address,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := database.Conn(ctx, r.db).QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if database.IsUniqueViolation(err, "users_email_key") {
		return apperr.Conflict("User already exists")
	}
	return err
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row.Scan)
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row.Scan)
}

func (r *postgresRepository) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, user *User) error {
	return expectOne(database.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE users SET name = $1, phone = $2, address = $3, updated_at = NOW()
		WHERE id = $4`,
		user.Name, user.Phone, user.Address, user.ID))
}

func (r *postgresRepository) UpdateRole(ctx context.Context, id uuid.UUID, role identity.Role) error {
	return expectOne(database.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id))
}

func (r *postgresRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := expectOne(database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
	if database.IsForeignKeyViolation(err) {
		return apperr.Conflict("User has orders and cannot be deleted")
	}
	return err
}

func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}
