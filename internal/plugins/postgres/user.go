package postgres

import (
	"context"
	"database/sql"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"

	"github.com/google/uuid"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, auth_id, email, name, first_name, last_name, bio, profile_url, registration_date, last_active`

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.AuthID,
		&u.Email,
		&u.Name,
		&u.FirstName,
		&u.LastName,
		&u.Bio,
		&u.ProfileURL,
		&u.RegistrationDate,
		&u.LastActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepo) GetUserByAuthID(ctx context.Context, authID string) (*domain.User, error) {
	if authID == "" {
		return nil, domain.ErrUserNotFound
	}
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE auth_id = $1`, authID)
	return scanUser(row)
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrUserNotFound
	}
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepo) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	// Insert or return the existing row for this auth identity. Exactly one
	// user row may exist per auth_id.
	row := exec.QueryRowContext(ctx, `
		INSERT INTO users (id, auth_id, email, name, first_name, last_name, bio, profile_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (auth_id) DO NOTHING
		RETURNING `+userColumns,
		u.ID, u.AuthID, u.Email, u.Name, u.FirstName, u.LastName, u.Bio, u.ProfileURL,
	)
	created, err := scanUser(row)
	if err == domain.ErrUserNotFound {
		// Already exists
		return r.GetUserByAuthID(ctx, u.AuthID)
	}
	return created, err
}

func (r *UserRepo) UpdateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, name = $4, bio = $5, last_active = now()
		WHERE id = $1
		RETURNING `+userColumns,
		u.ID, u.FirstName, u.LastName, u.Name, u.Bio,
	)
	return scanUser(row)
}

func (r *UserRepo) TouchLastActive(ctx context.Context, id uuid.UUID) error {
	exec := GetExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, `UPDATE users SET last_active = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
