package postgres

import (
	"context"
	"database/sql"

	"limo/internal/domain"
	"limo/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, tenant_id, email, phone, first_name, last_name, role, is_guest, created_at`

// Create adds a new user. A taken email returns ErrConflict without
// aborting the surrounding transaction, so the caller can read the winner.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, tenant_id, email, phone, first_name, last_name, role, is_guest, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email) DO NOTHING
	`
	result, err := r.q.ExecContext(ctx, query,
		user.ID,
		nullString(user.TenantID),
		user.Email,
		nullString(user.Phone),
		nullString(user.FirstName),
		nullString(user.LastName),
		user.Role,
		user.IsGuest,
		user.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if inserted == 0 {
		return repository.ErrConflict
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.q.QueryRowContext(ctx, query, email))
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		tenantID  sql.NullString
		phone     sql.NullString
		firstName sql.NullString
		lastName  sql.NullString
	)

	err := row.Scan(&user.ID, &tenantID, &user.Email, &phone, &firstName, &lastName, &user.Role, &user.IsGuest, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user.TenantID = tenantID.String
	user.Phone = phone.String
	user.FirstName = firstName.String
	user.LastName = lastName.String

	return &user, nil
}
