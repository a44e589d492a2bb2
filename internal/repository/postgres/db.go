package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"limo/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier              = (*sql.DB)(nil)
	_ Querier              = (*sql.Tx)(nil)
	_ repository.TxManager = (*TxManager)(nil)

	_ repository.TenantRepository      = (*TenantRepository)(nil)
	_ repository.VehicleRepository     = (*VehicleRepository)(nil)
	_ repository.PricingRuleRepository = (*PricingRuleRepository)(nil)
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.BookingRepository     = (*BookingRepository)(nil)
	_ repository.PaymentRepository     = (*PaymentRepository)(nil)
)

// TxManager runs work inside a database transaction.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx runs fn with repositories bound to a single transaction.
func (m *TxManager) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = fn(repository.Repositories{
		Users:    NewUserRepositoryWithTx(tx),
		Bookings: NewBookingRepositoryWithTx(tx),
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// mapWriteError translates driver errors into repository errors.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return repository.ErrConflict
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
