package postgres

import (
	"context"
	"database/sql"
	"errors"

	"limo/internal/domain"
	"limo/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

const paymentColumns = `id, booking_id, tenant_id, amount, currency, status, provider_ref, client_secret, idempotency_key`

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.TenantID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		nullString(payment.ProviderRef),
		nullString(payment.ClientSecret),
		payment.IdempotencyKey,
	)

	return mapWriteError(err)
}

// GetByID retrieves a payment of a tenant.
func (r *PaymentRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 AND id = $2`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// GetByIdempotencyKey retrieves a payment by its idempotency key.
// Returns nil if no payment exists with the given key.
func (r *PaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE idempotency_key = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return payment, nil
}

// AttachIntent records the provider's intent reference and client secret.
func (r *PaymentRepository) AttachIntent(ctx context.Context, id, providerRef, clientSecret string) error {
	query := `UPDATE payments SET provider_ref = $1, client_secret = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, providerRef, clientSecret, id)
	if err != nil {
		return err
	}

	return expectRows(result)
}

// UpdateStatus updates the status and provider reference of a payment.
// An empty providerRef leaves the stored reference unchanged.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, providerRef string) error {
	query := `UPDATE payments SET status = $1, provider_ref = COALESCE($2, provider_ref) WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, status, nullString(providerRef), id)
	if err != nil {
		return err
	}

	return expectRows(result)
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		payment      domain.Payment
		providerRef  sql.NullString
		clientSecret sql.NullString
	)

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.TenantID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&providerRef,
		&clientSecret,
		&payment.IdempotencyKey,
	)
	if err != nil {
		return nil, err
	}

	payment.ProviderRef = providerRef.String
	payment.ClientSecret = clientSecret.String

	return &payment, nil
}
