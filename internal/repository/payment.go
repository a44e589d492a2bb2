package repository

import (
	"context"

	"limo/internal/domain"
)

// PaymentRepository stores the payment intent attached to each booking.
type PaymentRepository interface {
	// Create inserts a payment. A second payment with the same
	// idempotency key fails with ErrConflict.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID returns ErrNotFound for payments outside the tenant.
	GetByID(ctx context.Context, tenantID, id string) (*domain.Payment, error)

	// GetByIdempotencyKey returns nil, nil when the key is unused.
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payment, error)

	AttachIntent(ctx context.Context, id, providerRef, clientSecret string) error
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, providerRef string) error
}
