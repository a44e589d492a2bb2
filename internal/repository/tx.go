package repository

import "context"

// Repositories groups the repositories that take part in a transaction.
type Repositories struct {
	Users    UserRepository
	Bookings BookingRepository
}

// TxManager runs fn with transaction-scoped repositories. The transaction
// commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
