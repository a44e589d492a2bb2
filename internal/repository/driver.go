package repository

import (
	"context"

	"limo/internal/domain"
)

// DriverFilter narrows a driver listing.
type DriverFilter struct {
	TenantID string
	Search   string // Matches name, email, phone or licence number.
}

// DriverRepository reads the drivers of a tenant. Drivers are users with
// the DRIVER role; their profile is optional.
type DriverRepository interface {
	// GetByID returns ErrNotFound unless id is a DRIVER of the tenant.
	GetByID(ctx context.Context, tenantID, id string) (*domain.Driver, error)

	// List returns matching drivers, newest first.
	List(ctx context.Context, filter DriverFilter) ([]*domain.Driver, error)
}
