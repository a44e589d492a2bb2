package repository

import (
	"context"

	"limo/internal/domain"
)

// VehicleRepository defines the persistence operations for fleet vehicles.
type VehicleRepository interface {
	// Create persists a new vehicle.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// Update updates an existing vehicle.
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID within a tenant.
	GetByID(ctx context.Context, tenantID, id string) (*domain.Vehicle, error)

	// ListByTenant retrieves a tenant's vehicles, newest first.
	ListByTenant(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.Vehicle, error)
}
