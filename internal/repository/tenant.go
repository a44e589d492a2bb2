package repository

import (
	"context"

	"limo/internal/domain"
)

// TenantRepository defines the persistence operations for tenants.
type TenantRepository interface {
	// GetByID retrieves a tenant by ID.
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)

	// GetBySlug retrieves an active tenant by its subdomain slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)

	// GetFirstActive retrieves the oldest active tenant.
	GetFirstActive(ctx context.Context) (*domain.Tenant, error)

	// GetAll retrieves all tenants, oldest first.
	GetAll(ctx context.Context) ([]*domain.Tenant, error)
}
