package repository

import (
	"context"

	"limo/internal/domain"
)

// PricingRuleRepository defines the persistence operations for pricing rules.
type PricingRuleRepository interface {
	// Create persists a new rule.
	Create(ctx context.Context, rule *domain.PricingRule) error

	// Update updates an existing rule.
	Update(ctx context.Context, rule *domain.PricingRule) error

	// GetByID retrieves a rule by ID within a tenant.
	GetByID(ctx context.Context, tenantID, id string) (*domain.PricingRule, error)

	// ListActiveByTenant retrieves a tenant's active rules ordered by
	// created_at DESC, id ASC.
	ListActiveByTenant(ctx context.Context, tenantID string) ([]*domain.PricingRule, error)

	// ListByTenant retrieves all of a tenant's rules in the same order.
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.PricingRule, error)

	// Deactivate marks a rule inactive.
	Deactivate(ctx context.Context, tenantID, id string) error
}
