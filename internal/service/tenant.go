package service

import (
	"context"
	"errors"
	"strings"

	"limo/internal/domain"
	"limo/internal/repository"
)

// TenantService resolves which tenant a request is served for.
type TenantService struct {
	tenantRepo repository.TenantRepository
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenantRepo repository.TenantRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo}
}

// Resolve returns the active tenant for slug. An empty slug falls back to
// the oldest active tenant so single-tenant deployments work without a
// subdomain.
func (s *TenantService) Resolve(ctx context.Context, slug string) (*domain.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))

	var (
		tenant *domain.Tenant
		err    error
	)
	if slug == "" {
		tenant, err = s.tenantRepo.GetFirstActive(ctx)
	} else {
		tenant, err = s.tenantRepo.GetBySlug(ctx, slug)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	return tenant, nil
}

// GetTenant retrieves a tenant by ID.
func (s *TenantService) GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	return tenant, nil
}

// List retrieves every tenant.
func (s *TenantService) List(ctx context.Context) ([]*domain.Tenant, error) {
	return s.tenantRepo.GetAll(ctx)
}
