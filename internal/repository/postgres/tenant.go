package postgres

import (
	"context"
	"database/sql"
	"errors"

	"limo/internal/domain"
	"limo/internal/repository"
)

// TenantRepository is a PostgreSQL implementation of repository.TenantRepository.
type TenantRepository struct {
	q Querier
}

// NewTenantRepository creates a new PostgreSQL tenant repository.
func NewTenantRepository(db *sql.DB) *TenantRepository {
	return &TenantRepository{q: db}
}

const tenantColumns = `
	id, slug, name, logo_url, primary_color, stripe_account_id, stripe_onboarded,
	geo_restriction_enabled, geo_restriction_type, geo_restriction_value,
	active, created_at, updated_at
`

// GetByID retrieves a tenant by ID.
func (r *TenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return scanTenant(r.q.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves an active tenant by slug.
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE slug = $1 AND active = TRUE`
	return scanTenant(r.q.QueryRowContext(ctx, query, slug))
}

// GetFirstActive retrieves the oldest active tenant.
func (r *TenantRepository) GetFirstActive(ctx context.Context) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE active = TRUE ORDER BY created_at ASC LIMIT 1`
	return scanTenant(r.q.QueryRowContext(ctx, query))
}

// GetAll retrieves all tenants, oldest first.
func (r *TenantRepository) GetAll(ctx context.Context) ([]*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}

	return tenants, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	var (
		tenant       domain.Tenant
		logoURL      sql.NullString
		primaryColor sql.NullString
		stripeID     sql.NullString
		geoType      sql.NullString
		geoValue     []byte
	)

	err := row.Scan(
		&tenant.ID,
		&tenant.Slug,
		&tenant.Name,
		&logoURL,
		&primaryColor,
		&stripeID,
		&tenant.StripeOnboarded,
		&tenant.GeoRestrictionEnabled,
		&geoType,
		&geoValue,
		&tenant.Active,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	tenant.LogoURL = logoURL.String
	tenant.PrimaryColor = primaryColor.String
	tenant.StripeAccountID = stripeID.String
	tenant.GeoRestrictionType = domain.GeoRestrictionType(geoType.String)
	tenant.GeoRestrictionValue = geoValue

	return &tenant, nil
}
