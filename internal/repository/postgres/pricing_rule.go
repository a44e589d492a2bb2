package postgres

import (
	"context"
	"database/sql"
	"errors"

	"limo/internal/domain"
	"limo/internal/repository"
)

// PricingRuleRepository is a PostgreSQL implementation of repository.PricingRuleRepository.
type PricingRuleRepository struct {
	q Querier
}

// NewPricingRuleRepository creates a new PostgreSQL pricing rule repository.
func NewPricingRuleRepository(db *sql.DB) *PricingRuleRepository {
	return &PricingRuleRepository{q: db}
}

const pricingRuleColumns = `
	id, tenant_id, vehicle_id, vehicle_type, ride_type, pricing_model,
	base_price, per_unit_price, minimum_hours, currency, active, created_at, updated_at
`

// Create persists a new rule.
func (r *PricingRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	query := `
		INSERT INTO pricing_rules (id, tenant_id, vehicle_id, vehicle_type, ride_type, pricing_model,
			base_price, per_unit_price, minimum_hours, currency, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.q.ExecContext(ctx, query,
		rule.ID,
		rule.TenantID,
		nullString(rule.VehicleID),
		nullString(string(rule.VehicleType)),
		rule.RideType,
		rule.PricingModel,
		rule.BasePrice,
		rule.PerUnitPrice,
		rule.MinimumHours,
		rule.Currency,
		rule.Active,
		rule.CreatedAt,
		rule.UpdatedAt,
	)

	return mapWriteError(err)
}

// Update updates an existing rule.
func (r *PricingRuleRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	query := `
		UPDATE pricing_rules
		SET vehicle_id = $1, vehicle_type = $2, ride_type = $3, pricing_model = $4,
			base_price = $5, per_unit_price = $6, minimum_hours = $7, currency = $8,
			active = $9, updated_at = $10
		WHERE id = $11 AND tenant_id = $12
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(rule.VehicleID),
		nullString(string(rule.VehicleType)),
		rule.RideType,
		rule.PricingModel,
		rule.BasePrice,
		rule.PerUnitPrice,
		rule.MinimumHours,
		rule.Currency,
		rule.Active,
		rule.UpdatedAt,
		rule.ID,
		rule.TenantID,
	)
	if err != nil {
		return mapWriteError(err)
	}

	return expectRows(result)
}

// GetByID retrieves a rule by ID within a tenant.
func (r *PricingRuleRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules WHERE id = $1 AND tenant_id = $2`
	return scanPricingRule(r.q.QueryRowContext(ctx, query, id, tenantID))
}

// ListActiveByTenant retrieves a tenant's active rules.
func (r *PricingRuleRepository) ListActiveByTenant(ctx context.Context, tenantID string) ([]*domain.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules
		WHERE tenant_id = $1 AND active = TRUE
		ORDER BY created_at DESC, id ASC`
	return r.list(ctx, query, tenantID)
}

// ListByTenant retrieves all of a tenant's rules.
func (r *PricingRuleRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.PricingRule, error) {
	query := `SELECT ` + pricingRuleColumns + ` FROM pricing_rules
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id ASC`
	return r.list(ctx, query, tenantID)
}

// Deactivate marks a rule inactive.
func (r *PricingRuleRepository) Deactivate(ctx context.Context, tenantID, id string) error {
	query := `UPDATE pricing_rules SET active = FALSE, updated_at = NOW() WHERE id = $1 AND tenant_id = $2`

	result, err := r.q.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return err
	}

	return expectRows(result)
}

func (r *PricingRuleRepository) list(ctx context.Context, query string, args ...any) ([]*domain.PricingRule, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

func scanPricingRule(row rowScanner) (*domain.PricingRule, error) {
	var (
		rule        domain.PricingRule
		vehicleID   sql.NullString
		vehicleType sql.NullString
	)

	err := row.Scan(
		&rule.ID,
		&rule.TenantID,
		&vehicleID,
		&vehicleType,
		&rule.RideType,
		&rule.PricingModel,
		&rule.BasePrice,
		&rule.PerUnitPrice,
		&rule.MinimumHours,
		&rule.Currency,
		&rule.Active,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	rule.VehicleID = vehicleID.String
	rule.VehicleType = domain.VehicleType(vehicleType.String)

	return &rule, nil
}
