package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"limo/internal/domain"
	"limo/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

const driverSelect = `
	SELECT u.id, u.tenant_id, u.first_name, u.last_name, u.email, u.phone,
		dp.license_number, dp.status, dp.rating, COALESCE(dp.total_rides, 0),
		(SELECT v.name FROM bookings b JOIN vehicles v ON v.id = b.vehicle_id
			WHERE b.driver_id = u.id ORDER BY b.created_at DESC LIMIT 1)
	FROM users u
	LEFT JOIN driver_profiles dp ON dp.user_id = u.id
	WHERE u.tenant_id = $1 AND u.role = 'DRIVER'
`

// GetByID retrieves a driver of a tenant.
func (r *DriverRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Driver, error) {
	driver, err := scanDriver(r.q.QueryRowContext(ctx, driverSelect+` AND u.id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return driver, nil
}

// List retrieves the drivers of a tenant matching the filter.
func (r *DriverRepository) List(ctx context.Context, filter repository.DriverFilter) ([]*domain.Driver, error) {
	query := driverSelect
	args := []any{filter.TenantID}
	if filter.Search != "" {
		query += ` AND (u.first_name ILIKE $2 OR u.last_name ILIKE $2 OR u.email ILIKE $2
			OR u.phone ILIKE $2 OR dp.license_number ILIKE $2)`
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}
	query += ` ORDER BY u.created_at DESC, u.id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}

	return drivers, rows.Err()
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var (
		driver    domain.Driver
		firstName sql.NullString
		lastName  sql.NullString
		phone     sql.NullString
		license   sql.NullString
		status    sql.NullString
		rating    decimal.NullDecimal
		vehicle   sql.NullString
	)

	err := row.Scan(
		&driver.ID, &driver.TenantID, &firstName, &lastName, &driver.Email, &phone,
		&license, &status, &rating, &driver.TotalRides, &vehicle,
	)
	if err != nil {
		return nil, err
	}

	driver.FirstName = firstName.String
	driver.LastName = lastName.String
	driver.Phone = phone.String
	driver.LicenseNumber = license.String
	driver.Status = domain.DriverStatus(status.String)
	driver.Rating = rating.Decimal
	driver.VehicleName = vehicle.String

	return &driver, nil
}
