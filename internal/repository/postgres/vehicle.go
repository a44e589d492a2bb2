package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"limo/internal/domain"
	"limo/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

const vehicleColumns = `
	id, tenant_id, name, type, make, model, year, capacity, license_plate,
	color, amenities, photos, active, created_at
`

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	amenities, err := json.Marshal(vehicle.Amenities)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO vehicles (id, tenant_id, name, type, make, model, year, capacity,
			license_plate, color, amenities, photos, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.q.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.TenantID,
		vehicle.Name,
		vehicle.Type,
		nullString(vehicle.Make),
		nullString(vehicle.Model),
		nullInt(vehicle.Year),
		vehicle.Capacity,
		nullString(vehicle.LicensePlate),
		nullString(vehicle.Color),
		amenities,
		pq.Array(vehicle.Photos),
		vehicle.Active,
		vehicle.CreatedAt,
	)

	return mapWriteError(err)
}

// Update updates an existing vehicle.
func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	amenities, err := json.Marshal(vehicle.Amenities)
	if err != nil {
		return err
	}

	query := `
		UPDATE vehicles
		SET name = $1, type = $2, make = $3, model = $4, year = $5, capacity = $6,
			license_plate = $7, color = $8, amenities = $9, photos = $10, active = $11
		WHERE id = $12 AND tenant_id = $13
	`

	result, err := r.q.ExecContext(ctx, query,
		vehicle.Name,
		vehicle.Type,
		nullString(vehicle.Make),
		nullString(vehicle.Model),
		nullInt(vehicle.Year),
		vehicle.Capacity,
		nullString(vehicle.LicensePlate),
		nullString(vehicle.Color),
		amenities,
		pq.Array(vehicle.Photos),
		vehicle.Active,
		vehicle.ID,
		vehicle.TenantID,
	)
	if err != nil {
		return mapWriteError(err)
	}

	return expectRows(result)
}

// GetByID retrieves a vehicle by ID within a tenant.
func (r *VehicleRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 AND tenant_id = $2`
	return scanVehicle(r.q.QueryRowContext(ctx, query, id, tenantID))
}

// ListByTenant retrieves a tenant's vehicles, newest first.
func (r *VehicleRepository) ListByTenant(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles
		WHERE tenant_id = $1 AND ($2::boolean = FALSE OR active = TRUE)
		ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, tenantID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, rows.Err()
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var (
		vehicle   domain.Vehicle
		vmake     sql.NullString
		model     sql.NullString
		year      sql.NullInt64
		plate     sql.NullString
		color     sql.NullString
		amenities []byte
	)

	err := row.Scan(
		&vehicle.ID,
		&vehicle.TenantID,
		&vehicle.Name,
		&vehicle.Type,
		&vmake,
		&model,
		&year,
		&vehicle.Capacity,
		&plate,
		&color,
		&amenities,
		pq.Array(&vehicle.Photos),
		&vehicle.Active,
		&vehicle.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	vehicle.Make = vmake.String
	vehicle.Model = model.String
	vehicle.Year = int(year.Int64)
	vehicle.LicensePlate = plate.String
	vehicle.Color = color.String
	vehicle.Amenities = parseAmenities(amenities)

	return &vehicle, nil
}

// parseAmenities keeps only boolean entries of the stored JSON object.
func parseAmenities(raw []byte) map[string]bool {
	result := make(map[string]bool)
	if len(raw) == 0 {
		return result
	}

	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return result
	}

	for k, v := range values {
		if b, ok := v.(bool); ok {
			result[k] = b
		}
	}
	return result
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

// expectRows returns repository.ErrNotFound when an update touched nothing.
func expectRows(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
