package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"limo/internal/domain"
	"limo/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `
	b.id, b.tenant_id, b.user_id, b.vehicle_id, b.driver_id, b.ride_type, b.status,
	b.scheduled_at, b.pickup_address, b.pickup_lat, b.pickup_lng,
	b.dropoff_address, b.dropoff_lat, b.dropoff_lng,
	b.distance_km, b.distance_miles, b.duration_hours,
	b.quoted_price, b.final_price, b.currency, b.pricing_rule_id,
	b.notes, b.cancel_reason, b.created_at, b.updated_at, b.completed_at, b.cancelled_at
`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, tenant_id, user_id, vehicle_id, driver_id, ride_type, status,
			scheduled_at, pickup_address, pickup_lat, pickup_lng,
			dropoff_address, dropoff_lat, dropoff_lng,
			distance_km, distance_miles, duration_hours,
			quoted_price, final_price, currency, pricing_rule_id,
			notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.TenantID,
		booking.UserID,
		booking.VehicleID,
		nullString(booking.DriverID),
		booking.RideType,
		booking.Status,
		booking.ScheduledAt,
		booking.PickupAddress,
		booking.PickupLat,
		booking.PickupLng,
		nullString(booking.DropoffAddress),
		nullFloat(booking.DropoffLat),
		nullFloat(booking.DropoffLng),
		booking.DistanceKm,
		booking.DistanceMiles,
		booking.DurationHours,
		booking.QuotedPrice,
		booking.FinalPrice,
		booking.Currency,
		nullString(booking.PricingRuleID),
		nullString(booking.Notes),
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	return mapWriteError(err)
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return booking, nil
}

// Update updates the mutable fields of a booking.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET driver_id = $1, status = $2, final_price = $3, notes = $4, cancel_reason = $5,
			updated_at = $6, completed_at = $7, cancelled_at = $8
		WHERE id = $9
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(booking.DriverID),
		booking.Status,
		booking.FinalPrice,
		nullString(booking.Notes),
		nullString(booking.CancelReason),
		booking.UpdatedAt,
		nullTime(booking.CompletedAt),
		nullTime(booking.CancelledAt),
		booking.ID,
	)
	if err != nil {
		return err
	}

	return expectRows(result)
}

// List retrieves bookings matching filter with their customer and vehicle.
func (r *BookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]*repository.BookingRow, int, error) {
	where, args := bookingWhere(filter, true)
	from := ` FROM bookings b
		JOIN users u ON u.id = b.user_id
		JOIN vehicles v ON v.id = b.vehicle_id`

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	args = append(args, limit, offset)
	query := `SELECT ` + bookingColumns + `,
			u.first_name, u.last_name, u.email, u.phone, v.name, v.type` +
		from + where +
		fmt.Sprintf(` ORDER BY b.scheduled_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*repository.BookingRow
	for rows.Next() {
		var (
			row       repository.BookingRow
			firstName sql.NullString
			lastName  sql.NullString
			phone     sql.NullString
		)

		booking, err := scanBooking(rows,
			&firstName, &lastName, &row.CustomerEmail, &phone, &row.VehicleName, &row.VehicleType)
		if err != nil {
			return nil, 0, err
		}

		row.Booking = booking
		row.CustomerFirst = firstName.String
		row.CustomerLast = lastName.String
		row.CustomerPhone = phone.String
		result = append(result, &row)
	}

	return result, total, rows.Err()
}

// CountByStatus counts bookings matching filter grouped by status.
func (r *BookingRepository) CountByStatus(ctx context.Context, filter repository.BookingFilter) (map[domain.BookingStatus]int, error) {
	where, args := bookingWhere(filter, false)
	query := `SELECT b.status, COUNT(*) FROM bookings b
		JOIN users u ON u.id = b.user_id` + where + ` GROUP BY b.status`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.BookingStatus]int, len(domain.AllBookingStatuses))
	for rows.Next() {
		var (
			status domain.BookingStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}

	return counts, rows.Err()
}

// bookingWhere builds the WHERE clause for filter. Status is only applied
// when withStatus is set so that per-status counts share the same base.
func bookingWhere(filter repository.BookingFilter, withStatus bool) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.TenantID != "" {
		add("b.tenant_id = $%d", filter.TenantID)
	}
	if withStatus && filter.Status != "" {
		add("b.status = $%d", filter.Status)
	}
	if !filter.From.IsZero() {
		add("b.scheduled_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("b.scheduled_at < $%d", filter.To)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		add("(b.id ILIKE $%[1]d OR u.first_name ILIKE $%[1]d OR u.last_name ILIKE $%[1]d OR u.email ILIKE $%[1]d)",
			"%"+escapeLike(search)+"%")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanBooking(row rowScanner, extra ...any) (*domain.Booking, error) {
	var (
		booking        domain.Booking
		driverID       sql.NullString
		dropoffAddress sql.NullString
		dropoffLat     sql.NullFloat64
		dropoffLng     sql.NullFloat64
		ruleID         sql.NullString
		notes          sql.NullString
		cancelReason   sql.NullString
		completedAt    sql.NullTime
		cancelledAt    sql.NullTime
	)

	dest := []any{
		&booking.ID,
		&booking.TenantID,
		&booking.UserID,
		&booking.VehicleID,
		&driverID,
		&booking.RideType,
		&booking.Status,
		&booking.ScheduledAt,
		&booking.PickupAddress,
		&booking.PickupLat,
		&booking.PickupLng,
		&dropoffAddress,
		&dropoffLat,
		&dropoffLng,
		&booking.DistanceKm,
		&booking.DistanceMiles,
		&booking.DurationHours,
		&booking.QuotedPrice,
		&booking.FinalPrice,
		&booking.Currency,
		&ruleID,
		&notes,
		&cancelReason,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&completedAt,
		&cancelledAt,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	booking.DriverID = driverID.String
	booking.DropoffAddress = dropoffAddress.String
	if dropoffLat.Valid {
		booking.DropoffLat = &dropoffLat.Float64
	}
	if dropoffLng.Valid {
		booking.DropoffLng = &dropoffLng.Float64
	}
	booking.PricingRuleID = ruleID.String
	booking.Notes = notes.String
	booking.CancelReason = cancelReason.String
	booking.CompletedAt = completedAt.Time
	booking.CancelledAt = cancelledAt.Time

	return &booking, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
