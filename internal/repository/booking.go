package repository

import (
	"context"
	"time"

	"limo/internal/domain"
)

// BookingFilter narrows a booking listing.
type BookingFilter struct {
	TenantID string               // Empty means all tenants.
	Status   domain.BookingStatus // Empty means any status.
	From     time.Time            // Inclusive lower bound on scheduled_at; zero means unbounded.
	To       time.Time            // Exclusive upper bound on scheduled_at; zero means unbounded.
	Search   string               // Matches booking id or customer name/email.
	Limit    int
	Offset   int
}

// BookingRow is a booking joined with its customer and vehicle.
type BookingRow struct {
	Booking       *domain.Booking
	CustomerFirst string
	CustomerLast  string
	CustomerEmail string
	CustomerPhone string
	VehicleName   string
	VehicleType   domain.VehicleType
}

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error

	// List retrieves bookings matching filter, newest scheduled first,
	// together with the total number of matches ignoring Limit/Offset.
	List(ctx context.Context, filter BookingFilter) ([]*BookingRow, int, error)

	// CountByStatus counts bookings matching filter (ignoring its Status)
	// grouped by status.
	CountByStatus(ctx context.Context, filter BookingFilter) (map[domain.BookingStatus]int, error)
}
