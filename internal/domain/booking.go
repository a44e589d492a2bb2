package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// AllBookingStatuses lists every status in lifecycle order.
var AllBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted},
}

// CanTransitionTo reports whether a booking in status s may move to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a customer's reservation of a vehicle.
type Booking struct {
	ID             string
	TenantID       string
	UserID         string
	VehicleID      string
	DriverID       string
	RideType       RideType
	Status         BookingStatus
	ScheduledAt    time.Time
	PickupAddress  string
	PickupLat      float64
	PickupLng      float64
	DropoffAddress string
	DropoffLat     *float64
	DropoffLng     *float64
	DistanceKm     decimal.NullDecimal
	DistanceMiles  decimal.NullDecimal
	DurationHours  decimal.NullDecimal
	QuotedPrice    decimal.Decimal
	FinalPrice     decimal.NullDecimal
	Currency       string
	PricingRuleID  string
	Notes          string
	CancelReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    time.Time
	CancelledAt    time.Time
}
