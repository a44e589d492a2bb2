package domain

import "github.com/shopspring/decimal"

// DriverStatus represents the duty status of a driver.
type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "AVAILABLE"
	DriverStatusOnRide    DriverStatus = "ON_RIDE"
	DriverStatusOffline   DriverStatus = "OFFLINE"
)

// OnDuty reports whether the driver is working, with or without a passenger.
func (s DriverStatus) OnDuty() bool {
	return s == DriverStatusAvailable || s == DriverStatusOnRide
}

// Driver is a DRIVER user of a tenant with their optional driver profile.
type Driver struct {
	ID            string
	TenantID      string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	LicenseNumber string       // Empty without a profile.
	Status        DriverStatus // Empty without a profile.
	Rating        decimal.Decimal
	TotalRides    int
	VehicleName   string // Vehicle of the driver's most recent booking.
}
