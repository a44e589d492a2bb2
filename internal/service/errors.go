package service

import "errors"

var (
	// ErrTenantNotFound is returned when no active tenant matches a request.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidTenantID is returned when tenant ID is empty.
	ErrInvalidTenantID = errors.New("invalid tenant id")

	// ErrInvalidVehicleID is returned when vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrVehicleNotInTenant is returned when a vehicle does not belong to the tenant.
	ErrVehicleNotInTenant = errors.New("vehicle does not belong to tenant")

	// ErrVehicleInactive is returned when booking or quoting an inactive vehicle.
	ErrVehicleInactive = errors.New("vehicle is not available")

	// ErrInvalidVehicle is returned when vehicle fields fail validation.
	ErrInvalidVehicle = errors.New("invalid vehicle")

	// ErrInvalidRideType is returned when the ride type is unknown.
	ErrInvalidRideType = errors.New("invalid ride type")

	// ErrInvalidPricingModel is returned when the pricing model is unknown.
	ErrInvalidPricingModel = errors.New("invalid pricing model")

	// ErrInvalidPricingRule is returned when a pricing rule has an invalid shape.
	ErrInvalidPricingRule = errors.New("invalid pricing rule")

	// ErrInvalidRuleID is returned when pricing rule ID is empty.
	ErrInvalidRuleID = errors.New("invalid pricing rule id")

	// ErrNoPricingRule is returned when no pricing rule covers a booking.
	ErrNoPricingRule = errors.New("no pricing rule matches this vehicle and ride type")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidBookingTransition is returned for a status change the lifecycle forbids.
	ErrInvalidBookingTransition = errors.New("invalid booking status transition")

	// ErrBookingLocked is returned when another request is changing the booking.
	ErrBookingLocked = errors.New("booking is being updated")

	// ErrInvalidCustomer is returned when customer details are missing.
	ErrInvalidCustomer = errors.New("invalid customer details")

	// ErrInvalidScheduledAt is returned when the pickup time is missing or in the past.
	ErrInvalidScheduledAt = errors.New("invalid scheduled time")

	// ErrInvalidPickupLocation is returned when pickup coordinates are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropoffLocation is returned when dropoff coordinates are invalid.
	ErrInvalidDropoffLocation = errors.New("invalid dropoff location")

	// ErrDropoffRequired is returned when an airport ride has no dropoff.
	ErrDropoffRequired = errors.New("dropoff location is required for airport rides")

	// ErrDurationRequired is returned when an hourly ride has no duration.
	ErrDurationRequired = errors.New("duration is required for hourly rides")

	// ErrOutsideServiceArea is returned when a location falls outside the tenant's service area.
	ErrOutsideServiceArea = errors.New("location is outside the service area")

	// ErrInvalidFinalPrice is returned when a completion price is negative.
	ErrInvalidFinalPrice = errors.New("invalid final price")

	// ErrInvalidPaymentAmount is returned when payment amount is invalid.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	// ErrInvalidPaymentID is returned when payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrInvalidDriver is returned when a driver ID does not name a driver of the tenant.
	ErrInvalidDriver = errors.New("invalid driver")

	// ErrInvalidEmail is returned when an email address is missing or malformed.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrNotStaff is returned when issuing an admin token for a non-admin user.
	ErrNotStaff = errors.New("user is not an administrator")
)
