package domain

// UserRole represents the role of a platform user.
type UserRole string

const (
	UserRoleEndUser    UserRole = "END_USER"
	UserRoleDriver     UserRole = "DRIVER"
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// VehicleType is the category a vehicle belongs to.
type VehicleType string

const (
	VehicleTypeSedan       VehicleType = "SEDAN"
	VehicleTypeSUV         VehicleType = "SUV"
	VehicleTypeVan         VehicleType = "VAN"
	VehicleTypeSprinter    VehicleType = "SPRINTER"
	VehicleTypeStretchLimo VehicleType = "STRETCH_LIMO"
)

// Valid reports whether t is a known vehicle type.
func (t VehicleType) Valid() bool {
	switch t {
	case VehicleTypeSedan, VehicleTypeSUV, VehicleTypeVan, VehicleTypeSprinter, VehicleTypeStretchLimo:
		return true
	}
	return false
}

// RideType is the kind of trip being priced.
type RideType string

const (
	RideTypeToAirport   RideType = "TO_AIRPORT"
	RideTypeFromAirport RideType = "FROM_AIRPORT"
	RideTypeHourly      RideType = "HOURLY"
)

// Valid reports whether t is a known ride type.
func (t RideType) Valid() bool {
	switch t {
	case RideTypeToAirport, RideTypeFromAirport, RideTypeHourly:
		return true
	}
	return false
}

// PricingModel is the formula used to turn a rule into an amount.
type PricingModel string

const (
	PricingModelFlatRate PricingModel = "FLAT_RATE"
	PricingModelPerMile  PricingModel = "PER_MILE"
	PricingModelPerKm    PricingModel = "PER_KM"
	PricingModelHourly   PricingModel = "HOURLY"
)

// Valid reports whether m is a known pricing model.
func (m PricingModel) Valid() bool {
	switch m {
	case PricingModelFlatRate, PricingModelPerMile, PricingModelPerKm, PricingModelHourly:
		return true
	}
	return false
}

// Metered reports whether the model multiplies a per-unit price.
func (m PricingModel) Metered() bool {
	return m == PricingModelPerMile || m == PricingModelPerKm || m == PricingModelHourly
}
