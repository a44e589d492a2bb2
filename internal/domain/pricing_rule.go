package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingRule is a tenant-configured price for a ride type, optionally
// narrowed to one vehicle or one vehicle type.
type PricingRule struct {
	ID           string
	TenantID     string
	VehicleID    string      // Empty when the rule is not vehicle-specific.
	VehicleType  VehicleType // Empty when the rule is not type-specific.
	RideType     RideType
	PricingModel PricingModel
	BasePrice    decimal.Decimal
	PerUnitPrice decimal.NullDecimal
	MinimumHours decimal.NullDecimal
	Currency     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
