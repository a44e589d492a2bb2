// Package pricing turns a tenant's pricing rules into a quote for one
// vehicle. Everything here is a pure function of its arguments.
package pricing

import (
	"cmp"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"limo/internal/domain"
)

// DefaultCurrency is reported on quotes that no rule could price.
const DefaultCurrency = "USD"

// QuoteInput carries the caller-measured trip metrics.
type QuoteInput struct {
	DistanceMiles decimal.Decimal
	DistanceKm    decimal.Decimal
	DurationHours decimal.Decimal
}

// NewQuoteInput builds a QuoteInput from raw request numbers.
// Negative, NaN and infinite values become zero.
func NewQuoteInput(distanceMiles, distanceKm, durationHours float64) QuoteInput {
	return QuoteInput{
		DistanceMiles: fromFloat(distanceMiles),
		DistanceKm:    fromFloat(distanceKm),
		DurationHours: fromFloat(durationHours),
	}
}

func fromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func (in QuoteInput) clamped() QuoteInput {
	return QuoteInput{
		DistanceMiles: nonNegative(in.DistanceMiles),
		DistanceKm:    nonNegative(in.DistanceKm),
		DurationHours: nonNegative(in.DurationHours),
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Quote is the result of pricing one vehicle.
// RuleID is empty when no rule applied; Amount is then zero.
type Quote struct {
	Amount   decimal.Decimal
	Currency string
	RuleID   string
}

// Priced reports whether a rule produced this quote. A zero amount with
// Priced() == false means "no price configured", never "free".
func (q Quote) Priced() bool {
	return q.RuleID != ""
}

// Unpriced returns the quote used when no rule applies.
func Unpriced() Quote {
	return Quote{Amount: decimal.Zero, Currency: DefaultCurrency}
}

// Resolve selects the most specific rule for vehicle and rideType and
// computes its amount. rules are expected to be the tenant's active rules;
// they are never modified.
//
// Resolve panics if vehicle is nil or has no ID.
func Resolve(vehicle *domain.Vehicle, rules []*domain.PricingRule, rideType domain.RideType, input QuoteInput) Quote {
	if vehicle == nil || vehicle.ID == "" {
		panic("pricing: Resolve called without a vehicle id")
	}

	rule := SelectRule(rules, vehicle.ID, vehicle.Type, rideType)
	if rule == nil {
		return Unpriced()
	}

	return Quote{
		Amount:   Amount(rule, input),
		Currency: rule.Currency,
		RuleID:   rule.ID,
	}
}

// SelectRule returns the applicable rule or nil. Specificity order:
// vehicle id, then vehicle type, then the tenant-wide catch-all. Within a
// tier the most recently created rule wins, then the lowest id.
func SelectRule(rules []*domain.PricingRule, vehicleID string, vehicleType domain.VehicleType, rideType domain.RideType) *domain.PricingRule {
	candidates := candidatesFor(rules, rideType)

	if vehicleID != "" {
		for _, rule := range candidates {
			if rule.VehicleID == vehicleID {
				return rule
			}
		}
	}

	if vehicleType != "" {
		for _, rule := range candidates {
			if rule.VehicleID == "" && rule.VehicleType == vehicleType {
				return rule
			}
		}
	}

	for _, rule := range candidates {
		if rule.VehicleID == "" && rule.VehicleType == "" {
			return rule
		}
	}

	return nil
}

// candidatesFor copies the eligible rules for rideType in tie-break order.
func candidatesFor(rules []*domain.PricingRule, rideType domain.RideType) []*domain.PricingRule {
	candidates := make([]*domain.PricingRule, 0, len(rules))
	for _, rule := range rules {
		if rule == nil || !rule.Active || rule.RideType != rideType {
			continue
		}
		candidates = append(candidates, rule)
	}

	slices.SortStableFunc(candidates, func(a, b *domain.PricingRule) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return candidates
}

// Amount computes the price of a trip under rule, rounded half-up to
// two decimal places.
func Amount(rule *domain.PricingRule, input QuoteInput) decimal.Decimal {
	in := input.clamped()
	perUnit := optional(rule.PerUnitPrice)
	amount := rule.BasePrice

	switch rule.PricingModel {
	case domain.PricingModelFlatRate:
	case domain.PricingModelPerMile:
		amount = amount.Add(perUnit.Mul(in.DistanceMiles))
	case domain.PricingModelPerKm:
		amount = amount.Add(perUnit.Mul(in.DistanceKm))
	case domain.PricingModelHourly:
		billable := decimal.Max(in.DurationHours, optional(rule.MinimumHours))
		amount = amount.Add(perUnit.Mul(billable))
	default:
		// Unknown models are rejected when rules are written; charge base only.
	}

	return amount.Round(2)
}

func optional(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
