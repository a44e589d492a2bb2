package pricing

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"limo/internal/domain"
)

var created = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func rule(id string, mutate func(r *domain.PricingRule)) *domain.PricingRule {
	r := &domain.PricingRule{
		ID:           id,
		TenantID:     "tenant-1",
		RideType:     domain.RideTypeToAirport,
		PricingModel: domain.PricingModelFlatRate,
		BasePrice:    dec("45.00"),
		Currency:     "USD",
		Active:       true,
		CreatedAt:    created,
	}
	if mutate != nil {
		mutate(r)
	}
	return r
}

var sedan = &domain.Vehicle{ID: "veh-1", Type: domain.VehicleTypeSedan}

func TestResolve_SpecificityOrdering(t *testing.T) {
	byVehicle := rule("r-vehicle", func(r *domain.PricingRule) {
		r.VehicleID = "veh-1"
		r.BasePrice = dec("100")
	})
	byType := rule("r-type", func(r *domain.PricingRule) {
		r.VehicleType = domain.VehicleTypeSedan
		r.BasePrice = dec("80")
	})
	catchAll := rule("r-all", func(r *domain.PricingRule) {
		r.BasePrice = dec("60")
	})

	tests := []struct {
		name       string
		rules      []*domain.PricingRule
		wantRuleID string
		wantAmount string
	}{
		{"vehicle rule wins", []*domain.PricingRule{catchAll, byType, byVehicle}, "r-vehicle", "100.00"},
		{"falls back to vehicle type", []*domain.PricingRule{catchAll, byType}, "r-type", "80.00"},
		{"falls back to catch-all", []*domain.PricingRule{catchAll}, "r-all", "60.00"},
		{"nothing left", nil, "", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Resolve(sedan, tt.rules, domain.RideTypeToAirport, NewQuoteInput(10, 16, 1))
			assert.Equal(t, tt.wantRuleID, q.RuleID)
			assert.Equal(t, tt.wantAmount, q.Amount.StringFixed(2))
		})
	}
}

func TestResolve_IgnoresOtherRideTypesAndVehicles(t *testing.T) {
	rules := []*domain.PricingRule{
		rule("r-hourly", func(r *domain.PricingRule) { r.RideType = domain.RideTypeHourly }),
		rule("r-other-vehicle", func(r *domain.PricingRule) { r.VehicleID = "veh-2" }),
		rule("r-suv", func(r *domain.PricingRule) { r.VehicleType = domain.VehicleTypeSUV }),
	}

	q := Resolve(sedan, rules, domain.RideTypeToAirport, QuoteInput{})

	assert.False(t, q.Priced())
}

func TestResolve_VehicleRuleWithTypeSetStillMatchesTierOne(t *testing.T) {
	r := rule("r-both", func(r *domain.PricingRule) {
		r.VehicleID = "veh-1"
		r.VehicleType = domain.VehicleTypeSUV
	})

	q := Resolve(sedan, []*domain.PricingRule{r}, domain.RideTypeToAirport, QuoteInput{})

	assert.Equal(t, "r-both", q.RuleID)
}

func TestResolve_TypeRuleIgnoredForUntypedVehicle(t *testing.T) {
	untyped := &domain.Vehicle{ID: "veh-9"}
	rules := []*domain.PricingRule{
		rule("r-type", func(r *domain.PricingRule) { r.VehicleType = domain.VehicleTypeSedan }),
	}

	q := Resolve(untyped, rules, domain.RideTypeToAirport, QuoteInput{})

	assert.False(t, q.Priced())
}

func TestResolve_SkipsInactiveAndNilRules(t *testing.T) {
	inactive := rule("r-inactive", func(r *domain.PricingRule) {
		r.VehicleID = "veh-1"
		r.Active = false
	})
	catchAll := rule("r-all", nil)

	q := Resolve(sedan, []*domain.PricingRule{nil, inactive, catchAll}, domain.RideTypeToAirport, QuoteInput{})

	assert.Equal(t, "r-all", q.RuleID)
}

func TestResolve_FlatRateInvariance(t *testing.T) {
	rules := []*domain.PricingRule{rule("r-flat", nil)}

	inputs := []QuoteInput{
		NewQuoteInput(0, 0, 0),
		NewQuoteInput(1, 1.6, 0.25),
		NewQuoteInput(250, 402, 9),
		NewQuoteInput(-5, math.Inf(1), math.NaN()),
	}

	for _, in := range inputs {
		q := Resolve(sedan, rules, domain.RideTypeToAirport, in)
		assert.True(t, dec("45.00").Equal(q.Amount), "got %s", q.Amount)
		assert.Equal(t, "USD", q.Currency)
	}
}

func TestResolve_PerMileLinearity(t *testing.T) {
	rules := []*domain.PricingRule{rule("r-mile", func(r *domain.PricingRule) {
		r.PricingModel = domain.PricingModelPerMile
		r.BasePrice = dec("10.00")
		r.PerUnitPrice = nullDec("2.50")
	})}

	q := Resolve(sedan, rules, domain.RideTypeToAirport, NewQuoteInput(8, 999, 999))

	assert.Equal(t, "30.00", q.Amount.StringFixed(2))
	assert.Equal(t, "r-mile", q.RuleID)
}

func TestResolve_PerKilometer(t *testing.T) {
	rules := []*domain.PricingRule{rule("r-km", func(r *domain.PricingRule) {
		r.PricingModel = domain.PricingModelPerKm
		r.BasePrice = dec("5")
		r.PerUnitPrice = nullDec("1.20")
		r.Currency = "EUR"
	})}

	q := Resolve(sedan, rules, domain.RideTypeToAirport, NewQuoteInput(999, 12.5, 0))

	assert.Equal(t, "20.00", q.Amount.StringFixed(2))
	assert.Equal(t, "EUR", q.Currency)
}

func TestResolve_HourlyMinimumFloor(t *testing.T) {
	hourly := rule("r-hourly", func(r *domain.PricingRule) {
		r.RideType = domain.RideTypeHourly
		r.PricingModel = domain.PricingModelHourly
		r.BasePrice = dec("20.00")
		r.PerUnitPrice = nullDec("15.00")
		r.MinimumHours = nullDec("3")
	})

	tests := []struct {
		name  string
		hours float64
		want  string
	}{
		{"below minimum bills minimum", 1, "65.00"},
		{"at minimum", 3, "65.00"},
		{"above minimum bills actual", 4.5, "87.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Resolve(sedan, []*domain.PricingRule{hourly}, domain.RideTypeHourly, NewQuoteInput(0, 0, tt.hours))
			assert.Equal(t, tt.want, q.Amount.StringFixed(2))
		})
	}
}

func TestResolve_MissingOptionalValuesCountAsZero(t *testing.T) {
	hourly := rule("r-hourly", func(r *domain.PricingRule) {
		r.RideType = domain.RideTypeHourly
		r.PricingModel = domain.PricingModelHourly
		r.BasePrice = dec("20")
	})

	q := Resolve(sedan, []*domain.PricingRule{hourly}, domain.RideTypeHourly, NewQuoteInput(0, 0, 5))

	assert.Equal(t, "20.00", q.Amount.StringFixed(2))
}

func TestResolve_NoRuleSentinel(t *testing.T) {
	q := Resolve(sedan, []*domain.PricingRule{}, domain.RideTypeFromAirport, NewQuoteInput(3, 5, 1))

	assert.True(t, q.Amount.IsZero())
	assert.Equal(t, "USD", q.Currency)
	assert.Empty(t, q.RuleID)
	assert.False(t, q.Priced())
}

func TestResolve_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		name    string
		perUnit string
		km      float64
		want    string
	}{
		{"3.045 rounds up", "1.015", 3, "3.05"},
		{"2.025 rounds up", "0.675", 3, "2.03"},
		{"1.0049 rounds down", "1.0049", 1, "1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rule("r-km", func(r *domain.PricingRule) {
				r.PricingModel = domain.PricingModelPerKm
				r.BasePrice = decimal.Zero
				r.PerUnitPrice = nullDec(tt.perUnit)
			})
			q := Resolve(sedan, []*domain.PricingRule{r}, domain.RideTypeToAirport, NewQuoteInput(0, tt.km, 0))
			assert.Equal(t, tt.want, q.Amount.StringFixed(2))
		})
	}
}

func TestResolve_RepeatedAdditionHasNoDrift(t *testing.T) {
	r := rule("r-mile", func(r *domain.PricingRule) {
		r.PricingModel = domain.PricingModelPerMile
		r.BasePrice = dec("0.10")
		r.PerUnitPrice = nullDec("0.20")
	})

	total := decimal.Zero
	for i := 0; i < 1000; i++ {
		q := Resolve(sedan, []*domain.PricingRule{r}, domain.RideTypeToAirport, NewQuoteInput(1, 0, 0))
		total = total.Add(q.Amount)
	}

	assert.Equal(t, "300", total.String())
}

func TestResolve_NegativeInputsClampToZero(t *testing.T) {
	r := rule("r-mile", func(r *domain.PricingRule) {
		r.PricingModel = domain.PricingModelPerMile
		r.BasePrice = dec("10")
		r.PerUnitPrice = nullDec("2")
	})

	fromRaw := Resolve(sedan, []*domain.PricingRule{r}, domain.RideTypeToAirport, NewQuoteInput(-50, 0, 0))
	fromDecimal := Resolve(sedan, []*domain.PricingRule{r}, domain.RideTypeToAirport, QuoteInput{DistanceMiles: dec("-50")})

	assert.Equal(t, "10.00", fromRaw.Amount.StringFixed(2))
	assert.Equal(t, "10.00", fromDecimal.Amount.StringFixed(2))
}

func TestResolve_TieBreakMostRecentThenID(t *testing.T) {
	older := rule("r-old", func(r *domain.PricingRule) { r.BasePrice = dec("1") })
	newer := rule("r-new", func(r *domain.PricingRule) {
		r.BasePrice = dec("2")
		r.CreatedAt = created.Add(time.Hour)
	})
	sameTimeB := rule("r-b", func(r *domain.PricingRule) { r.BasePrice = dec("3") })
	sameTimeA := rule("r-a", func(r *domain.PricingRule) { r.BasePrice = dec("4") })

	q := Resolve(sedan, []*domain.PricingRule{older, newer}, domain.RideTypeToAirport, QuoteInput{})
	assert.Equal(t, "r-new", q.RuleID)

	q = Resolve(sedan, []*domain.PricingRule{sameTimeB, sameTimeA}, domain.RideTypeToAirport, QuoteInput{})
	assert.Equal(t, "r-a", q.RuleID)
}

func TestResolve_DoesNotMutateRules(t *testing.T) {
	a := rule("r-b", nil)
	b := rule("r-a", nil)
	rules := []*domain.PricingRule{a, b}
	before := *a

	_ = Resolve(sedan, rules, domain.RideTypeToAirport, NewQuoteInput(1, 1, 1))

	assert.Same(t, a, rules[0])
	assert.Same(t, b, rules[1])
	assert.Equal(t, before, *a)
}

func TestResolve_Idempotent(t *testing.T) {
	rules := []*domain.PricingRule{
		rule("r-type", func(r *domain.PricingRule) {
			r.VehicleType = domain.VehicleTypeSedan
			r.PricingModel = domain.PricingModelPerKm
			r.PerUnitPrice = nullDec("1.333")
		}),
		rule("r-all", nil),
	}
	in := NewQuoteInput(7.3, 11.7, 0.5)

	first := Resolve(sedan, rules, domain.RideTypeToAirport, in)
	second := Resolve(sedan, rules, domain.RideTypeToAirport, in)

	assert.Equal(t, first.RuleID, second.RuleID)
	assert.Equal(t, first.Currency, second.Currency)
	assert.Equal(t, first.Amount.String(), second.Amount.String())
}

func TestResolve_ConcurrentCallers(t *testing.T) {
	rules := []*domain.PricingRule{rule("r-mile", func(r *domain.PricingRule) {
		r.PricingModel = domain.PricingModelPerMile
		r.BasePrice = dec("10")
		r.PerUnitPrice = nullDec("2.5")
	})}

	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Resolve(sedan, rules, domain.RideTypeToAirport, NewQuoteInput(8, 0, 0)).Amount.StringFixed(2)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, "30.00", got)
	}
}

func TestResolve_PanicsWithoutVehicle(t *testing.T) {
	assert.Panics(t, func() {
		Resolve(nil, nil, domain.RideTypeToAirport, QuoteInput{})
	})
	assert.Panics(t, func() {
		Resolve(&domain.Vehicle{Type: domain.VehicleTypeSUV}, nil, domain.RideTypeToAirport, QuoteInput{})
	})
}

func TestResolve_MalformedRuleIsComputedAsIs(t *testing.T) {
	r := rule("r-neg", func(r *domain.PricingRule) { r.BasePrice = dec("-5") })

	q := Resolve(sedan, []*domain.PricingRule{r}, domain.RideTypeToAirport, QuoteInput{})

	assert.Equal(t, "-5.00", q.Amount.StringFixed(2))
}
