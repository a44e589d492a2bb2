package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"limo/internal/domain"
	"limo/internal/pricing"
	"limo/internal/service"
)

// ──────────────────────────────────────────────
// 1. QUOTING
// ──────────────────────────────────────────────

func TestQuoteVehicles_PricesEveryActiveVehicle(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)
	f.addRule("rule-suv", 0, func(r *domain.PricingRule) {
		r.VehicleType = domain.VehicleTypeSUV
		r.PricingModel = domain.PricingModelPerMile
		r.BasePrice = dec("50")
		r.PerUnitPrice.Decimal, r.PerUnitPrice.Valid = dec("3.25"), true
	})

	quotes, err := f.quotes.QuoteVehicles(context.Background(), tenantID, domain.RideTypeToAirport, pricing.NewQuoteInput(10, 0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(quotes) != 2 {
		t.Fatalf("expected 2 active vehicles, got %d", len(quotes))
	}

	got := map[string]pricing.Quote{}
	for _, q := range quotes {
		got[q.Vehicle.ID] = q.Quote
	}

	if q := got[sedanID]; q.RuleID != "rule-all" || q.Amount.StringFixed(2) != "100.00" {
		t.Errorf("sedan: expected rule-all at 100.00, got %s at %s", q.RuleID, q.Amount.StringFixed(2))
	}
	if q := got[suvID]; q.RuleID != "rule-suv" || q.Amount.StringFixed(2) != "82.50" {
		t.Errorf("suv: expected rule-suv at 82.50, got %s at %s", q.RuleID, q.Amount.StringFixed(2))
	}
	if _, ok := got[retiredID]; ok {
		t.Error("inactive vehicle must not be quoted")
	}
}

func TestQuoteVehicles_UnpricedWhenNoRuleMatches(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-hourly", 0, func(r *domain.PricingRule) { r.RideType = domain.RideTypeHourly })

	quotes, err := f.quotes.QuoteVehicles(context.Background(), tenantID, domain.RideTypeFromAirport, pricing.QuoteInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, q := range quotes {
		if q.Quote.Priced() {
			t.Errorf("vehicle %s: expected unpriced quote, got rule %s", q.Vehicle.ID, q.Quote.RuleID)
		}
		if !q.Quote.Amount.IsZero() || q.Quote.Currency != pricing.DefaultCurrency {
			t.Errorf("vehicle %s: expected 0 %s, got %s %s", q.Vehicle.ID, pricing.DefaultCurrency, q.Quote.Amount, q.Quote.Currency)
		}
	}
}

func TestQuoteVehicles_ValidatesInput(t *testing.T) {
	t.Parallel()

	f := newFixture()

	if _, err := f.quotes.QuoteVehicles(context.Background(), "", domain.RideTypeHourly, pricing.QuoteInput{}); err != service.ErrInvalidTenantID {
		t.Errorf("expected ErrInvalidTenantID, got %v", err)
	}
	if _, err := f.quotes.QuoteVehicles(context.Background(), tenantID, "SHUTTLE", pricing.QuoteInput{}); err != service.ErrInvalidRideType {
		t.Errorf("expected ErrInvalidRideType, got %v", err)
	}
}

func TestQuoteVehicle_RejectsForeignAndInactiveVehicles(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)

	_, err := f.quotes.QuoteVehicle(context.Background(), otherID, sedanID, domain.RideTypeToAirport, pricing.QuoteInput{})
	if err != service.ErrVehicleNotInTenant {
		t.Errorf("expected ErrVehicleNotInTenant, got %v", err)
	}

	_, err = f.quotes.QuoteVehicle(context.Background(), tenantID, retiredID, domain.RideTypeToAirport, pricing.QuoteInput{})
	if err != service.ErrVehicleInactive {
		t.Errorf("expected ErrVehicleInactive, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 2. RULE CACHE
// ──────────────────────────────────────────────

func TestQuote_CacheMissLoadsAndStoresRules(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)

	for i := 0; i < 3; i++ {
		if _, err := f.quotes.QuoteVehicle(context.Background(), tenantID, sedanID, domain.RideTypeToAirport, pricing.QuoteInput{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if f.rules.ListActiveCallCount != 1 {
		t.Errorf("expected 1 database load, got %d", f.rules.ListActiveCallCount)
	}
	if f.cache.SetCallCount != 1 {
		t.Errorf("expected 1 cache write, got %d", f.cache.SetCallCount)
	}
	if !f.cache.Cached(tenantID) {
		t.Error("expected tenant rules to be cached")
	}
}

func TestQuote_CacheReadErrorFallsThroughToDatabase(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)
	f.cache.GetError = errors.New("redis down")

	vq, err := f.quotes.QuoteVehicle(context.Background(), tenantID, sedanID, domain.RideTypeToAirport, pricing.QuoteInput{})
	if err != nil {
		t.Fatalf("cache failure must not fail the quote: %v", err)
	}
	if vq.Quote.RuleID != "rule-all" {
		t.Errorf("expected rule-all, got %q", vq.Quote.RuleID)
	}
	if f.rules.ListActiveCallCount != 1 {
		t.Errorf("expected database fallback, got %d loads", f.rules.ListActiveCallCount)
	}
}

func TestQuote_CacheWriteErrorIsIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)
	f.cache.SetError = errors.New("redis down")

	if _, err := f.quotes.QuoteVehicle(context.Background(), tenantID, sedanID, domain.RideTypeToAirport, pricing.QuoteInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestQuote_RuleChangeInvalidatesCache(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-old", 0, nil)

	ctx := context.Background()
	first, err := f.quotes.QuoteVehicle(ctx, tenantID, sedanID, domain.RideTypeToAirport, pricing.QuoteInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created, err := f.ruleSvc.CreatePricingRule(ctx, tenantID, service.PricingRuleInput{
		VehicleID:    sedanID,
		RideType:     domain.RideTypeToAirport,
		PricingModel: domain.PricingModelFlatRate,
		BasePrice:    dec("140"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := f.quotes.QuoteVehicle(ctx, tenantID, sedanID, domain.RideTypeToAirport, pricing.QuoteInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Quote.RuleID != "rule-old" {
		t.Errorf("expected first quote from rule-old, got %s", first.Quote.RuleID)
	}
	if second.Quote.RuleID != created.ID || second.Quote.Amount.StringFixed(2) != "140.00" {
		t.Errorf("expected new vehicle rule at 140.00, got %s at %s", second.Quote.RuleID, second.Quote.Amount.StringFixed(2))
	}
}

func TestQuote_NewerRuleWinsWithinTier(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-a", 0, func(r *domain.PricingRule) { r.BasePrice = dec("90") })
	f.addRule("rule-b", time.Hour, func(r *domain.PricingRule) { r.BasePrice = dec("95") })

	vq, err := f.quotes.QuoteVehicle(context.Background(), tenantID, sedanID, domain.RideTypeToAirport, pricing.QuoteInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vq.Quote.RuleID != "rule-b" {
		t.Errorf("expected the newer rule-b, got %s", vq.Quote.RuleID)
	}
}
