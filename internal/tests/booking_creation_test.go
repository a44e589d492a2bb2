package tests

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"limo/internal/domain"
	"limo/internal/service"
)

// ──────────────────────────────────────────────
// 4. BOOKING CREATION
// ──────────────────────────────────────────────

func TestCreateBooking_ValidInput_Succeeds(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)

	resp, err := f.booking.CreateBooking(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := resp.Booking
	if b.Status != domain.BookingStatusPending {
		t.Errorf("expected status PENDING, got %s", b.Status)
	}
	if b.QuotedPrice.StringFixed(2) != "100.00" || b.Currency != "USD" {
		t.Errorf("expected 100.00 USD, got %s %s", b.QuotedPrice.StringFixed(2), b.Currency)
	}
	if b.PricingRuleID != "rule-all" {
		t.Errorf("expected pricing rule rule-all, got %s", b.PricingRuleID)
	}
	if f.bookings.GetBookingByID(b.ID) == nil {
		t.Error("booking was not persisted")
	}
	if resp.Customer == nil || b.UserID != resp.Customer.ID {
		t.Error("booking must reference its customer")
	}
	if resp.Payment == nil || resp.Payment.Status != domain.PaymentStatusPending || resp.Payment.ClientSecret == "" {
		t.Errorf("expected pending payment with client secret, got %+v", resp.Payment)
	}

	types := f.notifications()
	if len(types) != 1 || types[0] != service.NotificationBookingCreated {
		t.Errorf("expected one BOOKING_CREATED notification, got %v", types)
	}
}

func TestCreateBooking_DerivesMissingDistance(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-km", 0, func(r *domain.PricingRule) {
		r.PricingModel = domain.PricingModelPerKm
		r.BasePrice = dec("20")
		r.PerUnitPrice.Decimal, r.PerUnitPrice.Valid = dec("2"), true
	})

	req := validBookingRequest()
	req.DistanceMiles = 10
	req.DistanceKm = 0

	resp, err := f.booking.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := resp.Booking
	if !b.DistanceKm.Valid || b.DistanceKm.Decimal.String() != "16.0934" {
		t.Errorf("expected 16.0934 km, got %v", b.DistanceKm)
	}
	// 20 + 2 * 16.0934
	if b.QuotedPrice.StringFixed(2) != "52.19" {
		t.Errorf("expected 52.19, got %s", b.QuotedPrice.StringFixed(2))
	}
}

func TestCreateBooking_IgnoresClientPrice(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-hourly", 0, func(r *domain.PricingRule) {
		r.RideType = domain.RideTypeHourly
		r.PricingModel = domain.PricingModelHourly
		r.BasePrice = dec("0")
		r.PerUnitPrice.Decimal, r.PerUnitPrice.Valid = dec("80"), true
		r.MinimumHours.Decimal, r.MinimumHours.Valid = dec("3"), true
	})

	req := validBookingRequest()
	req.RideType = domain.RideTypeHourly
	req.DropoffLat, req.DropoffLng = nil, nil
	req.DurationHours = 2

	resp, err := f.booking.CreateBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Minimum of 3 hours billed.
	if resp.Booking.QuotedPrice.StringFixed(2) != "240.00" {
		t.Errorf("expected 240.00, got %s", resp.Booking.QuotedPrice.StringFixed(2))
	}
}

func TestCreateBooking_ValidationErrors(t *testing.T) {
	t.Parallel()

	badLat := 120.0

	testCases := []struct {
		name   string
		mutate func(*service.CreateBookingRequest)
		want   error
	}{
		{"missing tenant", func(r *service.CreateBookingRequest) { r.TenantID = "" }, service.ErrInvalidTenantID},
		{"missing vehicle", func(r *service.CreateBookingRequest) { r.VehicleID = "" }, service.ErrInvalidVehicleID},
		{"unknown ride type", func(r *service.CreateBookingRequest) { r.RideType = "SHUTTLE" }, service.ErrInvalidRideType},
		{"past pickup", func(r *service.CreateBookingRequest) { r.ScheduledAt = time.Now().Add(-time.Hour) }, service.ErrInvalidScheduledAt},
		{"bad email", func(r *service.CreateBookingRequest) { r.Customer.Email = "not-an-email" }, service.ErrInvalidCustomer},
		{"no pickup address", func(r *service.CreateBookingRequest) { r.PickupAddress = " " }, service.ErrInvalidPickupLocation},
		{"pickup latitude", func(r *service.CreateBookingRequest) { r.PickupLat = -91 }, service.ErrInvalidPickupLocation},
		{"pickup longitude", func(r *service.CreateBookingRequest) { r.PickupLng = 181 }, service.ErrInvalidPickupLocation},
		{"half a dropoff", func(r *service.CreateBookingRequest) { r.DropoffLng = nil }, service.ErrInvalidDropoffLocation},
		{"dropoff latitude", func(r *service.CreateBookingRequest) { r.DropoffLat = &badLat }, service.ErrInvalidDropoffLocation},
		{"airport without dropoff", func(r *service.CreateBookingRequest) { r.DropoffLat, r.DropoffLng = nil, nil }, service.ErrDropoffRequired},
		{"hourly without duration", func(r *service.CreateBookingRequest) { r.RideType = domain.RideTypeHourly }, service.ErrDurationRequired},
		{"unknown tenant", func(r *service.CreateBookingRequest) { r.TenantID = "tenant-missing" }, service.ErrTenantNotFound},
		{"foreign vehicle", func(r *service.CreateBookingRequest) { r.TenantID = otherID }, service.ErrVehicleNotInTenant},
		{"inactive vehicle", func(r *service.CreateBookingRequest) { r.VehicleID = retiredID }, service.ErrVehicleInactive},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.addRule("rule-all", 0, nil)
			req := validBookingRequest()
			tc.mutate(&req)

			_, err := f.booking.CreateBooking(context.Background(), req)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if f.bookings.CountBookings() != 0 {
				t.Error("rejected booking must not be persisted")
			}
		})
	}
}

func TestCreateBooking_UnpricedVehicleIsRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-hourly", 0, func(r *domain.PricingRule) { r.RideType = domain.RideTypeHourly })

	_, err := f.booking.CreateBooking(context.Background(), validBookingRequest())
	if err != service.ErrNoPricingRule {
		t.Errorf("expected ErrNoPricingRule, got %v", err)
	}
	if f.bookings.CountBookings() != 0 || f.payments.CountPayments() != 0 {
		t.Error("unpriced booking must not be persisted or charged")
	}
}

func TestCreateBooking_OutsideServiceArea(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		kind  domain.GeoRestrictionType
		value any
	}{
		{"pickup state", domain.GeoRestrictionState, map[string]any{"states": []string{"NJ"}}},
		// JFK is about 20 km from the midtown pickup.
		{"dropoff beyond radius", domain.GeoRestrictionRadius, map[string]any{"lat": 40.7484, "lng": -73.9857, "km": 5}},
		{"outside polygon", domain.GeoRestrictionPolygon, map[string]any{"coordinates": [][]float64{{-75, 39}, {-74.5, 39}, {-74.5, 39.5}, {-75, 39.5}}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.addRule("rule-all", 0, nil)

			raw, err := json.Marshal(tc.value)
			if err != nil {
				t.Fatal(err)
			}
			f.tenants.AddTenant(&domain.Tenant{
				ID:                    tenantID,
				Slug:                  "acme",
				Active:                true,
				GeoRestrictionEnabled: true,
				GeoRestrictionType:    tc.kind,
				GeoRestrictionValue:   raw,
			})

			_, err = f.booking.CreateBooking(context.Background(), validBookingRequest())
			if !errors.Is(err, service.ErrOutsideServiceArea) {
				t.Errorf("expected ErrOutsideServiceArea, got %v", err)
			}
			if f.bookings.CountBookings() != 0 {
				t.Error("rejected booking must not be persisted")
			}
		})
	}
}

func TestCreateBooking_InsideServiceArea(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)
	f.tenants.AddTenant(&domain.Tenant{
		ID:                    tenantID,
		Slug:                  "acme",
		Active:                true,
		GeoRestrictionEnabled: true,
		GeoRestrictionType:    domain.GeoRestrictionState,
		GeoRestrictionValue:   json.RawMessage(`{"states":["NY","NJ"]}`),
	})

	if _, err := f.booking.CreateBooking(context.Background(), validBookingRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateBooking_ReusesExistingCustomer(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)
	f.users.AddUser(&domain.User{ID: "user-1", Email: "ada@example.com", Role: domain.UserRoleEndUser})

	resp, err := f.booking.CreateBooking(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Booking.UserID != "user-1" {
		t.Errorf("expected booking for user-1, got %s", resp.Booking.UserID)
	}
	if f.users.CreateCallCount != 0 {
		t.Errorf("expected no new user, got %d creates", f.users.CreateCallCount)
	}
}

func TestCreateBooking_CustomerRegisteredConcurrently(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)
	f.users.AddUser(&domain.User{ID: "user-1", Email: "ada@example.com", Role: domain.UserRoleEndUser, IsGuest: true})
	f.users.EmailMisses = 1

	resp, err := f.booking.CreateBooking(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("losing the customer insert race must not fail the booking: %v", err)
	}

	if resp.Booking.UserID != "user-1" || resp.Customer.ID != "user-1" {
		t.Errorf("expected the concurrently created user-1, got %s", resp.Booking.UserID)
	}
	if f.users.CreateCallCount != 1 {
		t.Errorf("expected one attempted insert, got %d", f.users.CreateCallCount)
	}
	if f.users.CountUsers() != 1 {
		t.Errorf("expected 1 user, got %d", f.users.CountUsers())
	}
}

func TestCreateBooking_ConcurrentFirstBookingsShareCustomer(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.booking.CreateBooking(context.Background(), validBookingRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if f.users.CountUsers() != 1 {
		t.Errorf("expected one customer, got %d", f.users.CountUsers())
	}
	if f.bookings.CountBookings() != n {
		t.Errorf("expected %d bookings, got %d", n, f.bookings.CountBookings())
	}
}

func TestCreateBooking_CreatesGuestCustomer(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)

	resp, err := f.booking.CreateBooking(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := resp.Customer
	if !c.IsGuest || c.Role != domain.UserRoleEndUser {
		t.Errorf("expected guest END_USER, got guest=%v role=%s", c.IsGuest, c.Role)
	}
	if c.Email != "ada@example.com" {
		t.Errorf("expected lowercased email, got %s", c.Email)
	}
	if c.TenantID != tenantID {
		t.Errorf("expected guest in %s, got %s", tenantID, c.TenantID)
	}

	// A second booking by the same customer reuses the guest.
	if _, err := f.booking.CreateBooking(context.Background(), validBookingRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.users.CountUsers() != 1 {
		t.Errorf("expected 1 user, got %d", f.users.CountUsers())
	}
}

func TestCreateBooking_StorageFailureLeavesNoPayment(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRule("rule-all", 0, nil)
	f.bookings.CreateError = errors.New("disk full")

	_, err := f.booking.CreateBooking(context.Background(), validBookingRequest())
	if err == nil {
		t.Fatal("expected storage error")
	}
	if f.payments.CountPayments() != 0 {
		t.Error("no payment may be raised for an unsaved booking")
	}
}

func TestCreateBooking_PaymentFailureKeepsBooking(t *testing.T) {
	t.Parallel()

	psp := &FailingPSP{}
	f := newFixtureWithPSP(psp)
	f.addRule("rule-all", 0, nil)

	resp, err := f.booking.CreateBooking(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("payment failure must not fail the booking: %v", err)
	}

	if f.bookings.GetBookingByID(resp.Booking.ID) == nil {
		t.Error("booking must be kept")
	}
	if resp.Payment == nil || resp.Payment.Status != domain.PaymentStatusFailed {
		t.Errorf("expected FAILED payment, got %+v", resp.Payment)
	}

	types := f.notifications()
	if len(types) != 2 || types[1] != service.NotificationPaymentFailed {
		t.Errorf("expected BOOKING_CREATED then PAYMENT_FAILED, got %v", types)
	}
}

func TestCreateBooking_PaymentUsesMinorUnits(t *testing.T) {
	t.Parallel()

	psp := &RecordingPSP{}
	f := newFixtureWithPSP(psp)
	f.addRule("rule-all", 0, func(r *domain.PricingRule) { r.BasePrice = dec("123.45") })

	resp, err := f.booking.CreateBooking(context.Background(), validBookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(psp.Requests) != 1 {
		t.Fatalf("expected 1 intent request, got %d", len(psp.Requests))
	}
	got := psp.Requests[0]
	if got.AmountMinor != 12345 || got.Currency != "usd" {
		t.Errorf("expected 12345 usd, got %d %s", got.AmountMinor, got.Currency)
	}
	if got.Metadata["bookingId"] != resp.Booking.ID || got.Metadata["tenantId"] != tenantID {
		t.Errorf("unexpected metadata %v", got.Metadata)
	}
}
