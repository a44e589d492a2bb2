package tests

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"limo/internal/domain"
	"limo/internal/service"
)

const (
	tenantID  = "tenant-1"
	otherID   = "tenant-2"
	sedanID   = "vehicle-sedan"
	suvID     = "vehicle-suv"
	retiredID = "vehicle-retired"
	driverID  = "driver-7"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fixture wires every service against in-memory mocks.
type fixture struct {
	tenants  *MockTenantRepository
	vehicles *MockVehicleRepository
	rules    *MockPricingRuleRepository
	users    *MockUserRepository
	bookings *MockBookingRepository
	drivers  *MockDriverRepository
	payments *MockPaymentRepository
	tx       *MockTxManager
	cache    *MockRuleCache
	locks    *MockLockStore
	logs     *logtest.Hook

	quotes  *service.QuoteService
	ruleSvc *service.PricingRuleService
	payment *service.PaymentService
	booking *service.BookingService
}

func newFixture() *fixture {
	return newFixtureWithPSP(service.NewMockPSP())
}

func newFixtureWithPSP(psp service.PSP) *fixture {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &fixture{
		tenants:  NewMockTenantRepository(),
		vehicles: NewMockVehicleRepository(),
		rules:    NewMockPricingRuleRepository(),
		users:    NewMockUserRepository(),
		bookings: NewMockBookingRepository(),
		drivers:  NewMockDriverRepository(),
		payments: NewMockPaymentRepository(),
		cache:    NewMockRuleCache(),
		locks:    NewMockLockStore(),
		logs:     hook,
	}
	f.tx = NewMockTxManager(f.users, f.bookings)

	f.tenants.AddTenant(&domain.Tenant{ID: tenantID, Slug: "acme", Name: "Acme Limo", Active: true, CreatedAt: epoch})
	f.tenants.AddTenant(&domain.Tenant{ID: otherID, Slug: "other", Name: "Other Cars", Active: true, CreatedAt: epoch.Add(time.Hour)})

	f.vehicles.AddVehicle(&domain.Vehicle{ID: sedanID, TenantID: tenantID, Name: "Town Car", Type: domain.VehicleTypeSedan, Capacity: 3, Active: true, CreatedAt: epoch})
	f.vehicles.AddVehicle(&domain.Vehicle{ID: suvID, TenantID: tenantID, Name: "Escalade", Type: domain.VehicleTypeSUV, Capacity: 6, Active: true, CreatedAt: epoch.Add(time.Minute)})
	f.vehicles.AddVehicle(&domain.Vehicle{ID: retiredID, TenantID: tenantID, Name: "Old Limo", Type: domain.VehicleTypeStretchLimo, Capacity: 8, Active: false, CreatedAt: epoch})

	f.drivers.AddDriver(&domain.Driver{ID: driverID, TenantID: tenantID, FirstName: "Sam", LastName: "Ride", Email: "sam@acme.example", Status: domain.DriverStatusAvailable})
	f.drivers.AddDriver(&domain.Driver{ID: "driver-other", TenantID: otherID, FirstName: "Olga", Email: "olga@other.example", Status: domain.DriverStatusAvailable})

	f.quotes = service.NewQuoteService(f.vehicles, f.rules, f.cache, logger)
	f.ruleSvc = service.NewPricingRuleService(f.rules, f.vehicles, f.cache, "USD", logger)
	f.payment = service.NewPaymentService(f.payments, psp)
	f.booking = service.NewBookingService(
		f.tenants, f.bookings, f.drivers, f.tx, f.locks,
		f.quotes, f.payment, service.NewNotificationService(logger), logger,
	)
	return f
}

// addRule stores an active rule created at epoch plus offset.
func (f *fixture) addRule(id string, offset time.Duration, mutate func(*domain.PricingRule)) *domain.PricingRule {
	rule := &domain.PricingRule{
		ID:           id,
		TenantID:     tenantID,
		RideType:     domain.RideTypeToAirport,
		PricingModel: domain.PricingModelFlatRate,
		BasePrice:    decimal.NewFromInt(100),
		Currency:     "USD",
		Active:       true,
		CreatedAt:    epoch.Add(offset),
		UpdatedAt:    epoch.Add(offset),
	}
	if mutate != nil {
		mutate(rule)
	}
	f.rules.AddRule(rule)
	return rule
}

// notifications returns the notification types logged so far, in order.
func (f *fixture) notifications() []service.NotificationType {
	var types []service.NotificationType
	for _, entry := range f.logs.AllEntries() {
		if t, ok := entry.Data["type"].(service.NotificationType); ok {
			types = append(types, t)
		}
	}
	return types
}

func validBookingRequest() service.CreateBookingRequest {
	dropLat, dropLng := 40.6413, -73.7781
	return service.CreateBookingRequest{
		TenantID:       tenantID,
		VehicleID:      sedanID,
		RideType:       domain.RideTypeToAirport,
		ScheduledAt:    time.Now().Add(48 * time.Hour),
		PickupAddress:  "350 5th Ave, New York, NY",
		PickupLat:      40.7484,
		PickupLng:      -73.9857,
		PickupState:    "NY",
		DropoffAddress: "JFK Airport",
		DropoffLat:     &dropLat,
		DropoffLng:     &dropLng,
		DropoffState:   "NY",
		DistanceMiles:  17,
		Customer: service.Customer{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "Ada@Example.com",
			Phone:     "+15550100",
		},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
