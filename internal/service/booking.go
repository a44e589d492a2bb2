package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"limo/internal/domain"
	"limo/internal/geo"
	"limo/internal/pricing"
	"limo/internal/redis"
	"limo/internal/repository"
)

const bookingLockTTL = 10 * time.Second

var kmPerMile = decimal.RequireFromString("1.609344")

// BookingService handles the booking lifecycle.
type BookingService struct {
	tenantRepo          repository.TenantRepository
	bookingRepo         repository.BookingRepository
	driverRepo          repository.DriverRepository
	txManager           repository.TxManager
	lockStore           redis.LockStoreInterface
	quoteService        *QuoteService
	paymentService      *PaymentService
	notificationService *NotificationService
	logger              logrus.FieldLogger
	now                 func() time.Time
}

// NewBookingService creates a new BookingService. lockStore may be nil.
func NewBookingService(
	tenantRepo repository.TenantRepository,
	bookingRepo repository.BookingRepository,
	driverRepo repository.DriverRepository,
	txManager repository.TxManager,
	lockStore redis.LockStoreInterface,
	quoteService *QuoteService,
	paymentService *PaymentService,
	notificationService *NotificationService,
	logger logrus.FieldLogger,
) *BookingService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BookingService{
		tenantRepo:          tenantRepo,
		bookingRepo:         bookingRepo,
		driverRepo:          driverRepo,
		txManager:           txManager,
		lockStore:           lockStore,
		quoteService:        quoteService,
		paymentService:      paymentService,
		notificationService: notificationService,
		logger:              logger,
		now:                 time.Now,
	}
}

// Customer identifies the person booking. Unknown emails become guest users.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	TenantID       string
	VehicleID      string
	RideType       domain.RideType
	ScheduledAt    time.Time
	PickupAddress  string
	PickupLat      float64
	PickupLng      float64
	PickupState    string // Two-letter region code, used by state restrictions.
	DropoffAddress string
	DropoffLat     *float64
	DropoffLng     *float64
	DropoffState   string
	DistanceKm     float64
	DistanceMiles  float64
	DurationHours  float64
	Customer       Customer
	Notes          string
}

// CreateBookingResponse contains the result of creating a booking.
type CreateBookingResponse struct {
	Booking  *domain.Booking
	Customer *domain.User
	Payment  *domain.Payment // Nil when the payment intent could not be raised.
}

// CreateBooking prices the trip server-side, stores a PENDING booking for
// the customer and raises a payment intent for the quoted amount.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	restriction := geo.FromTenant(tenant)
	if !restriction.Allows(geo.Point{Lat: req.PickupLat, Lng: req.PickupLng}, req.PickupState) {
		return nil, fmt.Errorf("%w: pickup", ErrOutsideServiceArea)
	}
	if req.DropoffLat != nil && req.DropoffLng != nil {
		if !restriction.Allows(geo.Point{Lat: *req.DropoffLat, Lng: *req.DropoffLng}, req.DropoffState) {
			return nil, fmt.Errorf("%w: dropoff", ErrOutsideServiceArea)
		}
	}

	input := tripMetrics(req)
	vq, err := s.quoteService.QuoteVehicle(ctx, req.TenantID, req.VehicleID, req.RideType, input)
	if err != nil {
		return nil, err
	}
	if !vq.Quote.Priced() {
		return nil, ErrNoPricingRule
	}

	now := s.now()
	booking := &domain.Booking{
		ID:             uuid.New().String(),
		TenantID:       req.TenantID,
		VehicleID:      req.VehicleID,
		RideType:       req.RideType,
		Status:         domain.BookingStatusPending,
		ScheduledAt:    req.ScheduledAt,
		PickupAddress:  strings.TrimSpace(req.PickupAddress),
		PickupLat:      req.PickupLat,
		PickupLng:      req.PickupLng,
		DropoffAddress: strings.TrimSpace(req.DropoffAddress),
		DropoffLat:     req.DropoffLat,
		DropoffLng:     req.DropoffLng,
		DistanceKm:     optionalMetric(input.DistanceKm),
		DistanceMiles:  optionalMetric(input.DistanceMiles),
		DurationHours:  optionalMetric(input.DurationHours),
		QuotedPrice:    vq.Quote.Amount,
		Currency:       vq.Quote.Currency,
		PricingRuleID:  vq.Quote.RuleID,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var customer *domain.User
	err = s.txManager.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		customer, err = findOrCreateCustomer(ctx, repos.Users, req.TenantID, req.Customer, now)
		if err != nil {
			return err
		}

		booking.UserID = customer.ID
		return repos.Bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	resp := &CreateBookingResponse{Booking: booking, Customer: customer}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCreated(ctx, booking)
	}

	if s.paymentService != nil {
		payment, err := s.paymentService.CreateIntent(ctx, CreateIntentRequest{
			BookingID: booking.ID,
			TenantID:  booking.TenantID,
			Amount:    booking.QuotedPrice,
			Currency:  booking.Currency,
		})
		switch {
		case err != nil:
			// The booking stands. Intents are not retried, so the booking is
			// left without a payment for the operator to settle.
			s.logger.WithError(err).WithField("booking_id", booking.ID).Error("payment intent failed")
		case payment.Status == domain.PaymentStatusFailed && s.notificationService != nil:
			_ = s.notificationService.NotifyPaymentFailed(ctx, booking, payment)
			resp.Payment = payment
		default:
			resp.Payment = payment
		}
	}

	return resp, nil
}

func findOrCreateCustomer(ctx context.Context, users repository.UserRepository, tenantID string, c Customer, now time.Time) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(c.Email))

	user, err := users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &domain.User{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Email:     email,
		Phone:     strings.TrimSpace(c.Phone),
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Role:      domain.UserRoleEndUser,
		IsGuest:   true,
		CreatedAt: now,
	}
	if err := users.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		// A concurrent booking registered the same email first.
		return users.GetByEmail(ctx, email)
	}

	return user, nil
}

// tripMetrics builds the pricing input, deriving miles from kilometres
// (or the reverse) when the caller supplied only one of them.
func tripMetrics(req CreateBookingRequest) pricing.QuoteInput {
	input := pricing.NewQuoteInput(req.DistanceMiles, req.DistanceKm, req.DurationHours)

	switch {
	case input.DistanceMiles.IsZero() && input.DistanceKm.IsPositive():
		input.DistanceMiles = input.DistanceKm.Div(kmPerMile).Round(4)
	case input.DistanceKm.IsZero() && input.DistanceMiles.IsPositive():
		input.DistanceKm = input.DistanceMiles.Mul(kmPerMile).Round(4)
	}

	return input
}

func optionalMetric(d decimal.Decimal) decimal.NullDecimal {
	if d.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// validateCreateRequest validates the create booking request.
func (s *BookingService) validateCreateRequest(req CreateBookingRequest) error {
	if req.TenantID == "" {
		return ErrInvalidTenantID
	}

	if req.VehicleID == "" {
		return ErrInvalidVehicleID
	}

	if !req.RideType.Valid() {
		return ErrInvalidRideType
	}

	if req.ScheduledAt.IsZero() || req.ScheduledAt.Before(s.now()) {
		return ErrInvalidScheduledAt
	}

	if _, err := mail.ParseAddress(strings.TrimSpace(req.Customer.Email)); err != nil {
		return fmt.Errorf("%w: email", ErrInvalidCustomer)
	}

	if strings.TrimSpace(req.PickupAddress) == "" ||
		!isValidLatitude(req.PickupLat) || !isValidLongitude(req.PickupLng) {
		return ErrInvalidPickupLocation
	}

	hasDropoff := req.DropoffLat != nil || req.DropoffLng != nil
	if hasDropoff {
		if req.DropoffLat == nil || req.DropoffLng == nil ||
			!isValidLatitude(*req.DropoffLat) || !isValidLongitude(*req.DropoffLng) {
			return ErrInvalidDropoffLocation
		}
	}

	switch req.RideType {
	case domain.RideTypeToAirport, domain.RideTypeFromAirport:
		if !hasDropoff {
			return ErrDropoffRequired
		}
	case domain.RideTypeHourly:
		if !(req.DurationHours > 0) {
			return ErrDurationRequired
		}
	}

	return nil
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// GetBooking retrieves a booking of a tenant. Bookings of other tenants
// are reported as not found.
func (s *BookingService) GetBooking(ctx context.Context, tenantID, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if tenantID != "" && booking.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}

	return booking, nil
}

const (
	defaultBookingPageSize = 20
	maxBookingPageSize     = 100
)

// BookingList is one page of bookings plus totals for the whole filter.
type BookingList struct {
	Bookings []*repository.BookingRow
	Total    int
	Counts   map[domain.BookingStatus]int // Per status, ignoring the status filter.
}

// ListBookings retrieves a page of a tenant's bookings with per-status counts.
func (s *BookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) (*BookingList, error) {
	if filter.TenantID == "" {
		return nil, ErrInvalidTenantID
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultBookingPageSize
	}
	if filter.Limit > maxBookingPageSize {
		filter.Limit = maxBookingPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	rows, total, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	counts, err := s.bookingRepo.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, status := range domain.AllBookingStatuses {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}

	if rows == nil {
		rows = []*repository.BookingRow{}
	}

	return &BookingList{Bookings: rows, Total: total, Counts: counts}, nil
}

// ConfirmBooking accepts a pending booking.
func (s *BookingService) ConfirmBooking(ctx context.Context, tenantID, bookingID string) (*domain.Booking, error) {
	booking, err := s.transition(ctx, tenantID, bookingID, domain.BookingStatusConfirmed, nil)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingConfirmed(ctx, booking)
	}
	return booking, nil
}

// StartBooking marks a confirmed booking as in progress. A non-empty
// driverID must name a DRIVER of the tenant.
func (s *BookingService) StartBooking(ctx context.Context, tenantID, bookingID, driverID string) (*domain.Booking, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID != "" {
		if err := requireDriver(ctx, s.driverRepo, tenantID, driverID); err != nil {
			return nil, err
		}
	}

	booking, err := s.transition(ctx, tenantID, bookingID, domain.BookingStatusInProgress, func(b *domain.Booking) error {
		if driverID != "" {
			b.DriverID = driverID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideStarted(ctx, booking)
	}
	return booking, nil
}

// CompleteBooking closes an in-progress booking. A nil finalPrice charges
// the quoted price.
func (s *BookingService) CompleteBooking(ctx context.Context, tenantID, bookingID string, finalPrice *decimal.Decimal) (*domain.Booking, error) {
	if finalPrice != nil && finalPrice.IsNegative() {
		return nil, ErrInvalidFinalPrice
	}

	booking, err := s.transition(ctx, tenantID, bookingID, domain.BookingStatusCompleted, func(b *domain.Booking) error {
		price := b.QuotedPrice
		if finalPrice != nil {
			price = finalPrice.Round(2)
		}
		b.FinalPrice = decimal.NewNullDecimal(price)
		b.CompletedAt = b.UpdatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCompleted(ctx, booking)
	}
	return booking, nil
}

// CancelBooking cancels a booking that has not started.
func (s *BookingService) CancelBooking(ctx context.Context, tenantID, bookingID, reason string) (*domain.Booking, error) {
	booking, err := s.transition(ctx, tenantID, bookingID, domain.BookingStatusCancelled, func(b *domain.Booking) error {
		b.CancelReason = strings.TrimSpace(reason)
		b.CancelledAt = b.UpdatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCancelled(ctx, booking)
	}
	return booking, nil
}

// transition moves a booking to next under the per-booking lock.
func (s *BookingService) transition(ctx context.Context, tenantID, bookingID string, next domain.BookingStatus, mutate func(*domain.Booking) error) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	if s.lockStore != nil {
		token, locked, err := s.lockStore.AcquireBookingLock(ctx, bookingID, bookingLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrBookingLocked
		}
		defer func() {
			if err := s.lockStore.ReleaseBookingLock(ctx, bookingID, token); err != nil {
				s.logger.WithError(err).WithField("booking_id", bookingID).Warn("booking lock release failed")
			}
		}()
	}

	booking, err := s.GetBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidBookingTransition, booking.Status, next)
	}

	booking.Status = next
	booking.UpdatedAt = s.now()
	if mutate != nil {
		if err := mutate(booking); err != nil {
			return nil, err
		}
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}
