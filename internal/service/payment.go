package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"limo/internal/domain"
	"limo/internal/repository"
)

// PSP is the interface for a Payment Service Provider.
type PSP interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// IntentRequest asks the provider to prepare a payment.
type IntentRequest struct {
	AmountMinor    int64 // Amount in the currency's minor unit (cents).
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

// Intent is a provider-side payment awaiting customer confirmation.
type Intent struct {
	ID           string
	ClientSecret string
}

// MockPSP is a mock implementation of PSP for testing.
type MockPSP struct{}

// NewMockPSP creates a new mock PSP.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

// CreateIntent simulates intent creation. Always succeeds.
func (p *MockPSP) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	id := "pi_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	return &Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

// PaymentService handles payment operations.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	psp         PSP
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repository.PaymentRepository, psp PSP) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		psp:         psp,
	}
}

// CreateIntentRequest contains the parameters for a booking payment intent.
type CreateIntentRequest struct {
	BookingID string
	TenantID  string
	Amount    decimal.Decimal
	Currency  string
}

// CreateIntent raises a payment intent for a booking with idempotency
// support: repeated calls for the same booking return the first payment,
// including a FAILED one. The provider is never called twice per booking.
func (s *PaymentService) CreateIntent(ctx context.Context, req CreateIntentRequest) (*domain.Payment, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	if !req.Amount.IsPositive() {
		return nil, ErrInvalidPaymentAmount
	}

	// Generate idempotency key based on booking ID.
	idempotencyKey := fmt.Sprintf("payment:booking:%s", req.BookingID)

	existingPayment, err := s.paymentRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}

	if existingPayment != nil {
		return existingPayment, nil
	}

	payment := &domain.Payment{
		ID:             uuid.New().String(),
		BookingID:      req.BookingID,
		TenantID:       req.TenantID,
		Amount:         req.Amount.Round(2),
		Currency:       strings.ToUpper(req.Currency),
		Status:         domain.PaymentStatusPending,
		IdempotencyKey: idempotencyKey,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		// A concurrent request won the insert; return its payment.
		if errors.Is(err, repository.ErrConflict) {
			return s.paymentRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		}
		return nil, err
	}

	intent, err := s.psp.CreateIntent(ctx, IntentRequest{
		AmountMinor:    MinorUnits(payment.Amount),
		Currency:       strings.ToLower(payment.Currency),
		IdempotencyKey: idempotencyKey,
		Metadata: map[string]string{
			"bookingId": req.BookingID,
			"tenantId":  req.TenantID,
		},
	})
	if err != nil {
		// PSP error - mark as failed.
		_ = s.paymentRepo.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed, "")
		payment.Status = domain.PaymentStatusFailed
		return payment, nil
	}

	if err := s.paymentRepo.AttachIntent(ctx, payment.ID, intent.ID, intent.ClientSecret); err != nil {
		return nil, err
	}
	payment.ProviderRef = intent.ID
	payment.ClientSecret = intent.ClientSecret

	return payment, nil
}

// GetPayment retrieves a payment of a tenant. Payments of other tenants
// are reported as not found.
func (s *PaymentService) GetPayment(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}
	return s.paymentRepo.GetByID(ctx, tenantID, paymentID)
}

// MinorUnits converts an amount to the currency's minor unit, rounding
// half away from zero (12.345 -> 1235).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
