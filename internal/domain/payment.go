package domain

import "github.com/shopspring/decimal"

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Payment is a payment intent raised for a booking.
type Payment struct {
	ID             string
	BookingID      string
	TenantID       string
	Amount         decimal.Decimal
	Currency       string
	Status         PaymentStatus
	ProviderRef    string
	ClientSecret   string
	IdempotencyKey string
}
