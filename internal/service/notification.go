package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"limo/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "BOOKING_CREATED"
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationRideStarted      NotificationType = "RIDE_STARTED"
	NotificationBookingCompleted NotificationType = "BOOKING_COMPLETED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationPaymentFailed    NotificationType = "PAYMENT_FAILED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	TenantID    string
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery. Delivery is a
// structured log line; mail and SMS senders plug in behind send.
type NotificationService struct {
	logger logrus.FieldLogger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger logrus.FieldLogger) *NotificationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &NotificationService{logger: logger}
}

// NotifyBookingCreated tells the customer their booking was received.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingCreated,
		TenantID:    booking.TenantID,
		RecipientID: booking.UserID,
		Title:       "Booking Received",
		Message: fmt.Sprintf("Your ride on %s has been received. Quoted price: %s %s",
			booking.ScheduledAt.Format(time.RFC1123), booking.QuotedPrice.StringFixed(2), booking.Currency),
		Data: map[string]interface{}{
			"booking_id":   booking.ID,
			"quoted_price": booking.QuotedPrice.StringFixed(2),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingConfirmed tells the customer the operator accepted the booking.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingConfirmed,
		TenantID:    booking.TenantID,
		RecipientID: booking.UserID,
		Title:       "Booking Confirmed",
		Message:     fmt.Sprintf("Your ride on %s is confirmed.", booking.ScheduledAt.Format(time.RFC1123)),
		Data: map[string]interface{}{
			"booking_id":   booking.ID,
			"scheduled_at": booking.ScheduledAt,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideStarted tells the customer the chauffeur has picked them up.
func (s *NotificationService) NotifyRideStarted(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideStarted,
		TenantID:    booking.TenantID,
		RecipientID: booking.UserID,
		Title:       "Ride Started",
		Message:     "Your ride has started. Enjoy your trip!",
		Data: map[string]interface{}{
			"booking_id": booking.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingCompleted sends the customer the final price.
func (s *NotificationService) NotifyBookingCompleted(ctx context.Context, booking *domain.Booking) error {
	final := booking.QuotedPrice
	if booking.FinalPrice.Valid {
		final = booking.FinalPrice.Decimal
	}

	return s.send(ctx, Notification{
		Type:        NotificationBookingCompleted,
		TenantID:    booking.TenantID,
		RecipientID: booking.UserID,
		Title:       "Ride Completed",
		Message:     fmt.Sprintf("Your ride has ended. Total: %s %s", final.StringFixed(2), booking.Currency),
		Data: map[string]interface{}{
			"booking_id":   booking.ID,
			"final_price":  final.StringFixed(2),
			"completed_at": booking.CompletedAt,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingCancelled tells the customer the booking was cancelled.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingCancelled,
		TenantID:    booking.TenantID,
		RecipientID: booking.UserID,
		Title:       "Booking Cancelled",
		Message:     "Your booking has been cancelled.",
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"reason":     booking.CancelReason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentFailed tells the customer the payment could not be prepared.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentFailed,
		TenantID:    booking.TenantID,
		RecipientID: booking.UserID,
		Title:       "Payment Failed",
		Message:     fmt.Sprintf("Payment of %s %s could not be processed. Please try again.", payment.Amount.StringFixed(2), payment.Currency),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"payment_id": payment.ID,
		},
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	s.logger.WithFields(logrus.Fields{
		"type":      notification.Type,
		"tenant_id": notification.TenantID,
		"recipient": notification.RecipientID,
		"title":     notification.Title,
	}).Info(notification.Message)

	return nil
}
