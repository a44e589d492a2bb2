package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"limo/internal/domain"
	"limo/internal/repository"
	"limo/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
	tenantService  *service.TenantService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, tenantService *service.TenantService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		tenantService:  tenantService,
	}
}

// CustomerRequest identifies the person booking.
type CustomerRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"max=32"`
}

// CreateBookingRequest is the HTTP request body for creating a booking.
// The price is always computed server-side.
type CreateBookingRequest struct {
	VehicleID      string          `json:"vehicle_id" binding:"required"`
	RideType       string          `json:"ride_type" binding:"required,ridetype"`
	ScheduledAt    time.Time       `json:"scheduled_at" binding:"required"`
	PickupAddress  string          `json:"pickup_address" binding:"required,max=300"`
	PickupLat      float64         `json:"pickup_lat" binding:"latitude"`
	PickupLng      float64         `json:"pickup_lng" binding:"longitude"`
	PickupState    string          `json:"pickup_state" binding:"omitempty,len=2,alpha"`
	DropoffAddress string          `json:"dropoff_address" binding:"max=300"`
	DropoffLat     *float64        `json:"dropoff_lat" binding:"omitempty,latitude"`
	DropoffLng     *float64        `json:"dropoff_lng" binding:"omitempty,longitude"`
	DropoffState   string          `json:"dropoff_state" binding:"omitempty,len=2,alpha"`
	DistanceKm     float64         `json:"distance_km" binding:"gte=0"`
	DistanceMiles  float64         `json:"distance_miles" binding:"gte=0"`
	DurationHours  float64         `json:"duration_hours" binding:"gte=0"`
	Customer       CustomerRequest `json:"customer" binding:"required"`
	Notes          string          `json:"notes" binding:"max=1000"`
}

// BookingResponse is the HTTP response for a booking.
type BookingResponse struct {
	ID             string   `json:"id"`
	Status         string   `json:"status"`
	RideType       string   `json:"ride_type"`
	VehicleID      string   `json:"vehicle_id"`
	UserID         string   `json:"user_id"`
	DriverID       string   `json:"driver_id,omitempty"`
	ScheduledAt    string   `json:"scheduled_at"`
	PickupAddress  string   `json:"pickup_address"`
	PickupLat      float64  `json:"pickup_lat"`
	PickupLng      float64  `json:"pickup_lng"`
	DropoffAddress string   `json:"dropoff_address,omitempty"`
	DropoffLat     *float64 `json:"dropoff_lat,omitempty"`
	DropoffLng     *float64 `json:"dropoff_lng,omitempty"`
	DistanceKm     *string  `json:"distance_km,omitempty"`
	DistanceMiles  *string  `json:"distance_miles,omitempty"`
	DurationHours  *string  `json:"duration_hours,omitempty"`
	QuotedPrice    string   `json:"quoted_price"`
	FinalPrice     *string  `json:"final_price"`
	Currency       string   `json:"currency"`
	PricingRuleID  string   `json:"pricing_rule_id,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	CancelReason   string   `json:"cancel_reason,omitempty"`
	CreatedAt      string   `json:"created_at"`
	CompletedAt    string   `json:"completed_at,omitempty"`
	CancelledAt    string   `json:"cancelled_at,omitempty"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:             b.ID,
		Status:         string(b.Status),
		RideType:       string(b.RideType),
		VehicleID:      b.VehicleID,
		UserID:         b.UserID,
		DriverID:       b.DriverID,
		ScheduledAt:    b.ScheduledAt.Format(timeLayout),
		PickupAddress:  b.PickupAddress,
		PickupLat:      b.PickupLat,
		PickupLng:      b.PickupLng,
		DropoffAddress: b.DropoffAddress,
		DropoffLat:     b.DropoffLat,
		DropoffLng:     b.DropoffLng,
		DistanceKm:     optionalNumber(b.DistanceKm),
		DistanceMiles:  optionalNumber(b.DistanceMiles),
		DurationHours:  optionalNumber(b.DurationHours),
		QuotedPrice:    money(b.QuotedPrice),
		FinalPrice:     optionalMoney(b.FinalPrice),
		Currency:       b.Currency,
		PricingRuleID:  b.PricingRuleID,
		Notes:          b.Notes,
		CancelReason:   b.CancelReason,
		CreatedAt:      b.CreatedAt.Format(timeLayout),
	}
	if !b.CompletedAt.IsZero() {
		resp.CompletedAt = b.CompletedAt.Format(timeLayout)
	}
	if !b.CancelledAt.IsZero() {
		resp.CancelledAt = b.CancelledAt.Format(timeLayout)
	}
	return resp
}

func optionalNumber(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

// CreateBookingResponse is the HTTP response for creating a booking.
type CreateBookingResponse struct {
	Booking BookingResponse  `json:"booking"`
	Payment *PaymentResponse `json:"payment"`
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tenantID, err := resolveTenantID(c, h.tenantService)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		TenantID:       tenantID,
		VehicleID:      req.VehicleID,
		RideType:       domain.RideType(req.RideType),
		ScheduledAt:    req.ScheduledAt,
		PickupAddress:  req.PickupAddress,
		PickupLat:      req.PickupLat,
		PickupLng:      req.PickupLng,
		PickupState:    strings.ToUpper(req.PickupState),
		DropoffAddress: req.DropoffAddress,
		DropoffLat:     req.DropoffLat,
		DropoffLng:     req.DropoffLng,
		DropoffState:   strings.ToUpper(req.DropoffState),
		DistanceKm:     req.DistanceKm,
		DistanceMiles:  req.DistanceMiles,
		DurationHours:  req.DurationHours,
		Customer: service.Customer{
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
		},
		Notes: req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CreateBookingResponse{
		Booking: toBookingResponse(result.Booking),
		Payment: toPaymentResponse(result.Payment, true),
	})
}

// Get handles GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	tenantID, err := resolveTenantID(c, h.tenantService)
	if err != nil {
		respondError(c, err)
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// ListBookingsQuery holds the query parameters of the admin booking list.
type ListBookingsQuery struct {
	Status string    `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
	Range  string    `form:"range" binding:"omitempty,oneof=all today week month"`
	From   time.Time `form:"from" time_format:"2006-01-02"`
	To     time.Time `form:"to" time_format:"2006-01-02"`
	Search string    `form:"q" binding:"max=100"`
	Limit  int       `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int       `form:"offset" binding:"omitempty,min=0"`
}

// BookingRowResponse is one row of the admin booking list.
type BookingRowResponse struct {
	BookingResponse
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	VehicleName   string `json:"vehicle_name"`
	VehicleType   string `json:"vehicle_type"`
}

// ListBookingsResponse is the HTTP response for the admin booking list.
type ListBookingsResponse struct {
	Bookings []BookingRowResponse `json:"bookings"`
	Total    int                  `json:"total"`
	Counts   map[string]int       `json:"counts"`
}

// List handles GET /v1/admin/:tenantId/bookings
func (h *BookingHandler) List(c *gin.Context) {
	var q ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	filter := repository.BookingFilter{
		TenantID: c.Param("tenantId"),
		Status:   domain.BookingStatus(q.Status),
		From:     q.From,
		To:       q.To,
		Search:   q.Search,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.Range != "" {
		from, to, err := service.DateRange(q.Range).Bounds(time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		filter.From, filter.To = from, to
	} else if !q.To.IsZero() {
		// "to" names a day; include all of it.
		filter.To = q.To.AddDate(0, 0, 1)
	}

	list, err := h.bookingService.ListBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := ListBookingsResponse{
		Bookings: make([]BookingRowResponse, 0, len(list.Bookings)),
		Total:    list.Total,
		Counts:   make(map[string]int, len(list.Counts)),
	}
	for _, row := range list.Bookings {
		response.Bookings = append(response.Bookings, BookingRowResponse{
			BookingResponse: toBookingResponse(row.Booking),
			CustomerName:    strings.TrimSpace(row.CustomerFirst + " " + row.CustomerLast),
			CustomerEmail:   row.CustomerEmail,
			CustomerPhone:   row.CustomerPhone,
			VehicleName:     row.VehicleName,
			VehicleType:     string(row.VehicleType),
		})
	}
	for status, n := range list.Counts {
		response.Counts[string(status)] = n
	}

	respondJSON(c, http.StatusOK, response)
}

// Confirm handles POST /v1/admin/:tenantId/bookings/:id/confirm
func (h *BookingHandler) Confirm(c *gin.Context) {
	booking, err := h.bookingService.ConfirmBooking(c.Request.Context(), c.Param("tenantId"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// StartBookingRequest is the HTTP request body for starting a ride.
type StartBookingRequest struct {
	DriverID string `json:"driver_id,omitempty"`
}

// Start handles POST /v1/admin/:tenantId/bookings/:id/start
func (h *BookingHandler) Start(c *gin.Context) {
	var req StartBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	booking, err := h.bookingService.StartBooking(c.Request.Context(), c.Param("tenantId"), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// CompleteBookingRequest is the HTTP request body for completing a ride.
// FinalPrice defaults to the quoted price.
type CompleteBookingRequest struct {
	FinalPrice *decimal.Decimal `json:"final_price,omitempty"`
}

// Complete handles POST /v1/admin/:tenantId/bookings/:id/complete
func (h *BookingHandler) Complete(c *gin.Context) {
	var req CompleteBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	booking, err := h.bookingService.CompleteBooking(c.Request.Context(), c.Param("tenantId"), c.Param("id"), req.FinalPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// CancelBookingRequest is the HTTP request body for cancelling a booking.
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty" binding:"max=500"`
}

// Cancel handles POST /v1/admin/:tenantId/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("tenantId"), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}
