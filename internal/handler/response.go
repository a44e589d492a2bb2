package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"limo/internal/repository"
	"limo/internal/service"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Internal errors are recorded on the context and hidden from the client.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// respondBindError sends a 400 for a request that failed binding.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
}

// money renders an amount with exactly two decimal places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// optionalMoney renders an optional amount, nil when absent.
func optionalMoney(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := money(d.Decimal)
	return &s
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrTenantNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTenantID),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidVehicle),
		errors.Is(err, service.ErrVehicleNotInTenant),
		errors.Is(err, service.ErrInvalidRideType),
		errors.Is(err, service.ErrInvalidPricingModel),
		errors.Is(err, service.ErrInvalidPricingRule),
		errors.Is(err, service.ErrInvalidRuleID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidCustomer),
		errors.Is(err, service.ErrInvalidScheduledAt),
		errors.Is(err, service.ErrInvalidPickupLocation),
		errors.Is(err, service.ErrInvalidDropoffLocation),
		errors.Is(err, service.ErrDropoffRequired),
		errors.Is(err, service.ErrDurationRequired),
		errors.Is(err, service.ErrInvalidFinalPrice),
		errors.Is(err, service.ErrInvalidPaymentAmount),
		errors.Is(err, service.ErrInvalidPaymentID),
		errors.Is(err, service.ErrInvalidDriver),
		errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrNotStaff):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrInvalidBookingTransition),
		errors.Is(err, service.ErrBookingLocked):
		return http.StatusConflict

	// Business rule errors
	case errors.Is(err, service.ErrOutsideServiceArea),
		errors.Is(err, service.ErrNoPricingRule),
		errors.Is(err, service.ErrVehicleInactive):
		return http.StatusUnprocessableEntity

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
