package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"limo/internal/domain"
	"limo/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
	tenantService  *service.TenantService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService, tenantService *service.TenantService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		tenantService:  tenantService,
	}
}

// PaymentResponse is the HTTP response for payment operations.
type PaymentResponse struct {
	ID           string `json:"id"`
	BookingID    string `json:"booking_id"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret,omitempty"`
}

func toPaymentResponse(p *domain.Payment, withSecret bool) *PaymentResponse {
	if p == nil {
		return nil
	}
	resp := &PaymentResponse{
		ID:        p.ID,
		BookingID: p.BookingID,
		Amount:    money(p.Amount),
		Currency:  p.Currency,
		Status:    string(p.Status),
	}
	if withSecret {
		resp.ClientSecret = p.ClientSecret
	}
	return resp
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	tenantID, err := resolveTenantID(c, h.tenantService)
	if err != nil {
		respondError(c, err)
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment, false))
}
