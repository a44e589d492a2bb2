package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"limo/internal/domain"
	"limo/internal/pricing"
	"limo/internal/service"
)

// QuoteHandler handles HTTP requests for price quotes.
type QuoteHandler struct {
	quoteService  *service.QuoteService
	tenantService *service.TenantService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService *service.QuoteService, tenantService *service.TenantService) *QuoteHandler {
	return &QuoteHandler{
		quoteService:  quoteService,
		tenantService: tenantService,
	}
}

// QuoteRequest is the HTTP request body for quoting a trip.
type QuoteRequest struct {
	RideType      string  `json:"ride_type" binding:"required,ridetype"`
	DistanceMiles float64 `json:"distance_miles" binding:"gte=0"`
	DistanceKm    float64 `json:"distance_km" binding:"gte=0"`
	DurationHours float64 `json:"duration_hours" binding:"gte=0"`
}

// VehicleQuoteResponse is the price of one vehicle. Price is null when the
// tenant has no rule for the vehicle and ride type.
type VehicleQuoteResponse struct {
	VehicleID     string   `json:"vehicle_id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Capacity      int      `json:"capacity"`
	Amenities     []string `json:"amenities"`
	Price         *string  `json:"price"`
	Currency      string   `json:"currency"`
	PricingRuleID *string  `json:"pricing_rule_id"`
}

// QuoteResponse is the HTTP response for a quote.
type QuoteResponse struct {
	RideType string                 `json:"ride_type"`
	Quotes   []VehicleQuoteResponse `json:"quotes"`
}

// Quote handles POST /v1/quotes
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tenantID, err := resolveTenantID(c, h.tenantService)
	if err != nil {
		respondError(c, err)
		return
	}

	rideType := domain.RideType(req.RideType)
	quotes, err := h.quoteService.QuoteVehicles(c.Request.Context(), tenantID, rideType,
		pricing.NewQuoteInput(req.DistanceMiles, req.DistanceKm, req.DurationHours))
	if err != nil {
		respondError(c, err)
		return
	}

	response := QuoteResponse{
		RideType: req.RideType,
		Quotes:   make([]VehicleQuoteResponse, 0, len(quotes)),
	}
	for _, q := range quotes {
		item := VehicleQuoteResponse{
			VehicleID: q.Vehicle.ID,
			Name:      q.Vehicle.Name,
			Type:      string(q.Vehicle.Type),
			Capacity:  q.Vehicle.Capacity,
			Amenities: service.AmenityLabels(q.Vehicle.Amenities),
			Currency:  q.Quote.Currency,
		}
		if q.Quote.Priced() {
			price := money(q.Quote.Amount)
			ruleID := q.Quote.RuleID
			item.Price = &price
			item.PricingRuleID = &ruleID
		}
		response.Quotes = append(response.Quotes, item)
	}

	respondJSON(c, http.StatusOK, response)
}
