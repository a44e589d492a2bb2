package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"limo/internal/domain"
	"limo/internal/service"
)

// PricingRuleHandler handles HTTP requests for a tenant's pricing rules.
type PricingRuleHandler struct {
	ruleService *service.PricingRuleService
}

// NewPricingRuleHandler creates a new PricingRuleHandler.
func NewPricingRuleHandler(ruleService *service.PricingRuleService) *PricingRuleHandler {
	return &PricingRuleHandler{ruleService: ruleService}
}

// PricingRuleRequest is the HTTP request body for creating or updating a
// rule. Prices accept JSON numbers or decimal strings.
type PricingRuleRequest struct {
	VehicleID    string              `json:"vehicle_id,omitempty"`
	VehicleType  string              `json:"vehicle_type,omitempty" binding:"omitempty,vehicletype"`
	RideType     string              `json:"ride_type" binding:"required,ridetype"`
	PricingModel string              `json:"pricing_model" binding:"required,pricingmodel"`
	BasePrice    *decimal.Decimal    `json:"base_price" binding:"required"`
	PerUnitPrice decimal.NullDecimal `json:"per_unit_price"`
	MinimumHours decimal.NullDecimal `json:"minimum_hours"`
	Currency     string              `json:"currency,omitempty" binding:"omitempty,currency"`
	Active       *bool               `json:"active,omitempty"`
}

func (r PricingRuleRequest) toInput() service.PricingRuleInput {
	return service.PricingRuleInput{
		VehicleID:    r.VehicleID,
		VehicleType:  domain.VehicleType(r.VehicleType),
		RideType:     domain.RideType(r.RideType),
		PricingModel: domain.PricingModel(r.PricingModel),
		BasePrice:    *r.BasePrice,
		PerUnitPrice: r.PerUnitPrice,
		MinimumHours: r.MinimumHours,
		Currency:     r.Currency,
	}
}

// PricingRuleResponse is the HTTP response for a pricing rule.
type PricingRuleResponse struct {
	ID           string  `json:"id"`
	VehicleID    *string `json:"vehicle_id"`
	VehicleType  *string `json:"vehicle_type"`
	RideType     string  `json:"ride_type"`
	PricingModel string  `json:"pricing_model"`
	BasePrice    string  `json:"base_price"`
	PerUnitPrice *string `json:"per_unit_price"`
	MinimumHours *string `json:"minimum_hours"`
	Currency     string  `json:"currency"`
	Active       bool    `json:"active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toPricingRuleResponse(r *domain.PricingRule) PricingRuleResponse {
	resp := PricingRuleResponse{
		ID:           r.ID,
		RideType:     string(r.RideType),
		PricingModel: string(r.PricingModel),
		BasePrice:    money(r.BasePrice),
		PerUnitPrice: optionalMoney(r.PerUnitPrice),
		Currency:     r.Currency,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt.Format(timeLayout),
		UpdatedAt:    r.UpdatedAt.Format(timeLayout),
	}
	if r.VehicleID != "" {
		id := r.VehicleID
		resp.VehicleID = &id
	}
	if r.VehicleType != "" {
		vt := string(r.VehicleType)
		resp.VehicleType = &vt
	}
	if r.MinimumHours.Valid {
		h := r.MinimumHours.Decimal.String()
		resp.MinimumHours = &h
	}
	return resp
}

// List handles GET /v1/admin/:tenantId/pricing-rules
func (h *PricingRuleHandler) List(c *gin.Context) {
	rules, err := h.ruleService.ListPricingRules(c.Request.Context(), c.Param("tenantId"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PricingRuleResponse, 0, len(rules))
	for _, r := range rules {
		response = append(response, toPricingRuleResponse(r))
	}

	respondJSON(c, http.StatusOK, response)
}

// Create handles POST /v1/admin/:tenantId/pricing-rules
func (h *PricingRuleHandler) Create(c *gin.Context) {
	var req PricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rule, err := h.ruleService.CreatePricingRule(c.Request.Context(), c.Param("tenantId"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPricingRuleResponse(rule))
}

// Update handles PUT /v1/admin/:tenantId/pricing-rules/:id
func (h *PricingRuleHandler) Update(c *gin.Context) {
	var req PricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	rule, err := h.ruleService.UpdatePricingRule(c.Request.Context(), c.Param("tenantId"), c.Param("id"), req.toInput(), req.Active)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPricingRuleResponse(rule))
}

// Deactivate handles DELETE /v1/admin/:tenantId/pricing-rules/:id
func (h *PricingRuleHandler) Deactivate(c *gin.Context) {
	if err := h.ruleService.DeactivatePricingRule(c.Request.Context(), c.Param("tenantId"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
