package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"limo/internal/domain"
	"limo/internal/middleware"
	"limo/internal/service"
)

// TenantHandler handles HTTP requests for tenants.
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// GeoRestrictionResponse describes a tenant's service area.
type GeoRestrictionResponse struct {
	Enabled bool            `json:"enabled"`
	Type    string          `json:"type,omitempty"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// TenantResponse is the HTTP response for a tenant.
type TenantResponse struct {
	ID              string                 `json:"id"`
	Slug            string                 `json:"slug"`
	Name            string                 `json:"name"`
	LogoURL         string                 `json:"logo_url,omitempty"`
	PrimaryColor    string                 `json:"primary_color,omitempty"`
	PaymentsEnabled bool                   `json:"payments_enabled"`
	GeoRestriction  GeoRestrictionResponse `json:"geo_restriction"`
	Active          bool                   `json:"active"`
}

func toTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:              t.ID,
		Slug:            t.Slug,
		Name:            t.Name,
		LogoURL:         t.LogoURL,
		PrimaryColor:    t.PrimaryColor,
		PaymentsEnabled: t.StripeAccountID != "" && t.StripeOnboarded,
		GeoRestriction: GeoRestrictionResponse{
			Enabled: t.GeoRestrictionEnabled,
			Type:    string(t.GeoRestrictionType),
			Value:   t.GeoRestrictionValue,
		},
		Active: t.Active,
	}
}

// Current handles GET /v1/tenant
func (h *TenantHandler) Current(c *gin.Context) {
	tenant, err := h.tenantService.Resolve(c.Request.Context(), middleware.TenantSlug(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTenantResponse(tenant))
}

// Get handles GET /v1/admin/:tenantId
func (h *TenantHandler) Get(c *gin.Context) {
	tenant, err := h.tenantService.GetTenant(c.Request.Context(), c.Param("tenantId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTenantResponse(tenant))
}

// GetAll handles GET /v1/tenants
func (h *TenantHandler) GetAll(c *gin.Context) {
	tenants, err := h.tenantService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		response = append(response, toTenantResponse(t))
	}

	respondJSON(c, http.StatusOK, response)
}

// resolveTenantID returns the ID of the tenant serving the request.
func resolveTenantID(c *gin.Context, tenants *service.TenantService) (string, error) {
	tenant, err := tenants.Resolve(c.Request.Context(), middleware.TenantSlug(c))
	if err != nil {
		return "", err
	}
	return tenant.ID, nil
}
