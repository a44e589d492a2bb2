package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"limo/internal/domain"
	"limo/internal/service"
)

// VehicleHandler handles HTTP requests for a tenant's fleet.
type VehicleHandler struct {
	fleetService  *service.FleetService
	tenantService *service.TenantService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(fleetService *service.FleetService, tenantService *service.TenantService) *VehicleHandler {
	return &VehicleHandler{
		fleetService:  fleetService,
		tenantService: tenantService,
	}
}

// VehicleRequest is the HTTP request body for creating or updating a vehicle.
type VehicleRequest struct {
	Name         string          `json:"name" binding:"required,max=120"`
	Type         string          `json:"type" binding:"required,vehicletype"`
	Make         string          `json:"make" binding:"max=60"`
	Model        string          `json:"model" binding:"max=60"`
	Year         int             `json:"year" binding:"omitempty,min=1950,max=2100"`
	Capacity     int             `json:"capacity" binding:"required,min=1,max=60"`
	LicensePlate string          `json:"license_plate" binding:"max=20"`
	Color        string          `json:"color" binding:"max=40"`
	Amenities    map[string]bool `json:"amenities"`
	Photos       []string        `json:"photos" binding:"omitempty,max=20,dive,url"`
	Active       *bool           `json:"active,omitempty"`
}

func (r VehicleRequest) toInput() service.VehicleInput {
	return service.VehicleInput{
		Name:         r.Name,
		Type:         domain.VehicleType(r.Type),
		Make:         r.Make,
		Model:        r.Model,
		Year:         r.Year,
		Capacity:     r.Capacity,
		LicensePlate: r.LicensePlate,
		Color:        r.Color,
		Amenities:    r.Amenities,
		Photos:       r.Photos,
	}
}

// VehicleResponse is the HTTP response for a vehicle.
type VehicleResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Make         string          `json:"make,omitempty"`
	Model        string          `json:"model,omitempty"`
	Year         int             `json:"year,omitempty"`
	Capacity     int             `json:"capacity"`
	LicensePlate string          `json:"license_plate,omitempty"`
	Color        string          `json:"color,omitempty"`
	Amenities    map[string]bool `json:"amenities"`
	Photos       []string        `json:"photos"`
	Active       bool            `json:"active"`
	CreatedAt    string          `json:"created_at"`
}

func toVehicleResponse(v *domain.Vehicle) VehicleResponse {
	amenities := v.Amenities
	if amenities == nil {
		amenities = map[string]bool{}
	}
	photos := v.Photos
	if photos == nil {
		photos = []string{}
	}
	return VehicleResponse{
		ID:           v.ID,
		Name:         v.Name,
		Type:         string(v.Type),
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		Capacity:     v.Capacity,
		LicensePlate: v.LicensePlate,
		Color:        v.Color,
		Amenities:    amenities,
		Photos:       photos,
		Active:       v.Active,
		CreatedAt:    v.CreatedAt.Format(timeLayout),
	}
}

// FleetPreviewResponse is one vehicle of the public fleet showcase.
type FleetPreviewResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Capacity    int      `json:"capacity"`
	ImageURL    *string  `json:"image_url"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
}

// Preview handles GET /v1/fleet
func (h *VehicleHandler) Preview(c *gin.Context) {
	tenantID, err := resolveTenantID(c, h.tenantService)
	if err != nil && !errors.Is(err, service.ErrTenantNotFound) {
		respondError(c, err)
		return
	}

	previews, err := h.fleetService.Preview(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]FleetPreviewResponse, 0, len(previews))
	for _, p := range previews {
		item := FleetPreviewResponse{
			ID:          p.ID,
			Name:        p.Name,
			Type:        string(p.Type),
			Capacity:    p.Capacity,
			Description: p.Description,
			Amenities:   p.Amenities,
		}
		if p.ImageURL != "" {
			url := p.ImageURL
			item.ImageURL = &url
		}
		response = append(response, item)
	}

	respondJSON(c, http.StatusOK, response)
}

// List handles GET /v1/admin/:tenantId/vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	vehicles, err := h.fleetService.ListVehicles(c.Request.Context(), c.Param("tenantId"), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		response = append(response, toVehicleResponse(v))
	}

	respondJSON(c, http.StatusOK, response)
}

// Create handles POST /v1/admin/:tenantId/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	vehicle, err := h.fleetService.CreateVehicle(c.Request.Context(), c.Param("tenantId"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toVehicleResponse(vehicle))
}

// Update handles PUT /v1/admin/:tenantId/vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	vehicle, err := h.fleetService.UpdateVehicle(c.Request.Context(), c.Param("tenantId"), c.Param("id"), req.toInput(), req.Active)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}
