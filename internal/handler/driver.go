package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"limo/internal/domain"
	"limo/internal/service"
)

// DriverHandler handles HTTP requests for a tenant's drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// DriverResponse is the HTTP response for a driver.
type DriverResponse struct {
	ID            string  `json:"id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone,omitempty"`
	LicenseNumber *string `json:"license_number"`
	Status        *string `json:"status"`
	Rating        string  `json:"rating"`
	TotalRides    int     `json:"total_rides"`
	VehicleName   *string `json:"vehicle_name"`
}

// DriverListResponse is the HTTP response for a driver listing.
type DriverListResponse struct {
	Drivers   []DriverResponse `json:"drivers"`
	Total     int              `json:"total"`
	Active    int              `json:"active"`
	OffDuty   int              `json:"off_duty"`
	AvgRating string           `json:"avg_rating"`
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toDriverResponse(d *domain.Driver) DriverResponse {
	return DriverResponse{
		ID:            d.ID,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		Phone:         d.Phone,
		LicenseNumber: optionalString(d.LicenseNumber),
		Status:        optionalString(string(d.Status)),
		Rating:        d.Rating.StringFixed(2),
		TotalRides:    d.TotalRides,
		VehicleName:   optionalString(d.VehicleName),
	}
}

// List handles GET /v1/admin/:tenantId/drivers
func (h *DriverHandler) List(c *gin.Context) {
	roster, err := h.driverService.ListDrivers(c.Request.Context(), c.Param("tenantId"), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := DriverListResponse{
		Drivers:   make([]DriverResponse, 0, len(roster.Drivers)),
		Total:     roster.Total,
		Active:    roster.Active,
		OffDuty:   roster.OffDuty,
		AvgRating: roster.AvgRating.StringFixed(2),
	}
	for _, d := range roster.Drivers {
		response.Drivers = append(response.Drivers, toDriverResponse(d))
	}

	respondJSON(c, http.StatusOK, response)
}
