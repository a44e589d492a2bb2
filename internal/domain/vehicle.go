package domain

import "time"

// Vehicle is a car in a tenant's fleet.
type Vehicle struct {
	ID           string
	TenantID     string
	Name         string
	Type         VehicleType
	Make         string
	Model        string
	Year         int
	Capacity     int
	LicensePlate string
	Color        string
	Amenities    map[string]bool
	Photos       []string
	Active       bool
	CreatedAt    time.Time
}
