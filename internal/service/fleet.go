package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"limo/internal/domain"
	"limo/internal/repository"
)

// FleetService manages a tenant's vehicles.
type FleetService struct {
	vehicleRepo repository.VehicleRepository
}

// NewFleetService creates a new FleetService.
func NewFleetService(vehicleRepo repository.VehicleRepository) *FleetService {
	return &FleetService{vehicleRepo: vehicleRepo}
}

// VehicleInput contains the editable fields of a vehicle.
type VehicleInput struct {
	Name         string
	Type         domain.VehicleType
	Make         string
	Model        string
	Year         int
	Capacity     int
	LicensePlate string
	Color        string
	Amenities    map[string]bool
	Photos       []string
}

// CreateVehicle adds an active vehicle to a tenant's fleet.
func (s *FleetService) CreateVehicle(ctx context.Context, tenantID string, in VehicleInput) (*domain.Vehicle, error) {
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}

	vehicle := &domain.Vehicle{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := applyVehicle(vehicle, in); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// UpdateVehicle replaces the editable fields of a vehicle. A nil active
// leaves the vehicle's active flag unchanged.
func (s *FleetService) UpdateVehicle(ctx context.Context, tenantID, vehicleID string, in VehicleInput, active *bool) (*domain.Vehicle, error) {
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, tenantID, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := applyVehicle(vehicle, in); err != nil {
		return nil, err
	}
	if active != nil {
		vehicle.Active = *active
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// ListVehicles retrieves a tenant's vehicles, newest first.
func (s *FleetService) ListVehicles(ctx context.Context, tenantID string, activeOnly bool) ([]*domain.Vehicle, error) {
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}
	return s.vehicleRepo.ListByTenant(ctx, tenantID, activeOnly)
}

// VehiclePreview is the public showcase of one vehicle.
type VehiclePreview struct {
	ID          string
	Name        string
	Type        domain.VehicleType
	Capacity    int
	ImageURL    string
	Description string
	Amenities   []string
}

// Preview builds the public fleet showcase of a tenant. A tenant that
// cannot be resolved has an empty fleet.
func (s *FleetService) Preview(ctx context.Context, tenantID string) ([]VehiclePreview, error) {
	if tenantID == "" {
		return []VehiclePreview{}, nil
	}

	vehicles, err := s.vehicleRepo.ListByTenant(ctx, tenantID, true)
	if err != nil {
		return nil, err
	}

	previews := make([]VehiclePreview, 0, len(vehicles))
	for _, v := range vehicles {
		p := VehiclePreview{
			ID:          v.ID,
			Name:        v.Name,
			Type:        v.Type,
			Capacity:    v.Capacity,
			Description: DescribeVehicle(v),
			Amenities:   AmenityLabels(v.Amenities),
		}
		if len(v.Photos) > 0 {
			p.ImageURL = v.Photos[0]
		}
		previews = append(previews, p)
	}

	return previews, nil
}

// DescribeVehicle renders a one-line marketing description such as
// "2022 Cadillac Escalade SUV • Seats up to 6 passengers • Color: Black".
func DescribeVehicle(v *domain.Vehicle) string {
	var parts []string

	var title []string
	if v.Year > 0 {
		title = append(title, strconv.Itoa(v.Year))
	}
	if v.Make != "" {
		title = append(title, v.Make)
	}
	if v.Model != "" {
		title = append(title, v.Model)
	}
	if len(title) > 0 {
		parts = append(parts, fmt.Sprintf("%s %s", strings.Join(title, " "), v.Type))
	} else {
		parts = append(parts, fmt.Sprintf("%s (%s)", v.Name, v.Type))
	}

	plural := "s"
	if v.Capacity == 1 {
		plural = ""
	}
	parts = append(parts, fmt.Sprintf("Seats up to %d passenger%s", v.Capacity, plural))

	if v.Color != "" {
		parts = append(parts, "Color: "+v.Color)
	}

	if labels := AmenityLabels(v.Amenities); len(labels) > 0 {
		parts = append(parts, "Amenities: "+strings.Join(labels, ", "))
	}

	return strings.Join(parts, " • ")
}

// AmenityLabels returns the labels of enabled amenities in key order,
// turning camelCase keys into words ("wifiHotspot" -> "Wifi Hotspot").
func AmenityLabels(amenities map[string]bool) []string {
	keys := make([]string, 0, len(amenities))
	for k, enabled := range amenities {
		if enabled {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, amenityLabel(k))
	}
	return labels
}

func amenityLabel(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func applyVehicle(v *domain.Vehicle, in VehicleInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidVehicle)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown vehicle type %q", ErrInvalidVehicle, in.Type)
	}
	if in.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrInvalidVehicle)
	}
	if in.Year < 0 {
		return fmt.Errorf("%w: year must not be negative", ErrInvalidVehicle)
	}

	v.Name = name
	v.Type = in.Type
	v.Make = strings.TrimSpace(in.Make)
	v.Model = strings.TrimSpace(in.Model)
	v.Year = in.Year
	v.Capacity = in.Capacity
	v.LicensePlate = strings.TrimSpace(in.LicensePlate)
	v.Color = strings.TrimSpace(in.Color)
	v.Amenities = in.Amenities
	if v.Amenities == nil {
		v.Amenities = map[string]bool{}
	}
	v.Photos = in.Photos
	return nil
}
