package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"limo/internal/domain"
	"limo/internal/repository"
)

// DriverService exposes a tenant's drivers to its administrators.
type DriverService struct {
	driverRepo repository.DriverRepository
}

// NewDriverService creates a new DriverService.
func NewDriverService(driverRepo repository.DriverRepository) *DriverService {
	return &DriverService{driverRepo: driverRepo}
}

// DriverRoster is a driver listing with its headline figures.
type DriverRoster struct {
	Drivers   []*domain.Driver
	Total     int
	Active    int // Available or on a ride.
	OffDuty   int
	AvgRating decimal.Decimal // Mean of non-zero ratings, two places.
}

// ListDrivers lists the tenant's drivers matching search.
func (s *DriverService) ListDrivers(ctx context.Context, tenantID, search string) (*DriverRoster, error) {
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}

	drivers, err := s.driverRepo.List(ctx, repository.DriverFilter{
		TenantID: tenantID,
		Search:   strings.TrimSpace(search),
	})
	if err != nil {
		return nil, err
	}
	if drivers == nil {
		drivers = []*domain.Driver{}
	}

	roster := &DriverRoster{Drivers: drivers, Total: len(drivers), AvgRating: decimal.Zero}
	sum, rated := decimal.Zero, 0
	for _, d := range drivers {
		switch {
		case d.Status.OnDuty():
			roster.Active++
		case d.Status == domain.DriverStatusOffline:
			roster.OffDuty++
		}
		if d.Rating.IsPositive() {
			sum = sum.Add(d.Rating)
			rated++
		}
	}
	if rated > 0 {
		roster.AvgRating = sum.Div(decimal.NewFromInt(int64(rated))).Round(2)
	}

	return roster, nil
}

// requireDriver checks that driverID is a driver of the tenant.
func requireDriver(ctx context.Context, drivers repository.DriverRepository, tenantID, driverID string) error {
	if _, err := drivers.GetByID(ctx, tenantID, driverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidDriver
		}
		return err
	}
	return nil
}
