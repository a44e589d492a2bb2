package tests

import (
	"context"
	"errors"
	"testing"

	"limo/internal/domain"
	"limo/internal/service"
)

// ──────────────────────────────────────────────
// 10. DRIVERS
// ──────────────────────────────────────────────

func newDriverRoster() (*MockDriverRepository, *service.DriverService) {
	drivers := NewMockDriverRepository()
	for _, d := range []*domain.Driver{
		{ID: "d-1", TenantID: tenantID, FirstName: "Sam", LastName: "Ride", Email: "sam@acme.example", LicenseNumber: "NY-1001", Status: domain.DriverStatusAvailable, Rating: dec("4.80")},
		{ID: "d-2", TenantID: tenantID, FirstName: "Kim", LastName: "Lee", Email: "kim@acme.example", Phone: "+15550177", Status: domain.DriverStatusOnRide, Rating: dec("4.55")},
		{ID: "d-3", TenantID: tenantID, FirstName: "Ola", LastName: "Berg", Email: "ola@acme.example", Status: domain.DriverStatusOffline},
		{ID: "d-4", TenantID: tenantID, FirstName: "New", LastName: "Hire", Email: "new@acme.example"},
		{ID: "d-5", TenantID: otherID, FirstName: "Sam", Email: "sam@other.example", Status: domain.DriverStatusAvailable, Rating: dec("1.00")},
	} {
		drivers.AddDriver(d)
	}
	return drivers, service.NewDriverService(drivers)
}

func TestListDrivers_Roster(t *testing.T) {
	t.Parallel()

	_, drivers := newDriverRoster()

	roster, err := drivers.ListDrivers(context.Background(), tenantID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if roster.Total != 4 || len(roster.Drivers) != 4 {
		t.Fatalf("expected 4 drivers of the tenant, got %d", roster.Total)
	}
	if roster.Drivers[0].ID != "d-4" {
		t.Errorf("expected newest driver first, got %s", roster.Drivers[0].ID)
	}
	if roster.Active != 2 {
		t.Errorf("expected 2 on duty, got %d", roster.Active)
	}
	if roster.OffDuty != 1 {
		t.Errorf("expected 1 off duty, got %d", roster.OffDuty)
	}
	// Unrated drivers do not drag the average down: (4.80 + 4.55) / 2.
	if got := roster.AvgRating.StringFixed(2); got != "4.68" {
		t.Errorf("expected average rating 4.68, got %s", got)
	}
}

func TestListDrivers_Search(t *testing.T) {
	t.Parallel()

	repo, drivers := newDriverRoster()

	testCases := []struct {
		search string
		want   []string
	}{
		{"sam", []string{"d-1"}},
		{"  LEE ", []string{"d-2"}},
		{"5550177", []string{"d-2"}},
		{"ny-10", []string{"d-1"}},
		{"acme.example", []string{"d-4", "d-3", "d-2", "d-1"}},
		{"nobody", nil},
	}

	for _, tc := range testCases {
		roster, err := drivers.ListDrivers(context.Background(), tenantID, tc.search)
		if err != nil {
			t.Fatalf("search %q: unexpected error: %v", tc.search, err)
		}
		var got []string
		for _, d := range roster.Drivers {
			got = append(got, d.ID)
		}
		if len(got) != len(tc.want) {
			t.Errorf("search %q: got %v, want %v", tc.search, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("search %q: got %v, want %v", tc.search, got, tc.want)
				break
			}
		}
		if roster.Drivers == nil {
			t.Errorf("search %q: expected an empty list, not nil", tc.search)
		}
	}

	if repo.LastFilter.Search != "nobody" || repo.LastFilter.TenantID != tenantID {
		t.Errorf("unexpected filter %+v", repo.LastFilter)
	}
}

func TestListDrivers_EmptyRosterAndErrors(t *testing.T) {
	t.Parallel()

	drivers := service.NewDriverService(NewMockDriverRepository())
	roster, err := drivers.ListDrivers(context.Background(), tenantID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roster.Total != 0 || !roster.AvgRating.IsZero() {
		t.Errorf("expected an empty roster, got %+v", roster)
	}

	if _, err := drivers.ListDrivers(context.Background(), "", ""); err != service.ErrInvalidTenantID {
		t.Errorf("expected ErrInvalidTenantID, got %v", err)
	}

	repo := NewMockDriverRepository()
	repo.ListError = errors.New("pq: connection refused")
	if _, err := service.NewDriverService(repo).ListDrivers(context.Background(), tenantID, ""); err == nil {
		t.Error("expected the storage error")
	}
}
