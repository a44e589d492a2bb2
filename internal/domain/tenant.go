package domain

import (
	"encoding/json"
	"time"
)

// GeoRestrictionType selects how a tenant limits its service area.
type GeoRestrictionType string

const (
	GeoRestrictionState   GeoRestrictionType = "STATE"
	GeoRestrictionRadius  GeoRestrictionType = "RADIUS"
	GeoRestrictionPolygon GeoRestrictionType = "POLYGON"
)

// Tenant is an operator running the platform under its own subdomain.
type Tenant struct {
	ID                    string
	Slug                  string
	Name                  string
	LogoURL               string
	PrimaryColor          string
	StripeAccountID       string
	StripeOnboarded       bool
	GeoRestrictionEnabled bool
	GeoRestrictionType    GeoRestrictionType
	GeoRestrictionValue   json.RawMessage
	Active                bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
