// Package geo checks whether a location falls inside a tenant's service area.
package geo

import (
	"encoding/json"
	"math"
	"slices"
	"strings"

	"limo/internal/domain"
)

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// HaversineKm returns the great-circle distance between a and b.
func HaversineKm(a, b Point) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	latA := toRad(a.Lat)
	latB := toRad(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(latA)*math.Cos(latB)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// InsidePolygon reports whether p lies inside ring using ray casting.
// The ring does not need to be closed.
func InsidePolygon(p Point, ring []Point) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat

		if (yi > p.Lat) != (yj > p.Lat) && p.Lng < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// StateRestriction limits service to a set of state codes.
type StateRestriction struct {
	States []string `json:"states"`
}

// RadiusRestriction limits service to a circle around a center.
type RadiusRestriction struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Km  float64 `json:"km"`
}

// PolygonRestriction limits service to a polygon.
type PolygonRestriction struct {
	Ring []Point
}

// ParseStateRestriction decodes {"states": [...]}; non-string entries are dropped.
func ParseStateRestriction(raw json.RawMessage) (*StateRestriction, bool) {
	var v struct {
		States []any `json:"states"`
	}
	if err := json.Unmarshal(raw, &v); err != nil || v.States == nil {
		return nil, false
	}

	r := &StateRestriction{States: make([]string, 0, len(v.States))}
	for _, s := range v.States {
		if code, ok := s.(string); ok {
			r.States = append(r.States, strings.ToUpper(code))
		}
	}
	return r, true
}

// ParseRadiusRestriction decodes {"lat":..,"lng":..,"km":..}; all three are required.
func ParseRadiusRestriction(raw json.RawMessage) (*RadiusRestriction, bool) {
	var v struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
		Km  *float64 `json:"km"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	if v.Lat == nil || v.Lng == nil || v.Km == nil {
		return nil, false
	}
	return &RadiusRestriction{Lat: *v.Lat, Lng: *v.Lng, Km: *v.Km}, true
}

// ParsePolygonRestriction decodes {"coordinates": [[lng, lat], ...]}.
// Malformed coordinates are skipped; fewer than three valid points is invalid.
func ParsePolygonRestriction(raw json.RawMessage) (*PolygonRestriction, bool) {
	var v struct {
		Coordinates []json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}

	ring := make([]Point, 0, len(v.Coordinates))
	for _, c := range v.Coordinates {
		var pair []float64
		if err := json.Unmarshal(c, &pair); err != nil || len(pair) < 2 {
			continue
		}
		ring = append(ring, Point{Lng: pair[0], Lat: pair[1]})
	}

	if len(ring) < 3 {
		return nil, false
	}
	return &PolygonRestriction{Ring: ring}, true
}

// Restriction is a tenant's service-area rule.
type Restriction struct {
	Enabled bool
	Type    domain.GeoRestrictionType
	Value   json.RawMessage
}

// FromTenant builds the restriction configured on t.
func FromTenant(t *domain.Tenant) Restriction {
	return Restriction{
		Enabled: t.GeoRestrictionEnabled,
		Type:    t.GeoRestrictionType,
		Value:   t.GeoRestrictionValue,
	}
}

// Allows reports whether p (in state stateCode, if known) is serviceable.
// A disabled restriction allows everything; a restriction whose value
// cannot be parsed allows nothing.
func (r Restriction) Allows(p Point, stateCode string) bool {
	if !r.Enabled || r.Type == "" {
		return true
	}

	switch r.Type {
	case domain.GeoRestrictionState:
		states, ok := ParseStateRestriction(r.Value)
		if !ok || stateCode == "" {
			return false
		}
		return slices.Contains(states.States, strings.ToUpper(stateCode))
	case domain.GeoRestrictionRadius:
		radius, ok := ParseRadiusRestriction(r.Value)
		if !ok {
			return false
		}
		return HaversineKm(p, Point{Lat: radius.Lat, Lng: radius.Lng}) <= radius.Km
	case domain.GeoRestrictionPolygon:
		polygon, ok := ParsePolygonRestriction(r.Value)
		if !ok {
			return false
		}
		return InsidePolygon(p, polygon.Ring)
	}

	return true
}
