package services

import (
	"strings"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// Route is the result of zone resolution: a canonical zone label and an
// estimated distance in kilometers. The distance is informational only and
// never participates in correctness decisions.
type Route struct {
	Zone              string
	EstimatedDistance int
}

// ZoneResolver maps a shipping destination to a delivery zone. It is a pure
// function over a static routing table and always produces a value: unmatched
// destinations resolve to the catch-all zone.
//
// Resolution policy, in order:
//  1. An explicit zone field naming a known zone wins outright.
//  2. The city field is looked up in the city table.
//  3. The free-text address is scanned for city keywords.
//  4. Fall back to the catch-all zone.
type ZoneResolver struct {
	cityZones     map[string]string
	zoneDistances map[string]int
}

// NewZoneResolver creates a ZoneResolver with the built-in routing table.
func NewZoneResolver() ZoneResolver {
	return ZoneResolver{
		cityZones:     getCityZones(),
		zoneDistances: getZoneDistances(),
	}
}

func getCityZones() map[string]string {
	return map[string]string{
		"usaquen":       "norte",
		"suba":          "norte",
		"chia":          "norte",
		"chapinero":     "centro",
		"candelaria":    "centro",
		"teusaquillo":   "centro",
		"kennedy":       "sur",
		"bosa":          "sur",
		"soacha":        "sur",
		"fontibon":      "occidente",
		"engativa":      "occidente",
		"funza":         "occidente",
		"santa fe":      "oriente",
		"san cristobal": "oriente",
	}
}

func getZoneDistances() map[string]int {
	return map[string]int{
		"norte":             12,
		"centro":            5,
		"sur":               15,
		"occidente":         14,
		"oriente":           10,
		courier.ZoneGeneral: 20,
	}
}

// Resolve maps the destination to a Route. It has no failure mode: unknown
// cities and unmatched addresses resolve to the catch-all zone with its
// default distance.
func (r ZoneResolver) Resolve(destination kernel.Destination) Route {
	if zone := destination.Zone(); zone != "" {
		if _, ok := r.zoneDistances[zone]; ok {
			return r.route(zone)
		}
	}

	if zone, ok := r.cityZones[destination.City()]; ok {
		return r.route(zone)
	}

	address := strings.ToLower(destination.Address())
	for city, zone := range r.cityZones {
		if strings.Contains(address, city) {
			return r.route(zone)
		}
	}

	return r.route(courier.ZoneGeneral)
}

func (r ZoneResolver) route(zone string) Route {
	return Route{Zone: zone, EstimatedDistance: r.zoneDistances[zone]}
}
