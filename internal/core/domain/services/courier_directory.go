package services

import (
	"dispatch/internal/core/domain/model/courier"
)

// CourierDirectory is a read-only domain service that narrows the registered
// courier pool down to the couriers eligible for a delivery. It has no side
// effects and no state of its own.
type CourierDirectory struct{}

// NewCourierDirectory creates a new CourierDirectory instance.
func NewCourierDirectory() CourierDirectory {
	return CourierDirectory{}
}

// FindEligible returns the couriers eligible to serve the given zone.
//
// Selection rules:
//   - Blocked and inactive couriers are always excluded.
//   - Couriers serving the target zone exactly are preferred.
//   - Only when no exact match exists, couriers covering the destination
//     city or serving the catch-all zone are considered.
//
// The returned slice preserves the input order, which callers rely on when
// populating an order's eligible set.
func (d CourierDirectory) FindEligible(couriers []*courier.Courier, zone string, city string) []*courier.Courier {
	var exact []*courier.Courier
	var fallback []*courier.Courier

	for _, c := range couriers {
		if !c.IsAvailable() {
			continue
		}
		if c.ServesZone(zone) {
			exact = append(exact, c)
			continue
		}
		if c.CoversCity(city) || c.ServesGeneral() {
			fallback = append(fallback, c)
		}
	}

	if len(exact) > 0 {
		return exact
	}
	return fallback
}
