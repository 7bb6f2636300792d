package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0
)

// ErrCoordinatesAreNotConstructed is returned when validating zero-value Coordinates.
var ErrCoordinatesAreNotConstructed = errs.NewValueIsRequiredError(
	"coordinates must be created via NewCoordinates constructor")

// Coordinates is an optional geographic point attached to a shipping
// destination. It is informational only: zone resolution and dispatch never
// depend on it for correctness.
type Coordinates struct {
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewCoordinates creates validated Coordinates.
// Latitude must lie in [-90, 90] and longitude in [-180, 180].
func NewCoordinates(lat float64, lon float64) (Coordinates, error) {
	if lat < LatitudeMin || lat > LatitudeMax {
		return Coordinates{}, errs.NewValueIsOutOfRangeError("latitude", lat, LatitudeMin, LatitudeMax)
	}
	if lon < LongitudeMin || lon > LongitudeMax {
		return Coordinates{}, errs.NewValueIsOutOfRangeError("longitude", lon, LongitudeMin, LongitudeMax)
	}

	return Coordinates{
		lat:   lat,
		lon:   lon,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Coordinates were created through NewCoordinates.
func (c Coordinates) Validate() error {
	return c.guard.Validate(ErrCoordinatesAreNotConstructed)
}

// Lat returns the latitude in degrees.
func (c Coordinates) Lat() float64 {
	return c.lat
}

// Lon returns the longitude in degrees.
func (c Coordinates) Lon() float64 {
	return c.lon
}

// String implements fmt.Stringer.
func (c Coordinates) String() string {
	return fmt.Sprintf("Coordinates(%.6f,%.6f)", c.lat, c.lon)
}
