package kernel

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrDestinationIsNotConstructed is returned when validating a zero-value Destination.
var ErrDestinationIsNotConstructed = errs.NewValueIsRequiredError(
	"destination must be created via NewDestination constructor")

// ErrDestinationIsEmpty is returned when neither an address nor a city is supplied.
var ErrDestinationIsEmpty = errors.New("destination requires at least an address or a city")

// Destination is the shipping location captured at checkout. It is a tagged,
// validated struct: address and city are free text, zone is an optional
// explicit zone label, and coordinates are optional. At least one of address
// or city must be present; everything else may be absent and is resolved by
// the zone resolver.
type Destination struct {
	address     string
	city        string
	zone        string
	coordinates *Coordinates

	guard guard.ConstructorGuard
}

// NewDestination creates a validated Destination. Textual fields are trimmed;
// city and zone are lower-cased so zone resolution and courier matching are
// case-insensitive. coordinates may be nil.
func NewDestination(address string, city string, zone string, coordinates *Coordinates) (Destination, error) {
	address = strings.TrimSpace(address)
	city = strings.ToLower(strings.TrimSpace(city))
	zone = strings.ToLower(strings.TrimSpace(zone))

	if address == "" && city == "" {
		return Destination{}, errs.NewValueIsInvalidErrorWithCause("destination", ErrDestinationIsEmpty)
	}

	if coordinates != nil {
		if err := coordinates.Validate(); err != nil {
			return Destination{}, err
		}
	}

	return Destination{
		address:     address,
		city:        city,
		zone:        zone,
		coordinates: coordinates,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Destination was created through NewDestination.
func (d Destination) Validate() error {
	return d.guard.Validate(ErrDestinationIsNotConstructed)
}

// Address returns the free-text shipping address. May be empty when a city was given.
func (d Destination) Address() string {
	return d.address
}

// City returns the normalized city name. May be empty when only an address was given.
func (d Destination) City() string {
	return d.city
}

// Zone returns the explicit zone label supplied at checkout, or "" when the
// zone must be resolved from the city or address.
func (d Destination) Zone() string {
	return d.zone
}

// Coordinates returns the optional geographic point, or nil.
func (d Destination) Coordinates() *Coordinates {
	return d.coordinates
}
