package courier

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ZoneGeneral is the catch-all zone label. A courier serving it is a fallback
// candidate for any order whose zone has no exact match.
const ZoneGeneral = "general"

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrZonesAreRequired is returned when attempting to create a courier with no served zones.
	ErrZonesAreRequired = errs.NewValueIsRequiredError("zones")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier is the profile of a registered delivery courier. Identity is the
// courier's email. The profile is read-mostly: dispatch only reads it, while
// admin operations toggle status and the blocked flag.
//
// Invariants:
//   - email is a valid kernel.Email
//   - name is non-empty
//   - at least one zone label is served; labels are normalized to lower case
type Courier struct {
	email     kernel.Email
	name      string
	zones     []string
	status    Status
	isBlocked bool

	guard guard.ConstructorGuard
}

// NewCourier registers a new courier profile. The courier starts active and
// unblocked. Zone labels are trimmed, lower-cased and deduplicated.
func NewCourier(email kernel.Email, name string, zones []string) (*Courier, error) {
	c := &Courier{
		status: StatusActive,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setEmail(email),
		c.setName(name),
		c.setZones(zones),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a courier profile from persistence.
func RestoreCourier(email kernel.Email, name string, zones []string, status Status, isBlocked bool) (*Courier, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	c, err := NewCourier(email, name, zones)
	if err != nil {
		return nil, err
	}

	c.status = status
	c.isBlocked = isBlocked
	return c, nil
}

// Validate ensures the Courier was created through a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// Email returns the courier's identity.
func (c *Courier) Email() kernel.Email {
	return c.email
}

// Name returns the courier's display name.
func (c *Courier) Name() string {
	return c.name
}

// Zones returns the zone labels this courier serves.
func (c *Courier) Zones() []string {
	zones := make([]string, len(c.zones))
	copy(zones, c.zones)
	return zones
}

// Status returns the courier's registration standing.
func (c *Courier) Status() Status {
	return c.status
}

// IsBlocked reports whether the courier is administratively blocked.
func (c *Courier) IsBlocked() bool {
	return c.isBlocked
}

// IsAvailable reports whether the courier may be considered for dispatch:
// active and not blocked.
func (c *Courier) IsAvailable() bool {
	return c.status == StatusActive && !c.isBlocked
}

// ServesZone reports whether the courier serves the given zone label exactly.
func (c *Courier) ServesZone(zone string) bool {
	zone = strings.ToLower(strings.TrimSpace(zone))
	if zone == "" {
		return false
	}
	for _, z := range c.zones {
		if z == zone {
			return true
		}
	}
	return false
}

// CoversCity reports whether one of the courier's zone labels names the given
// city. Couriers may register a city name as a served label to cover every
// zone of that city.
func (c *Courier) CoversCity(city string) bool {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return false
	}
	for _, z := range c.zones {
		if z == city {
			return true
		}
	}
	return false
}

// ServesGeneral reports whether the courier serves the catch-all zone.
func (c *Courier) ServesGeneral() bool {
	return c.ServesZone(ZoneGeneral)
}

// Block administratively blocks the courier from receiving orders.
func (c *Courier) Block() {
	c.isBlocked = true
}

// Unblock lifts an administrative block.
func (c *Courier) Unblock() {
	c.isBlocked = false
}

// Activate marks the courier as working.
func (c *Courier) Activate() {
	c.status = StatusActive
}

// Deactivate marks the courier as not working.
func (c *Courier) Deactivate() {
	c.status = StatusInactive
}

func (c *Courier) setEmail(email kernel.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	c.email = email
	return nil
}

func (c *Courier) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setZones(zones []string) error {
	seen := make(map[string]struct{}, len(zones))
	normalized := make([]string, 0, len(zones))
	for _, z := range zones {
		z = strings.ToLower(strings.TrimSpace(z))
		if z == "" {
			continue
		}
		if _, ok := seen[z]; ok {
			continue
		}
		seen[z] = struct{}{}
		normalized = append(normalized, z)
	}

	if len(normalized) == 0 {
		return ErrZonesAreRequired
	}

	c.zones = normalized
	return nil
}
