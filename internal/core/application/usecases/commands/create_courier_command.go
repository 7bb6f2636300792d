package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateCourierCommandIsNotConstructed = errors.New(
	"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
)

// CreateCourierCommand represents a request to register a new courier with
// the zones they serve.
//
// Example:
//
//	email, _ := kernel.NewEmail("rider@example.com")
//	cmd, err := NewCreateCourierCommand(email, "Ana", []string{"norte", "centro"})
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	email kernel.Email
	name  string
	zones []string

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand creates a courier registration command.
func NewCreateCourierCommand(email kernel.Email, name string, zones []string) (CreateCourierCommand, error) {
	cmd := CreateCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setEmail(email),
		cmd.setName(name),
		cmd.setZones(zones),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

// Email returns the courier's identity.
func (c CreateCourierCommand) Email() kernel.Email {
	return c.email
}

// Name returns the courier's display name.
func (c CreateCourierCommand) Name() string {
	return c.name
}

// Zones returns the zone labels the courier serves.
func (c CreateCourierCommand) Zones() []string {
	zones := make([]string, len(c.zones))
	copy(zones, c.zones)
	return zones
}

func (c *CreateCourierCommand) setEmail(email kernel.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}

	c.email = email
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	if name == "" {
		return courier.ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateCourierCommand) setZones(zones []string) error {
	if len(zones) == 0 {
		return courier.ErrZonesAreRequired
	}

	c.zones = append([]string(nil), zones...)
	return nil
}
