package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var (
	ErrMarkEmergencyCommandIsNotConstructed = errors.New(
		"MarkEmergencyCommand must be created via NewMarkEmergencyCommand constructor",
	)
	ErrReasonIsRequired = errors.New("reason is required")
)

// MarkEmergencyCommand represents a request to flag an order as an emergency.
// The flag is orthogonal to the status machine: it never changes the order's
// status but re-triggers targeted notification.
type MarkEmergencyCommand struct { //nolint:recvcheck //using for validation
	orderRef string
	reason   string

	guard guard.ConstructorGuard
}

// NewMarkEmergencyCommand creates an emergency flag command.
func NewMarkEmergencyCommand(orderRef string, reason string) (MarkEmergencyCommand, error) {
	cmd := MarkEmergencyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderRef(orderRef),
		cmd.setReason(reason),
	); err != nil {
		return MarkEmergencyCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkEmergencyCommand) Validate() error {
	return c.guard.Validate(ErrMarkEmergencyCommandIsNotConstructed)
}

// OrderRef returns the order reference being flagged.
func (c MarkEmergencyCommand) OrderRef() string {
	return c.orderRef
}

// Reason returns the reason recorded with the emergency flag.
func (c MarkEmergencyCommand) Reason() string {
	return c.reason
}

func (c *MarkEmergencyCommand) setOrderRef(orderRef string) error {
	if orderRef == "" {
		return ErrOrderRefIsRequired
	}

	c.orderRef = orderRef
	return nil
}

func (c *MarkEmergencyCommand) setReason(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}

	c.reason = reason
	return nil
}
