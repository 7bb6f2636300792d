package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand represents an operator's manual assignment of an order
// to a courier, bypassing dispatch and any open competition.
type AssignOrderCommand struct { //nolint:recvcheck //using for validation
	orderRef string
	courier  kernel.Email

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates a manual assignment command.
func NewAssignOrderCommand(orderRef string, courier kernel.Email) (AssignOrderCommand, error) {
	cmd := AssignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderRef(orderRef),
		cmd.setCourier(courier),
	); err != nil {
		return AssignOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

// OrderRef returns the order reference being assigned.
func (c AssignOrderCommand) OrderRef() string {
	return c.orderRef
}

// Courier returns the courier receiving the order.
func (c AssignOrderCommand) Courier() kernel.Email {
	return c.courier
}

func (c *AssignOrderCommand) setOrderRef(orderRef string) error {
	if orderRef == "" {
		return ErrOrderRefIsRequired
	}

	c.orderRef = orderRef
	return nil
}

func (c *AssignOrderCommand) setCourier(courier kernel.Email) error {
	if err := courier.Validate(); err != nil {
		return err
	}

	c.courier = courier
	return nil
}
