package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrAcceptOrderCommandIsNotConstructed = errors.New(
		"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
	)
	ErrOrderRefIsRequired = errs.NewValueIsRequiredError("orderRef")
)

// AcceptOrderCommand represents one courier's attempt to win a competing
// order. Any number of eligible couriers may race with this command; exactly
// one wins.
type AcceptOrderCommand struct { //nolint:recvcheck //using for validation
	orderRef string
	courier  kernel.Email

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand creates a command for a courier to accept an order.
// The order reference may be the purchase identity or the order's UUID.
func NewAcceptOrderCommand(orderRef string, courier kernel.Email) (AcceptOrderCommand, error) {
	cmd := AcceptOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderRef(orderRef),
		cmd.setCourier(courier),
	); err != nil {
		return AcceptOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

// OrderRef returns the order reference the courier is accepting.
func (c AcceptOrderCommand) OrderRef() string {
	return c.orderRef
}

// Courier returns the accepting courier's identity.
func (c AcceptOrderCommand) Courier() kernel.Email {
	return c.courier
}

func (c *AcceptOrderCommand) setOrderRef(orderRef string) error {
	if orderRef == "" {
		return ErrOrderRefIsRequired
	}

	c.orderRef = orderRef
	return nil
}

func (c *AcceptOrderCommand) setCourier(courier kernel.Email) error {
	if err := courier.Validate(); err != nil {
		return err
	}

	c.courier = courier
	return nil
}
