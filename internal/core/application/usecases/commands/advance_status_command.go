package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceStatusCommandIsNotConstructed = errors.New(
	"AdvanceStatusCommand must be created via NewAdvanceStatusCommand constructor",
)

// AdvanceStatusCommand represents a request to move an order along its
// fulfillment path: picked_up, in_transit, delivered or cancelled.
type AdvanceStatusCommand struct { //nolint:recvcheck //using for validation
	orderRef  string
	newStatus order.Status
	notes     string

	guard guard.ConstructorGuard
}

// NewAdvanceStatusCommand creates a status advancement command. Notes are
// optional and are stamped into the order's transition history.
func NewAdvanceStatusCommand(orderRef string, newStatus order.Status, notes string) (AdvanceStatusCommand, error) {
	cmd := AdvanceStatusCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderRef(orderRef),
		cmd.setNewStatus(newStatus),
	); err != nil {
		return AdvanceStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStatusCommandIsNotConstructed)
}

// OrderRef returns the order reference being advanced.
func (c AdvanceStatusCommand) OrderRef() string {
	return c.orderRef
}

// NewStatus returns the requested target status.
func (c AdvanceStatusCommand) NewStatus() order.Status {
	return c.newStatus
}

// Notes returns the optional operator notes.
func (c AdvanceStatusCommand) Notes() string {
	return c.notes
}

func (c *AdvanceStatusCommand) setOrderRef(orderRef string) error {
	if orderRef == "" {
		return ErrOrderRefIsRequired
	}

	c.orderRef = orderRef
	return nil
}

func (c *AdvanceStatusCommand) setNewStatus(newStatus order.Status) error {
	if err := newStatus.Validate(); err != nil {
		return err
	}

	c.newStatus = newStatus
	return nil
}
