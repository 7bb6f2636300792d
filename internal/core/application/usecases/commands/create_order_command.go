package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrPurchaseIDIsRequired = errs.NewValueIsRequiredError("purchaseId")
	ErrItemsAreRequired     = errs.NewValueIsRequiredError("items")
)

// CreateOrderCommand represents a request to create a delivery order for a
// customer purchase. Carries the validated destination and the immutable
// reservation request.
//
// Example:
//
//	destination, _ := kernel.NewDestination("Cra 7 #12-34", "chapinero", "", nil)
//	item, _ := order.NewItem(productID, 2, "", "M")
//	cmd, err := NewCreateOrderCommand("purchase-81", destination, []order.Item{item})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	orderID, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	purchaseID  string
	destination kernel.Destination
	items       []order.Item

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
// Validates that the purchase reference is present, the destination is
// constructed, and at least one item is supplied.
func NewCreateOrderCommand(
	purchaseID string,
	destination kernel.Destination,
	items []order.Item,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPurchaseID(purchaseID),
		cmd.setDestination(destination),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// PurchaseID returns the identity of the originating purchase record.
func (c CreateOrderCommand) PurchaseID() string {
	return c.purchaseID
}

// Destination returns the validated shipping destination.
func (c CreateOrderCommand) Destination() kernel.Destination {
	return c.destination
}

// Items returns the order's reservation request.
func (c CreateOrderCommand) Items() []order.Item {
	items := make([]order.Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c *CreateOrderCommand) setPurchaseID(purchaseID string) error {
	if purchaseID == "" {
		return ErrPurchaseIDIsRequired
	}

	c.purchaseID = purchaseID
	return nil
}

func (c *CreateOrderCommand) setDestination(destination kernel.Destination) error {
	if err := destination.Validate(); err != nil {
		return err
	}

	c.destination = destination
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	c.items = append([]order.Item(nil), items...)
	return nil
}
