package commands

import (
	"errors"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrReleaseStockCommandIsNotConstructed = errors.New(
	"ReleaseStockCommand must be created via NewReleaseStockCommand constructor",
)

// ReleaseStockCommand represents a request to return stock to one product
// partition, used both for manual restocking and for compensating rollback.
type ReleaseStockCommand struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	quantity  int
	versionID string
	sizeCode  string

	guard guard.ConstructorGuard
}

// NewReleaseStockCommand creates a stock release command.
func NewReleaseStockCommand(
	productID kernel.UUID,
	quantity int,
	versionID string,
	sizeCode string,
) (ReleaseStockCommand, error) {
	cmd := ReleaseStockCommand{
		versionID: strings.TrimSpace(versionID),
		sizeCode:  strings.ToUpper(strings.TrimSpace(sizeCode)),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setProductID(productID),
		cmd.setQuantity(quantity),
	); err != nil {
		return ReleaseStockCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseStockCommand) Validate() error {
	return c.guard.Validate(ErrReleaseStockCommandIsNotConstructed)
}

// ProductID returns the product whose stock is being released.
func (c ReleaseStockCommand) ProductID() kernel.UUID {
	return c.productID
}

// Quantity returns the number of units to return.
func (c ReleaseStockCommand) Quantity() int {
	return c.quantity
}

// VersionID returns the selected version, or "" for unversioned products.
func (c ReleaseStockCommand) VersionID() string {
	return c.versionID
}

// SizeCode returns the selected size, or "" for unpartitioned products.
func (c ReleaseStockCommand) SizeCode() string {
	return c.sizeCode
}

func (c *ReleaseStockCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	c.productID = productID
	return nil
}

func (c *ReleaseStockCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt)
	}

	c.quantity = quantity
	return nil
}
