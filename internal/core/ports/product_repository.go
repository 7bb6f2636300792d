package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for product inventory
// aggregates. Stock is mutated only through the aggregate's reserve/release
// operations and persisted with compare-and-swap writes; order-processing
// code never writes stock fields directly.
type ProductRepository interface {
	// Add persists a new product aggregate to storage.
	// The product must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *product.Product) error

	// Update persists changes to an existing product aggregate using a
	// compare-and-swap write. Returns errs.ErrConcurrencyConflict when the
	// stored aggregate changed since it was read; reservation code reloads
	// and retries on conflict.
	Update(ctx context.Context, aggregate *product.Product) error

	// Get retrieves a product aggregate with all its versions and size
	// partitions by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)
}
