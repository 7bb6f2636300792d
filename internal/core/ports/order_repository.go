package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and assignment state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using a
	// compare-and-swap write. Returns errs.ErrConcurrencyConflict when the
	// stored aggregate changed since it was read; callers must reload and
	// re-apply their operation.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by reference. The reference is
	// resolved against the purchase identity first and falls back to the
	// order's UUID when no purchase match exists. This is the single
	// lookup method; all read paths share its precedence.
	Get(ctx context.Context, ref string) (*order.Order, error)

	// GetAllActive retrieves orders not yet delivered or cancelled,
	// ordered by priority descending, then creation time.
	GetAllActive(ctx context.Context) ([]*order.Order, error)

	// GetCompetingStartedBefore retrieves orders whose competition window
	// opened before the cutoff and is still unresolved. Used by the
	// competition expiry job.
	GetCompetingStartedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
