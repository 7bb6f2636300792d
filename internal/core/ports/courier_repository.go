// Package ports defines the contracts between the application core and the
// outside world: repositories, the unit of work, and the outbound gateways
// for notifications, domain events and the purchase mirror. These interfaces
// enable dependency inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	// The courier must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its email identity.
	Get(ctx context.Context, email kernel.Email) (*courier.Courier, error)

	// GetAll retrieves every registered courier regardless of status.
	GetAll(ctx context.Context) ([]*courier.Courier, error)

	// GetAllAvailable retrieves couriers that are active and not blocked.
	// This is the pool the dispatcher selects eligible couriers from.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
