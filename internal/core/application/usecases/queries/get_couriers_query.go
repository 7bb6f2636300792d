package queries

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrGetCouriersQueryIsNotConstructed = errors.New(
	"GetCouriersQuery must be created via NewGetCouriersQuery constructor",
)

// GetCouriersQuery retrieves every registered courier with their served
// zones and availability, for monitoring and manual assignment screens.
type GetCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetCouriersQuery creates a query to retrieve all couriers.
func NewGetCouriersQuery() GetCouriersQuery {
	return GetCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetCouriersQueryIsNotConstructed)
}

// GetCouriersQueryResponse represents one courier in the read model.
type GetCouriersQueryResponse struct {
	Email     string
	Name      string
	Zones     []string
	Status    string
	IsBlocked bool
}
