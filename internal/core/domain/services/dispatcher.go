package services

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// DispatchOutcome names the strategy the Dispatcher chose for an order.
type DispatchOutcome int

const (
	// OutcomeManual means no courier was eligible: the order stays pending
	// until an operator assigns it. This is a terminal dispatch outcome,
	// not a retry.
	OutcomeManual DispatchOutcome = iota
	// OutcomeDirect means exactly one courier was eligible and the order
	// was assigned to them directly.
	OutcomeDirect
	// OutcomeCompetition means several couriers were eligible and the order
	// entered a first-accept-wins competition window.
	OutcomeCompetition
)

// String returns the outcome's wire representation.
func (o DispatchOutcome) String() string {
	switch o {
	case OutcomeDirect:
		return "direct"
	case OutcomeCompetition:
		return "competition"
	default:
		return "manual"
	}
}

// DispatchResult carries the chosen strategy and the couriers to notify.
// For a direct outcome Couriers holds the single assignee; for a competition
// outcome it holds every eligible courier; for manual it is empty.
type DispatchResult struct {
	Outcome  DispatchOutcome
	Couriers []kernel.Email
}

// Dispatcher is the domain service deciding how a newly created order reaches
// its courier. Dispatch is a one-shot decision made once per order; the
// eligible set is never re-evaluated afterwards except by the competition
// expiry path.
//
// Example usage:
//
//	dispatcher := services.NewDispatcher()
//	result, err := dispatcher.Dispatch(newOrder, registeredCouriers, time.Now())
//	if err != nil {
//	    return err
//	}
//	switch result.Outcome {
//	case services.OutcomeDirect:
//	    // notify result.Couriers[0]
//	case services.OutcomeCompetition:
//	    // broadcast to result.Couriers
//	case services.OutcomeManual:
//	    // surface to operators
//	}
type Dispatcher struct {
	resolver  ZoneResolver
	directory CourierDirectory
}

// NewDispatcher creates a Dispatcher with the built-in zone resolver and
// courier directory.
func NewDispatcher() Dispatcher {
	return Dispatcher{
		resolver:  NewZoneResolver(),
		directory: NewCourierDirectory(),
	}
}

// Dispatch resolves the order's zone, selects eligible couriers and applies
// the assignment strategy to the order aggregate:
//
//   - zero eligible couriers: the order stays pending, outcome manual
//   - exactly one: the order is assigned directly, outcome direct
//   - more than one: a competition window opens, outcome competition
//
// The order must be freshly created and still pending.
func (d Dispatcher) Dispatch(o *order.Order, couriers []*courier.Courier, at time.Time) (DispatchResult, error) {
	if err := o.Validate(); err != nil {
		return DispatchResult{}, err
	}

	route := d.resolver.Resolve(o.Destination())
	if err := o.SetRoute(route.Zone, route.EstimatedDistance); err != nil {
		return DispatchResult{}, err
	}

	eligible := d.directory.FindEligible(couriers, route.Zone, o.Destination().City())

	switch len(eligible) {
	case 0:
		return DispatchResult{Outcome: OutcomeManual}, nil

	case 1:
		assignee := eligible[0].Email()
		if err := o.Assign(assignee, order.AssignReasonSoleCourier, at); err != nil {
			return DispatchResult{}, err
		}
		return DispatchResult{Outcome: OutcomeDirect, Couriers: []kernel.Email{assignee}}, nil

	default:
		emails := make([]kernel.Email, 0, len(eligible))
		for _, c := range eligible {
			emails = append(emails, c.Email())
		}
		if err := o.OpenCompetition(emails, at); err != nil {
			return DispatchResult{}, err
		}
		return DispatchResult{Outcome: OutcomeCompetition, Couriers: emails}, nil
	}
}
