package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It implements a state machine with defined transitions; every status
// change in the system goes through this table.
//
// State transitions:
//
//	Pending ──┬──> Assigned ──> PickedUp ──> InTransit ──> Delivered
//	          │        ^
//	          └──> Competing
//	               (expiry falls back to Pending)
//
//	any non-terminal state ──> Cancelled
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status. Orders stay pending when no courier is
	// eligible and wait for manual assignment.
	Pending

	// Competing means several eligible couriers may race to accept the order;
	// the first successful accept wins.
	Competing

	// Assigned means exactly one courier owns the order.
	Assigned

	// PickedUp means the assigned courier collected the package.
	PickedUp

	// InTransit means the package is on its way to the customer.
	InTransit

	// Delivered is the successful terminal state.
	Delivered

	// Cancelled is the unsuccessful terminal state, reachable from any
	// non-terminal status.
	Cancelled
)

// ErrIllegalTransition is the unwrap target for IllegalTransitionError.
var ErrIllegalTransition = errors.New("illegal status transition")

// IllegalTransitionError is returned when an edge is not permitted from the
// order's current status. It signals a programming or operations error and is
// logged loudly by callers; the order's status is left unchanged.
type IllegalTransitionError struct {
	From Status
	To   Status
}

// NewIllegalTransitionError creates an IllegalTransitionError for the edge From -> To.
func NewIllegalTransitionError(from Status, to Status) *IllegalTransitionError {
	return &IllegalTransitionError{From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Competing: "competing",
		Assigned:  "assigned",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Competing: "competing",
		Assigned:  "assigned",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// getTransitions returns the legal edges of the state machine.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Assigned, Competing, Cancelled},
		Competing: {Assigned, Pending, Cancelled},
		Assigned:  {PickedUp, Cancelled},
		PickedUp:  {InTransit, Cancelled},
		InTransit: {Delivered, Cancelled},
		Delivered: {},
		Cancelled: {},
	}
}

// StatusFromString parses the wire representation of a status ("pending",
// "picked_up", ...). Returns a validation error for unknown values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status. Implements fmt.Stringer;
// invalid values render as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions exist from this status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether the edge s -> next exists in the table.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates the edge s -> next and returns the new status.
// Illegal edges fail with IllegalTransitionError and leave the caller's
// status untouched.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, NewIllegalTransitionError(s, next)
	}
	return next, nil
}

// RequiresCourier reports whether orders in this status must have a courier
// assigned. assignedTo is set if and only if this holds.
func (s Status) RequiresCourier() bool {
	return s == Assigned || s == PickedUp || s == InTransit || s == Delivered
}

// ValidateCourierAssignment checks the consistency between a status and the
// presence of an assigned courier.
func (s Status) ValidateCourierAssignment(hasCourier bool) error {
	if hasCourier && !s.RequiresCourier() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have a courier", s))
	}
	if !hasCourier && s.RequiresCourier() {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to have no courier", s))
	}
	return nil
}
