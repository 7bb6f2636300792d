package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Assignment reasons recorded when an order gains its courier.
const (
	// AssignReasonSoleCourier marks a direct assignment: exactly one courier
	// was eligible in the order's zone.
	AssignReasonSoleCourier = "sole courier in zone"
	// AssignReasonCompetition marks an assignment won through first-accept.
	AssignReasonCompetition = "won competition"
	// AssignReasonManual marks an operator override.
	AssignReasonManual = "manual assignment"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when using an improperly initialized Order.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrCompetitionClosed is returned by Accept when the order is no longer
	// competing, typically because another courier already won the race.
	// Callers should refresh order state instead of retrying.
	ErrCompetitionClosed = errors.New("competition is closed")

	// ErrNotEligible is returned by Accept when the caller was never in the
	// order's eligible set.
	ErrNotEligible = errors.New("courier is not eligible for this order")

	// ErrOrderIsTerminal is returned when mutating flags of a delivered or
	// cancelled order.
	ErrOrderIsTerminal = errors.New("order is in a terminal status")

	// ErrPurchaseIDIsRequired is returned when creating an order without the
	// originating purchase reference.
	ErrPurchaseIDIsRequired = errs.NewValueIsRequiredError("purchaseId")

	// ErrItemsAreRequired is returned when creating an order without line items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Order is the delivery order aggregate: one per customer purchase requiring
// courier fulfillment.
//
// Invariants:
//   - assignedTo is set if and only if status ∈ {assigned, picked_up,
//     in_transit, delivered}
//   - eligibleCouriers is non-empty if and only if status == competing
//   - destination, zone, estimated distance and items are immutable once set
//   - every status change goes through the Status transition table and is
//     stamped into the history
type Order struct {
	id          kernel.UUID
	purchaseID  string
	destination kernel.Destination

	zone              string
	estimatedDistance int

	status           Status
	assignedTo       *kernel.Email
	assignedReason   string
	eligibleCouriers []kernel.Email

	isEmergency     bool
	emergencyReason string
	priority        int

	items []Item

	createdAt          time.Time
	competitionStarted *time.Time
	competitionEnded   *time.Time
	history            []StatusChange

	// recordVersion is the optimistic lock counter carried between load and
	// store. Zero for aggregates not yet persisted.
	recordVersion int

	guard guard.ConstructorGuard
}

// NewOrder creates a delivery order in pending status for the given purchase.
// The destination and items are immutable afterwards; the zone is attached
// later, exactly once, via SetRoute.
func NewOrder(
	id kernel.UUID,
	purchaseID string,
	destination kernel.Destination,
	items []Item,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:    Pending,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setPurchaseID(purchaseID),
		o.setDestination(destination),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.stamp(Pending, createdAt, "")
	return o, nil
}

// RestoreOrderParams carries the persisted state of an order back into the domain.
type RestoreOrderParams struct {
	ID                 kernel.UUID
	PurchaseID         string
	Destination        kernel.Destination
	Zone               string
	EstimatedDistance  int
	Status             Status
	AssignedTo         *kernel.Email
	AssignedReason     string
	EligibleCouriers   []kernel.Email
	IsEmergency        bool
	EmergencyReason    string
	Priority           int
	Items              []Item
	CreatedAt          time.Time
	CompetitionStarted *time.Time
	CompetitionEnded   *time.Time
	History            []StatusChange
	RecordVersion      int
}

// RestoreOrder reconstructs an order aggregate from persistence, re-checking
// the status/assignment invariants on the way in.
func RestoreOrder(params RestoreOrderParams) (*Order, error) {
	if err := params.Status.Validate(); err != nil {
		return nil, err
	}
	if err := params.Status.ValidateCourierAssignment(params.AssignedTo != nil); err != nil {
		return nil, err
	}
	if (params.Status == Competing) != (len(params.EligibleCouriers) > 0) {
		return nil, errs.NewValueIsInvalidErrorWithCause("eligibleCouriers",
			fmt.Errorf("eligible couriers must be present exactly while competing, status is %s", params.Status))
	}

	o, err := NewOrder(params.ID, params.PurchaseID, params.Destination, params.Items, params.CreatedAt)
	if err != nil {
		return nil, err
	}

	o.zone = params.Zone
	o.estimatedDistance = params.EstimatedDistance
	o.status = params.Status
	o.assignedTo = params.AssignedTo
	o.assignedReason = params.AssignedReason
	o.eligibleCouriers = append([]kernel.Email(nil), params.EligibleCouriers...)
	o.isEmergency = params.IsEmergency
	o.emergencyReason = params.EmergencyReason
	o.priority = params.Priority
	o.competitionStarted = params.CompetitionStarted
	o.competitionEnded = params.CompetitionEnded
	o.recordVersion = params.RecordVersion
	if len(params.History) > 0 {
		o.history = append([]StatusChange(nil), params.History...)
	}
	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// PurchaseID returns the identity of the originating purchase record.
func (o *Order) PurchaseID() string {
	return o.purchaseID
}

// Destination returns the validated shipping destination.
func (o *Order) Destination() kernel.Destination {
	return o.destination
}

// Zone returns the resolved delivery zone, or "" before routing.
func (o *Order) Zone() string {
	return o.zone
}

// EstimatedDistance returns the informational distance estimate in kilometers.
func (o *Order) EstimatedDistance() int {
	return o.estimatedDistance
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// AssignedTo returns the owning courier, or nil before assignment.
func (o *Order) AssignedTo() *kernel.Email {
	if o.assignedTo == nil {
		return nil
	}
	email := *o.assignedTo
	return &email
}

// AssignedReason returns why the assigned courier owns the order.
func (o *Order) AssignedReason() string {
	return o.assignedReason
}

// EligibleCouriers returns the couriers allowed to accept a competing order.
// Empty in any other status.
func (o *Order) EligibleCouriers() []kernel.Email {
	eligible := make([]kernel.Email, len(o.eligibleCouriers))
	copy(eligible, o.eligibleCouriers)
	return eligible
}

// IsEmergency reports whether the order carries the emergency flag.
func (o *Order) IsEmergency() bool {
	return o.isEmergency
}

// EmergencyReason returns the reason recorded with the emergency flag.
func (o *Order) EmergencyReason() string {
	return o.emergencyReason
}

// Priority returns the order's priority. Higher values are more urgent.
func (o *Order) Priority() int {
	return o.priority
}

// Items returns the order's immutable reservation request.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// CreatedAt returns when the order was created.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CompetitionStarted returns when the competition window opened, or nil.
func (o *Order) CompetitionStarted() *time.Time {
	return copyTime(o.competitionStarted)
}

// CompetitionEnded returns when the competition window closed, or nil.
func (o *Order) CompetitionEnded() *time.Time {
	return copyTime(o.competitionEnded)
}

// RecordVersion returns the optimistic lock counter the aggregate was loaded
// with. Persistence compares it on write to detect concurrent mutations.
func (o *Order) RecordVersion() int {
	return o.recordVersion
}

// History returns the order's status transition history, oldest first.
func (o *Order) History() []StatusChange {
	history := make([]StatusChange, len(o.history))
	copy(history, o.history)
	return history
}

// SetRoute attaches the resolved zone and distance estimate. The route is a
// delivery-location fact, immutable once set.
func (o *Order) SetRoute(zone string, estimatedDistance int) error {
	zone = strings.ToLower(strings.TrimSpace(zone))
	if zone == "" {
		return errs.NewValueIsRequiredError("zone")
	}
	if o.zone != "" {
		return errs.NewValueIsInvalidErrorWithCause("zone",
			errors.New("route is immutable once set"))
	}
	if estimatedDistance < 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimatedDistance",
			fmt.Errorf("%d is negative", estimatedDistance))
	}

	o.zone = zone
	o.estimatedDistance = estimatedDistance
	return nil
}

// Assign gives the order to a single courier, either directly by dispatch
// (sole eligible courier) or manually by an operator. Legal from pending and
// competing; a competing order being manually assigned closes its window.
func (o *Order) Assign(courier kernel.Email, reason string, at time.Time) error {
	if err := courier.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(Assigned)
	if err != nil {
		return err
	}

	if o.status == Competing {
		o.competitionEnded = &at
	}
	o.status = newStatus
	o.assignedTo = &courier
	o.assignedReason = reason
	o.eligibleCouriers = nil
	o.stamp(Assigned, at, reason)
	return nil
}

// OpenCompetition moves a pending order into the competition window.
// At least two eligible couriers are required; a single candidate must be
// assigned directly instead.
func (o *Order) OpenCompetition(eligible []kernel.Email, at time.Time) error {
	if len(eligible) < 2 {
		return errs.NewValueIsInvalidErrorWithCause("eligibleCouriers",
			fmt.Errorf("competition requires at least 2 couriers, got %d", len(eligible)))
	}
	for _, e := range eligible {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	newStatus, err := o.status.TransitionTo(Competing)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.eligibleCouriers = append([]kernel.Email(nil), eligible...)
	o.competitionStarted = &at
	o.competitionEnded = nil
	o.stamp(Competing, at, "")
	return nil
}

// Accept resolves the competition in favor of the calling courier.
// Returns the losing couriers for best-effort notification.
//
// Exactly one Accept per order can succeed: the aggregate is persisted with a
// compare-and-swap write, so a racing acceptor either sees the order still
// competing or fails here with ErrCompetitionClosed.
func (o *Order) Accept(courier kernel.Email, at time.Time) ([]kernel.Email, error) {
	if err := courier.Validate(); err != nil {
		return nil, err
	}

	if o.status != Competing {
		return nil, ErrCompetitionClosed
	}

	eligible := false
	losers := make([]kernel.Email, 0, len(o.eligibleCouriers))
	for _, e := range o.eligibleCouriers {
		if e.IsEqual(courier) {
			eligible = true
			continue
		}
		losers = append(losers, e)
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	o.status = Assigned
	o.assignedTo = &courier
	o.assignedReason = AssignReasonCompetition
	o.eligibleCouriers = nil
	o.competitionEnded = &at
	o.stamp(Assigned, at, AssignReasonCompetition)
	return losers, nil
}

// ExpireCompetition closes a competition window nobody accepted, returning
// the order to pending for manual assignment. Returns the couriers whose
// window closed, for best-effort notification.
func (o *Order) ExpireCompetition(at time.Time) ([]kernel.Email, error) {
	if o.status != Competing {
		return nil, ErrCompetitionClosed
	}

	former := o.eligibleCouriers
	o.status = Pending
	o.eligibleCouriers = nil
	o.competitionEnded = &at
	o.stamp(Pending, at, "competition expired")
	return former, nil
}

// Advance moves the order along its fulfillment path: picked_up, in_transit,
// delivered, or cancelled. Assignment edges are not reachable here; they go
// through Assign, OpenCompetition and Accept. Illegal edges fail with
// IllegalTransitionError and leave the status unchanged.
func (o *Order) Advance(next Status, notes string, at time.Time) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if next == Pending || next == Competing || next == Assigned {
		return NewIllegalTransitionError(o.status, next)
	}

	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	if newStatus == Cancelled {
		// Terminal without a courier: cancelled orders drop assignment and
		// any open competition to keep the status/assignment invariant.
		o.assignedTo = nil
		o.eligibleCouriers = nil
	}
	o.stamp(newStatus, at, notes)
	return nil
}

// MarkEmergency sets the emergency flag. It is an orthogonal flag-set
// operation, not a state transition: legal in any non-terminal status and
// never changes the order's status.
func (o *Order) MarkEmergency(reason string) error {
	if o.status.IsTerminal() {
		return ErrOrderIsTerminal
	}
	o.isEmergency = true
	o.emergencyReason = reason
	return nil
}

// SetPriority updates the order's priority. Legal in any non-terminal status.
func (o *Order) SetPriority(priority int) error {
	if o.status.IsTerminal() {
		return ErrOrderIsTerminal
	}
	if priority < 0 {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is negative", priority))
	}
	o.priority = priority
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) stamp(status Status, at time.Time, notes string) {
	o.history = append(o.history, StatusChange{status: status, at: at, notes: notes})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setPurchaseID(purchaseID string) error {
	if strings.TrimSpace(purchaseID) == "" {
		return ErrPurchaseIDIsRequired
	}
	o.purchaseID = purchaseID
	return nil
}

func (o *Order) setDestination(destination kernel.Destination) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	o.destination = destination
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
