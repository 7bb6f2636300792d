package order

import "time"

// StatusChange is one entry of an order's transition history: which status
// was entered, when, and the operator notes attached to the transition.
type StatusChange struct {
	status Status
	at     time.Time
	notes  string
}

// NewStatusChange creates a history entry for entering status at the given time.
func NewStatusChange(status Status, at time.Time, notes string) (StatusChange, error) {
	if err := status.Validate(); err != nil {
		return StatusChange{}, err
	}
	return StatusChange{status: status, at: at, notes: notes}, nil
}

// Status returns the status that was entered.
func (s StatusChange) Status() Status {
	return s.status
}

// At returns when the status was entered.
func (s StatusChange) At() time.Time {
	return s.at
}

// Notes returns the operator notes attached to the transition, if any.
func (s StatusChange) Notes() string {
	return s.notes
}
