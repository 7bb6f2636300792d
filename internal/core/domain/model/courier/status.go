package courier

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents a courier's registration standing.
// It is orthogonal to blocking: an active courier may still be blocked.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusActive means the courier is registered and may receive orders.
	StatusActive

	// StatusInactive means the courier is registered but not working;
	// inactive couriers are never eligible for dispatch.
	StatusInactive
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:  "unknown",
		StatusActive:   "active",
		StatusInactive: "inactive",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusActive:   "active",
		StatusInactive: "inactive",
	}
}

// StatusFromString parses a courier status from its string representation.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid courier status", s))
}

// Validate checks that the status is one of the defined values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid courier status", s))
	}
	return nil
}

// String implements fmt.Stringer. Invalid values render as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
