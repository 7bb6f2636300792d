package kernel

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrEmailIsNotConstructed is returned when validating a zero-value Email.
var ErrEmailIsNotConstructed = errs.NewValueIsRequiredError(
	"email must be created via NewEmail constructor")

// Email is the identity of a courier. It is an immutable value object that
// normalizes its input to lower case and enforces a minimal structural check;
// full deliverability is the notification gateway's concern, not the domain's.
type Email struct {
	value string
	guard guard.ConstructorGuard
}

// NewEmail creates a validated Email from its string form.
// The address is trimmed and lower-cased. Returns a validation error for
// empty input or input without a user and domain part.
func NewEmail(value string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return Email{}, errs.NewValueIsRequiredError("email")
	}

	at := strings.Index(normalized, "@")
	if at <= 0 || at == len(normalized)-1 || !strings.Contains(normalized[at:], ".") {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email",
			fmt.Errorf("%q is not a valid email address", normalized))
	}

	return Email{
		value: normalized,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Email was created through NewEmail.
func (e Email) Validate() error {
	return e.guard.Validate(ErrEmailIsNotConstructed)
}

// String returns the normalized address.
func (e Email) String() string {
	return e.value
}

// IsEqual reports whether both emails hold the same normalized address.
func (e Email) IsEqual(other Email) bool {
	return e.value == other.value
}
