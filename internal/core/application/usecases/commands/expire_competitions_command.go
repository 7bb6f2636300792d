package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrExpireCompetitionsCommandIsNotConstructed = errors.New(
	"ExpireCompetitionsCommand must be created via NewExpireCompetitionsCommand constructor",
)

// ExpireCompetitionsCommand represents a sweep closing competition windows
// that have been open longer than the configured time-to-live.
type ExpireCompetitionsCommand struct { //nolint:recvcheck //using for validation
	ttl time.Duration

	guard guard.ConstructorGuard
}

// NewExpireCompetitionsCommand creates a competition expiry sweep command.
func NewExpireCompetitionsCommand(ttl time.Duration) (ExpireCompetitionsCommand, error) {
	cmd := ExpireCompetitionsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setTTL(ttl); err != nil {
		return ExpireCompetitionsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireCompetitionsCommand) Validate() error {
	return c.guard.Validate(ErrExpireCompetitionsCommandIsNotConstructed)
}

// TTL returns how long a competition window may stay open.
func (c ExpireCompetitionsCommand) TTL() time.Duration {
	return c.ttl
}

func (c *ExpireCompetitionsCommand) setTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return errs.NewValueIsRequiredError("ttl")
	}

	c.ttl = ttl
	return nil
}
