package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	t.Run("should create valid email", func(t *testing.T) {
		email, err := kernel.NewEmail("courier@example.com")

		require.NoError(t, err)
		require.NoError(t, email.Validate())
		assert.Equal(t, "courier@example.com", email.String())
	})

	t.Run("should normalize case and whitespace", func(t *testing.T) {
		email, err := kernel.NewEmail("  Courier@Example.COM  ")

		require.NoError(t, err)
		assert.Equal(t, "courier@example.com", email.String())
	})

	t.Run("should treat differently cased addresses as equal", func(t *testing.T) {
		first, _ := kernel.NewEmail("rider@example.com")
		second, _ := kernel.NewEmail("RIDER@example.com")

		assert.True(t, first.IsEqual(second))
	})

	t.Run("should fail on empty input", func(t *testing.T) {
		_, err := kernel.NewEmail("   ")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("should fail without at sign", func(t *testing.T) {
		_, err := kernel.NewEmail("courier.example.com")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not a valid email address")
	})

	t.Run("should fail without user part", func(t *testing.T) {
		_, err := kernel.NewEmail("@example.com")

		require.Error(t, err)
	})

	t.Run("should fail without domain part", func(t *testing.T) {
		_, err := kernel.NewEmail("courier@")

		require.Error(t, err)
	})

	t.Run("should fail without dot in domain", func(t *testing.T) {
		_, err := kernel.NewEmail("courier@localhost")

		require.Error(t, err)
	})
}

func TestEmail_Validate(t *testing.T) {
	t.Run("should fail for zero value", func(t *testing.T) {
		var email kernel.Email

		err := email.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrEmailIsNotConstructed, err)
	})
}
