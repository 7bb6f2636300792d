package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderFor(t *testing.T, city string) *order.Order {
	t.Helper()
	d, err := kernel.NewDestination("Calle 100 #15-20", city, "", nil)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), 1, "", "")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "purchase-1", d, []order.Item{item}, time.Now())
	require.NoError(t, err)
	return o
}

func TestDispatcher_Dispatch(t *testing.T) {
	dispatcher := services.NewDispatcher()
	now := time.Now()

	t.Run("should leave order pending when nobody is eligible", func(t *testing.T) {
		o := newOrderFor(t, "suba")
		pool := []*courier.Courier{makeCourier(t, "sur@example.com", "sur")}

		result, err := dispatcher.Dispatch(o, pool, now)

		require.NoError(t, err)
		assert.Equal(t, services.OutcomeManual, result.Outcome)
		assert.Empty(t, result.Couriers)
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, "norte", o.Zone())
	})

	t.Run("should assign directly to a sole eligible courier", func(t *testing.T) {
		o := newOrderFor(t, "suba")
		pool := []*courier.Courier{
			makeCourier(t, "norte@example.com", "norte"),
			makeCourier(t, "sur@example.com", "sur"),
		}

		result, err := dispatcher.Dispatch(o, pool, now)

		require.NoError(t, err)
		assert.Equal(t, services.OutcomeDirect, result.Outcome)
		require.Len(t, result.Couriers, 1)
		assert.Equal(t, "norte@example.com", result.Couriers[0].String())
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.AssignedTo())
		assert.Equal(t, order.AssignReasonSoleCourier, o.AssignedReason())
	})

	t.Run("should open competition for several eligible couriers", func(t *testing.T) {
		o := newOrderFor(t, "suba")
		pool := []*courier.Courier{
			makeCourier(t, "c1@example.com", "norte"),
			makeCourier(t, "c2@example.com", "norte"),
			makeCourier(t, "c3@example.com", "norte"),
		}

		result, err := dispatcher.Dispatch(o, pool, now)

		require.NoError(t, err)
		assert.Equal(t, services.OutcomeCompetition, result.Outcome)
		assert.Len(t, result.Couriers, 3)
		assert.Equal(t, order.Competing, o.Status())
		assert.Len(t, o.EligibleCouriers(), 3)
		require.NotNil(t, o.CompetitionStarted())
	})

	t.Run("should route unmatched destinations to general couriers", func(t *testing.T) {
		o := newOrderFor(t, "la calera")
		pool := []*courier.Courier{makeCourier(t, "anywhere@example.com", "general")}

		result, err := dispatcher.Dispatch(o, pool, now)

		require.NoError(t, err)
		assert.Equal(t, services.OutcomeDirect, result.Outcome)
		assert.Equal(t, "general", o.Zone())
		assert.Equal(t, 20, o.EstimatedDistance())
	})

	t.Run("should fail on an already routed order", func(t *testing.T) {
		o := newOrderFor(t, "suba")
		require.NoError(t, o.SetRoute("sur", 15))

		_, err := dispatcher.Dispatch(o, nil, now)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "route is immutable")
	})

	t.Run("should fail on nil order", func(t *testing.T) {
		_, err := dispatcher.Dispatch(nil, nil, now)

		require.Error(t, err)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})

	t.Run("outcome strings", func(t *testing.T) {
		assert.Equal(t, "manual", services.OutcomeManual.String())
		assert.Equal(t, "direct", services.OutcomeDirect.String())
		assert.Equal(t, "competition", services.OutcomeCompetition.String())
	})
}
