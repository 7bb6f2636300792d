package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDestination(t *testing.T) kernel.Destination {
	t.Helper()
	d, err := kernel.NewDestination("Calle 100 #15-20", "bogota", "", nil)
	require.NoError(t, err)
	return d
}

func validItems(t *testing.T) []order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), 2, "", "")
	require.NoError(t, err)
	return []order.Item{item}
}

func validEmail(t *testing.T, value string) kernel.Email {
	t.Helper()
	email, err := kernel.NewEmail(value)
	require.NoError(t, err)
	return email
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "purchase-1", validDestination(t), validItems(t), time.Now())
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	validID := kernel.NewUUID()
	createdAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("should create pending order with all valid parameters", func(t *testing.T) {
		o, err := order.NewOrder(validID, "purchase-1", validDestination(t), validItems(t), createdAt)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(validID))
		assert.Equal(t, "purchase-1", o.PurchaseID())
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.AssignedTo())
		assert.Empty(t, o.EligibleCouriers())
		assert.Empty(t, o.Zone())
		assert.Equal(t, createdAt, o.CreatedAt())
	})

	t.Run("should stamp initial history entry", func(t *testing.T) {
		o, err := order.NewOrder(validID, "purchase-1", validDestination(t), validItems(t), createdAt)

		require.NoError(t, err)
		history := o.History()
		require.Len(t, history, 1)
		assert.Equal(t, order.Pending, history[0].Status())
		assert.Equal(t, createdAt, history[0].At())
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, "purchase-1", validDestination(t), validItems(t), createdAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
	})

	t.Run("should fail with empty purchase reference", func(t *testing.T) {
		o, err := order.NewOrder(validID, "  ", validDestination(t), validItems(t), createdAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, order.ErrPurchaseIDIsRequired)
	})

	t.Run("should fail with no items", func(t *testing.T) {
		o, err := order.NewOrder(validID, "purchase-1", validDestination(t), nil, createdAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, order.ErrItemsAreRequired)
	})

	t.Run("should fail with unconstructed destination", func(t *testing.T) {
		var destination kernel.Destination

		o, err := order.NewOrder(validID, "purchase-1", destination, validItems(t), createdAt)

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should handle multiple validation errors", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, "", validDestination(t), nil, createdAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "purchaseId")
		assert.Contains(t, err.Error(), "items")
	})
}

func TestOrder_SetRoute(t *testing.T) {
	t.Run("should attach zone and distance once", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.SetRoute("norte", 12))
		assert.Equal(t, "norte", o.Zone())
		assert.Equal(t, 12, o.EstimatedDistance())
	})

	t.Run("should normalize the zone label", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.SetRoute("  NORTE ", 12))
		assert.Equal(t, "norte", o.Zone())
	})

	t.Run("should refuse changing an existing route", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.SetRoute("norte", 12))

		err := o.SetRoute("sur", 15)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "route is immutable")
		assert.Equal(t, "norte", o.Zone())
	})

	t.Run("should reject empty zone", func(t *testing.T) {
		o := newPendingOrder(t)

		require.Error(t, o.SetRoute("  ", 12))
	})

	t.Run("should reject negative distance", func(t *testing.T) {
		o := newPendingOrder(t)

		require.Error(t, o.SetRoute("norte", -1))
	})
}

func TestOrder_Assign(t *testing.T) {
	courier := func(t *testing.T) kernel.Email { return validEmail(t, "rider@example.com") }
	now := time.Now()

	t.Run("should assign pending order directly", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.Assign(courier(t), order.AssignReasonSoleCourier, now)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.AssignedTo())
		assert.True(t, o.AssignedTo().IsEqual(courier(t)))
		assert.Equal(t, order.AssignReasonSoleCourier, o.AssignedReason())
	})

	t.Run("should close the window when assigning a competing order", func(t *testing.T) {
		o := newPendingOrder(t)
		eligible := []kernel.Email{
			validEmail(t, "c1@example.com"),
			validEmail(t, "c2@example.com"),
		}
		require.NoError(t, o.OpenCompetition(eligible, now))

		err := o.Assign(courier(t), order.AssignReasonManual, now.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		assert.Empty(t, o.EligibleCouriers())
		require.NotNil(t, o.CompetitionEnded())
	})

	t.Run("should fail from fulfillment statuses", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(courier(t), order.AssignReasonManual, now))
		require.NoError(t, o.Advance(order.PickedUp, "", now))

		err := o.Assign(validEmail(t, "other@example.com"), order.AssignReasonManual, now)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrIllegalTransition)
	})

	t.Run("should fail with unconstructed courier", func(t *testing.T) {
		o := newPendingOrder(t)
		var invalid kernel.Email

		require.Error(t, o.Assign(invalid, order.AssignReasonManual, now))
		assert.Equal(t, order.Pending, o.Status())
	})
}

func TestOrder_OpenCompetition(t *testing.T) {
	now := time.Now()

	t.Run("should open window with two couriers", func(t *testing.T) {
		o := newPendingOrder(t)
		eligible := []kernel.Email{
			validEmail(t, "c1@example.com"),
			validEmail(t, "c2@example.com"),
		}

		err := o.OpenCompetition(eligible, now)

		require.NoError(t, err)
		assert.Equal(t, order.Competing, o.Status())
		assert.Len(t, o.EligibleCouriers(), 2)
		require.NotNil(t, o.CompetitionStarted())
		assert.Equal(t, now, *o.CompetitionStarted())
		assert.Nil(t, o.CompetitionEnded())
	})

	t.Run("should refuse a single candidate", func(t *testing.T) {
		o := newPendingOrder(t)

		err := o.OpenCompetition([]kernel.Email{validEmail(t, "c1@example.com")}, now)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 2 couriers")
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("should refuse reopening on assigned order", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(validEmail(t, "rider@example.com"), order.AssignReasonManual, now))

		err := o.OpenCompetition([]kernel.Email{
			validEmail(t, "c1@example.com"),
			validEmail(t, "c2@example.com"),
		}, now)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrIllegalTransition)
	})
}

func TestOrder_Accept(t *testing.T) {
	now := time.Now()

	c1 := func(t *testing.T) kernel.Email { return validEmail(t, "c1@example.com") }
	c2 := func(t *testing.T) kernel.Email { return validEmail(t, "c2@example.com") }

	newCompetingOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o := newPendingOrder(t)
		require.NoError(t, o.OpenCompetition([]kernel.Email{c1(t), c2(t)}, now))
		return o
	}

	t.Run("should assign the winner and report losers", func(t *testing.T) {
		o := newCompetingOrder(t)

		losers, err := o.Accept(c2(t), now.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.AssignedTo())
		assert.True(t, o.AssignedTo().IsEqual(c2(t)))
		assert.Equal(t, order.AssignReasonCompetition, o.AssignedReason())
		assert.Empty(t, o.EligibleCouriers())
		require.Len(t, losers, 1)
		assert.True(t, losers[0].IsEqual(c1(t)))
		require.NotNil(t, o.CompetitionEnded())
	})

	t.Run("should reject the second acceptor after the race is decided", func(t *testing.T) {
		o := newCompetingOrder(t)
		_, err := o.Accept(c2(t), now.Add(time.Minute))
		require.NoError(t, err)

		_, err = o.Accept(c1(t), now.Add(2*time.Minute))

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrCompetitionClosed)
		assert.True(t, o.AssignedTo().IsEqual(c2(t)))
	})

	t.Run("should reject courier outside the eligible set", func(t *testing.T) {
		o := newCompetingOrder(t)

		_, err := o.Accept(validEmail(t, "stranger@example.com"), now)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrNotEligible)
		assert.Equal(t, order.Competing, o.Status())
	})

	t.Run("should reject accept on pending order", func(t *testing.T) {
		o := newPendingOrder(t)

		_, err := o.Accept(c1(t), now)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrCompetitionClosed)
	})
}

func TestOrder_ExpireCompetition(t *testing.T) {
	now := time.Now()

	t.Run("should return competing order to pending", func(t *testing.T) {
		o := newPendingOrder(t)
		eligible := []kernel.Email{
			validEmail(t, "c1@example.com"),
			validEmail(t, "c2@example.com"),
		}
		require.NoError(t, o.OpenCompetition(eligible, now))

		former, err := o.ExpireCompetition(now.Add(10 * time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.Pending, o.Status())
		assert.Empty(t, o.EligibleCouriers())
		assert.Len(t, former, 2)
		require.NotNil(t, o.CompetitionEnded())

		history := o.History()
		last := history[len(history)-1]
		assert.Equal(t, order.Pending, last.Status())
		assert.Equal(t, "competition expired", last.Notes())
	})

	t.Run("should fail when not competing", func(t *testing.T) {
		o := newPendingOrder(t)

		_, err := o.ExpireCompetition(now)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrCompetitionClosed)
	})
}

func TestOrder_Advance(t *testing.T) {
	now := time.Now()

	newAssignedOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(validEmail(t, "rider@example.com"), order.AssignReasonManual, now))
		return o
	}

	t.Run("should walk the full fulfillment path", func(t *testing.T) {
		o := newAssignedOrder(t)

		require.NoError(t, o.Advance(order.PickedUp, "", now))
		require.NoError(t, o.Advance(order.InTransit, "", now))
		require.NoError(t, o.Advance(order.Delivered, "left at door", now))

		assert.Equal(t, order.Delivered, o.Status())
		require.NotNil(t, o.AssignedTo())

		history := o.History()
		last := history[len(history)-1]
		assert.Equal(t, "left at door", last.Notes())
	})

	t.Run("should refuse skipping a step", func(t *testing.T) {
		o := newAssignedOrder(t)

		err := o.Advance(order.Delivered, "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrIllegalTransition)
		assert.Equal(t, order.Assigned, o.Status())
	})

	t.Run("should refuse assignment edges", func(t *testing.T) {
		o := newPendingOrder(t)

		for _, next := range []order.Status{order.Pending, order.Competing, order.Assigned} {
			err := o.Advance(next, "", now)
			require.Error(t, err)
			assert.ErrorIs(t, err, order.ErrIllegalTransition)
		}
	})

	t.Run("should clear assignment on cancel", func(t *testing.T) {
		o := newAssignedOrder(t)

		require.NoError(t, o.Advance(order.Cancelled, "customer cancelled", now))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Nil(t, o.AssignedTo())
		assert.Empty(t, o.EligibleCouriers())
	})

	t.Run("should refuse cancel after delivery", func(t *testing.T) {
		o := newAssignedOrder(t)
		require.NoError(t, o.Advance(order.PickedUp, "", now))
		require.NoError(t, o.Advance(order.InTransit, "", now))
		require.NoError(t, o.Advance(order.Delivered, "", now))

		err := o.Advance(order.Cancelled, "", now)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrIllegalTransition)
	})
}

func TestOrder_MarkEmergency(t *testing.T) {
	now := time.Now()

	t.Run("should set the flag without changing status", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.MarkEmergency("customer waiting outside"))

		assert.True(t, o.IsEmergency())
		assert.Equal(t, "customer waiting outside", o.EmergencyReason())
		assert.Equal(t, order.Pending, o.Status())
		assert.Len(t, o.History(), 1)
	})

	t.Run("should work in any non-terminal status", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Assign(validEmail(t, "rider@example.com"), order.AssignReasonManual, now))
		require.NoError(t, o.Advance(order.PickedUp, "", now))

		require.NoError(t, o.MarkEmergency("fragile"))
		assert.True(t, o.IsEmergency())
	})

	t.Run("should fail on terminal order", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Advance(order.Cancelled, "", now))

		err := o.MarkEmergency("too late")

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrOrderIsTerminal)
		assert.False(t, o.IsEmergency())
	})
}

func TestOrder_SetPriority(t *testing.T) {
	t.Run("should set priority", func(t *testing.T) {
		o := newPendingOrder(t)

		require.NoError(t, o.SetPriority(5))
		assert.Equal(t, 5, o.Priority())
	})

	t.Run("should reject negative priority", func(t *testing.T) {
		o := newPendingOrder(t)

		require.Error(t, o.SetPriority(-1))
	})

	t.Run("should fail on terminal order", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Advance(order.Cancelled, "", time.Now()))

		err := o.SetPriority(3)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrOrderIsTerminal)
	})
}

func TestRestoreOrder(t *testing.T) {
	now := time.Now()

	baseParams := func(t *testing.T) order.RestoreOrderParams {
		t.Helper()
		return order.RestoreOrderParams{
			ID:          kernel.NewUUID(),
			PurchaseID:  "purchase-1",
			Destination: validDestination(t),
			Status:      order.Pending,
			Items:       validItems(t),
			CreatedAt:   now,
		}
	}

	t.Run("should restore a persisted order", func(t *testing.T) {
		params := baseParams(t)
		params.Zone = "norte"
		params.EstimatedDistance = 12
		params.Priority = 2
		params.RecordVersion = 7

		o, err := order.RestoreOrder(params)

		require.NoError(t, err)
		assert.Equal(t, "norte", o.Zone())
		assert.Equal(t, 2, o.Priority())
		assert.Equal(t, 7, o.RecordVersion())
	})

	t.Run("should restore an assigned order with its courier", func(t *testing.T) {
		courier := validEmail(t, "rider@example.com")
		params := baseParams(t)
		params.Status = order.Assigned
		params.AssignedTo = &courier
		params.AssignedReason = order.AssignReasonCompetition

		o, err := order.RestoreOrder(params)

		require.NoError(t, err)
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.AssignedTo())
		assert.True(t, o.AssignedTo().IsEqual(courier))
	})

	t.Run("should reject assigned order without courier", func(t *testing.T) {
		params := baseParams(t)
		params.Status = order.Assigned

		_, err := order.RestoreOrder(params)

		require.Error(t, err)
	})

	t.Run("should reject pending order with courier", func(t *testing.T) {
		courier := validEmail(t, "rider@example.com")
		params := baseParams(t)
		params.AssignedTo = &courier

		_, err := order.RestoreOrder(params)

		require.Error(t, err)
	})

	t.Run("should reject competing order without eligible couriers", func(t *testing.T) {
		params := baseParams(t)
		params.Status = order.Competing

		_, err := order.RestoreOrder(params)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "eligible couriers")
	})

	t.Run("should reject eligible couriers outside competition", func(t *testing.T) {
		params := baseParams(t)
		params.EligibleCouriers = []kernel.Email{validEmail(t, "c1@example.com")}

		_, err := order.RestoreOrder(params)

		require.Error(t, err)
	})
}

func TestNewItem(t *testing.T) {
	t.Run("should create valid item", func(t *testing.T) {
		productID := kernel.NewUUID()

		item, err := order.NewItem(productID, 3, "v2", "m")

		require.NoError(t, err)
		require.NoError(t, item.Validate())
		assert.True(t, item.ProductID().IsEqual(productID))
		assert.Equal(t, 3, item.Quantity())
		assert.Equal(t, "v2", item.VersionID())
		assert.Equal(t, "M", item.SizeCode())
	})

	t.Run("should allow empty selectors", func(t *testing.T) {
		item, err := order.NewItem(kernel.NewUUID(), 1, "", "")

		require.NoError(t, err)
		assert.Empty(t, item.VersionID())
		assert.Empty(t, item.SizeCode())
	})

	t.Run("should reject zero quantity", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), 0, "", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "quantity")
	})

	t.Run("should reject invalid product reference", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := order.NewItem(invalidID, 1, "", "")

		require.Error(t, err)
	})
}
