package ordering

import (
	"testing"

	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnvelope(t *testing.T) *RequestEnvelope {
	t.Helper()
	env, err := NewRequestEnvelope(shared.NewID(), shared.NewID())
	require.NoError(t, err)
	return env
}

func TestNewRequestEnvelope(t *testing.T) {
	t.Run("starts pending with zero total", func(t *testing.T) {
		env := newTestEnvelope(t)
		assert.Equal(t, RequestStatusPending, env.Status)
		assert.True(t, env.TotalAmount.IsZero())
		assert.Empty(t, env.Items)
	})

	t.Run("rejects empty organization", func(t *testing.T) {
		_, err := NewRequestEnvelope(uuid.Nil, shared.NewID())
		assert.Error(t, err)
	})

	t.Run("rejects empty requester", func(t *testing.T) {
		_, err := NewRequestEnvelope(shared.NewID(), uuid.Nil)
		assert.Error(t, err)
	})
}

func TestRequestEnvelope_AddItem(t *testing.T) {
	t.Run("total is sum of price times quantity", func(t *testing.T) {
		env := newTestEnvelope(t)

		_, err := env.AddItem(shared.NewID(), "Copy Paper A4", valueobject.NewMoneyKRW(1000), 2)
		require.NoError(t, err)
		_, err = env.AddItem(shared.NewID(), "Stapler", valueobject.NewMoneyKRW(500), 3)
		require.NoError(t, err)

		assert.Equal(t, int64(3500), env.TotalAmount.Amount())
		assert.Equal(t, 2, env.ItemCount())
	})

	t.Run("rejects duplicate catalog item", func(t *testing.T) {
		env := newTestEnvelope(t)
		itemID := shared.NewID()

		_, err := env.AddItem(itemID, "Copy Paper A4", valueobject.NewMoneyKRW(1000), 1)
		require.NoError(t, err)

		_, err = env.AddItem(itemID, "Copy Paper A4", valueobject.NewMoneyKRW(1000), 2)
		assert.ErrorIs(t, err, shared.ErrDuplicateLineItem)
	})

	t.Run("rejects items on resolved request", func(t *testing.T) {
		env := newTestEnvelope(t)
		require.NoError(t, env.Approve())

		_, err := env.AddItem(shared.NewID(), "Stapler", valueobject.NewMoneyKRW(500), 1)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		env := newTestEnvelope(t)
		_, err := env.AddItem(shared.NewID(), "Stapler", valueobject.NewMoneyKRW(500), 0)
		assert.Error(t, err)
	})
}

func TestRequestEnvelope_RemoveItem(t *testing.T) {
	env := newTestEnvelope(t)
	item, err := env.AddItem(shared.NewID(), "Copy Paper A4", valueobject.NewMoneyKRW(1000), 2)
	require.NoError(t, err)
	_, err = env.AddItem(shared.NewID(), "Stapler", valueobject.NewMoneyKRW(500), 3)
	require.NoError(t, err)

	require.NoError(t, env.RemoveItem(item.ID))

	assert.Equal(t, 1, env.ItemCount())
	assert.Equal(t, int64(1500), env.TotalAmount.Amount())

	assert.Error(t, env.RemoveItem(shared.NewID()), "unknown item id")
}

func TestRequestEnvelope_Lifecycle(t *testing.T) {
	t.Run("pending resolves to approved", func(t *testing.T) {
		env := newTestEnvelope(t)
		require.NoError(t, env.Approve())
		assert.Equal(t, RequestStatusApproved, env.Status)
		assert.NotNil(t, env.ResolvedAt)
	})

	t.Run("pending resolves to rejected", func(t *testing.T) {
		env := newTestEnvelope(t)
		require.NoError(t, env.Reject())
		assert.Equal(t, RequestStatusRejected, env.Status)
	})

	t.Run("resolution is terminal", func(t *testing.T) {
		env := newTestEnvelope(t)
		require.NoError(t, env.Approve())
		assert.Error(t, env.Reject())
		assert.Error(t, env.Approve())
	})
}

func TestNewOrderFromRequest(t *testing.T) {
	t.Run("copies items and total from approved request", func(t *testing.T) {
		env := newTestEnvelope(t)
		_, err := env.AddItem(shared.NewID(), "Copy Paper A4", valueobject.NewMoneyKRW(1000), 2)
		require.NoError(t, err)
		require.NoError(t, env.Approve())

		order, err := NewOrderFromRequest(env)
		require.NoError(t, err)
		assert.Equal(t, env.ID, order.RequestID)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Equal(t, int64(2000), order.TotalAmount.Amount())
		require.Len(t, order.Items, 1)
		assert.Equal(t, order.ID, order.Items[0].EnvelopeID)
	})

	t.Run("refuses pending request", func(t *testing.T) {
		env := newTestEnvelope(t)
		_, err := NewOrderFromRequest(env)
		assert.Error(t, err)
	})
}

func TestOrderStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusRefunded, true},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
		{OrderStatusRefunded, OrderStatusCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}
