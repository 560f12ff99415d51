package reconcile

import (
	"context"
	"testing"

	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeTotal(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memStore, *ordering.RequestEnvelope, []*ordering.LineItem) {
		t.Helper()
		store := newMemStore()
		org, err := identity.NewOrganization("Org", "", "")
		require.NoError(t, err)
		envelope, err := ordering.NewRequestEnvelope(org.ID, shared.NewID())
		require.NoError(t, err)
		store.requests[envelope.ID] = envelope

		itemA, err := ordering.NewLineItem(envelope.ID, shared.NewID(), "A4 80g",
			valueobject.NewMoneyKRW(1000), 2)
		require.NoError(t, err)
		itemB, err := ordering.NewLineItem(envelope.ID, shared.NewID(), "A4 75g",
			valueobject.NewMoneyKRW(500), 3)
		require.NoError(t, err)
		store.lineItems[itemA.ID] = itemA
		store.lineItems[itemB.ID] = itemB
		return store, envelope, []*ordering.LineItem{itemA, itemB}
	}

	t.Run("total is the full sum of price times quantity", func(t *testing.T) {
		store, envelope, _ := setup(t)
		total, err := RecomputeTotal(ctx, store, EnvelopeRequest, envelope.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3500), total)
		assert.Equal(t, int64(3500), envelope.TotalAmount.Amount())
	})

	t.Run("a drifted stored total self-heals", func(t *testing.T) {
		store, envelope, _ := setup(t)
		envelope.TotalAmount = valueobject.NewMoneyKRW(99999)

		total, err := RecomputeTotal(ctx, store, EnvelopeRequest, envelope.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3500), total)
	})

	t.Run("items removed behind the envelope's back are reflected", func(t *testing.T) {
		store, envelope, items := setup(t)
		_, err := RecomputeTotal(ctx, store, EnvelopeRequest, envelope.ID)
		require.NoError(t, err)

		delete(store.lineItems, items[0].ID)
		total, err := RecomputeTotal(ctx, store, EnvelopeRequest, envelope.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), total)
	})

	t.Run("an envelope with no items totals zero", func(t *testing.T) {
		store, envelope, items := setup(t)
		for _, item := range items {
			delete(store.lineItems, item.ID)
		}
		total, err := RecomputeTotal(ctx, store, EnvelopeRequest, envelope.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.True(t, envelope.TotalAmount.IsZero())
	})
}
