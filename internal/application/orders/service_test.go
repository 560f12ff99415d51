package orders

import (
	"context"
	"testing"

	"github.com/bizorder/backend/internal/domain/catalog"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEnvelopes struct {
	byID map[uuid.UUID]*ordering.RequestEnvelope
}

func newFakeEnvelopes() *fakeEnvelopes {
	return &fakeEnvelopes{byID: make(map[uuid.UUID]*ordering.RequestEnvelope)}
}

func (f *fakeEnvelopes) FindByID(ctx context.Context, id uuid.UUID) (*ordering.RequestEnvelope, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeEnvelopes) ListByOrganization(ctx context.Context, organizationID uuid.UUID, status *ordering.RequestStatus) ([]*ordering.RequestEnvelope, error) {
	var out []*ordering.RequestEnvelope
	for _, e := range f.byID {
		if e.OrganizationID != organizationID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEnvelopes) Create(ctx context.Context, envelope *ordering.RequestEnvelope) error {
	f.byID[envelope.ID] = envelope
	return nil
}

func (f *fakeEnvelopes) Update(ctx context.Context, envelope *ordering.RequestEnvelope) error {
	f.byID[envelope.ID] = envelope
	return nil
}

type fakeOrders struct {
	byID map[uuid.UUID]*ordering.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: make(map[uuid.UUID]*ordering.Order)}
}

func (f *fakeOrders) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	if o, ok := f.byID[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeOrders) ListByOrganization(ctx context.Context, organizationID uuid.UUID, status *ordering.OrderStatus) ([]*ordering.Order, error) {
	var out []*ordering.Order
	for _, o := range f.byID {
		if o.OrganizationID != organizationID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) Create(ctx context.Context, order *ordering.Order) error {
	f.byID[order.ID] = order
	return nil
}

func (f *fakeOrders) Update(ctx context.Context, order *ordering.Order) error {
	f.byID[order.ID] = order
	return nil
}

type fakeCarts struct {
	byAccount map[uuid.UUID]*ordering.Cart
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{byAccount: make(map[uuid.UUID]*ordering.Cart)}
}

func (f *fakeCarts) FindByAccount(ctx context.Context, organizationID, accountID uuid.UUID) (*ordering.Cart, error) {
	if c, ok := f.byAccount[accountID]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCarts) Save(ctx context.Context, cart *ordering.Cart) error {
	f.byAccount[cart.AccountID] = cart
	return nil
}

type fakeCatalog struct {
	byID map[uuid.UUID]*catalog.CatalogItem
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{byID: make(map[uuid.UUID]*catalog.CatalogItem)}
}

func (f *fakeCatalog) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CatalogItem, error) {
	if item, ok := f.byID[id]; ok {
		return item, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCatalog) add(t *testing.T, orgID uuid.UUID, name string, price int64) *catalog.CatalogItem {
	t.Helper()
	item, err := catalog.NewCatalogItem(orgID, shared.NewID(), name, "",
		valueobject.NewMoneyKRW(price))
	require.NoError(t, err)
	f.byID[item.ID] = item
	return item
}

type fixture struct {
	requests *RequestService
	orders   *OrderService
	carts    *CartService

	envelopeRepo *fakeEnvelopes
	orderRepo    *fakeOrders
	cartRepo     *fakeCarts
	catalogRepo  *fakeCatalog

	orgID     uuid.UUID
	accountID uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		envelopeRepo: newFakeEnvelopes(),
		orderRepo:    newFakeOrders(),
		cartRepo:     newFakeCarts(),
		catalogRepo:  newFakeCatalog(),
		orgID:        shared.NewID(),
		accountID:    shared.NewID(),
	}
	logger := zap.NewNop()
	f.requests = NewRequestService(fakeTx{}, f.envelopeRepo, f.orderRepo, f.cartRepo, f.catalogRepo, logger)
	f.orders = NewOrderService(fakeTx{}, f.orderRepo, logger)
	f.carts = NewCartService(fakeTx{}, f.cartRepo, f.catalogRepo, logger)
	return f
}

func TestRequestServiceLineItems(t *testing.T) {
	ctx := context.Background()

	t.Run("adding items recomputes the total", func(t *testing.T) {
		f := newFixture()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)
		pens := f.catalogRepo.add(t, f.orgID, "Ballpoint", 500)

		envelope, err := f.requests.CreateRequest(ctx, f.orgID, f.accountID, "")
		require.NoError(t, err)

		_, err = f.requests.AddLineItem(ctx, envelope.ID, paper.ID, 2)
		require.NoError(t, err)
		envelope, err = f.requests.AddLineItem(ctx, envelope.ID, pens.ID, 3)
		require.NoError(t, err)

		assert.Equal(t, int64(3500), envelope.TotalAmount.Amount())
	})

	t.Run("the same catalog item twice is rejected", func(t *testing.T) {
		f := newFixture()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)
		envelope, err := f.requests.CreateRequest(ctx, f.orgID, f.accountID, "")
		require.NoError(t, err)

		_, err = f.requests.AddLineItem(ctx, envelope.ID, paper.ID, 1)
		require.NoError(t, err)
		_, err = f.requests.AddLineItem(ctx, envelope.ID, paper.ID, 1)
		assert.ErrorIs(t, err, shared.ErrDuplicateLineItem)
	})

	t.Run("an inactive catalog item cannot be added", func(t *testing.T) {
		f := newFixture()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)
		paper.Deactivate()
		envelope, err := f.requests.CreateRequest(ctx, f.orgID, f.accountID, "")
		require.NoError(t, err)

		_, err = f.requests.AddLineItem(ctx, envelope.ID, paper.ID, 1)
		require.Error(t, err)
		assert.Empty(t, envelope.Items)
	})

	t.Run("a later price change leaves the snapshot alone", func(t *testing.T) {
		f := newFixture()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)
		envelope, err := f.requests.CreateRequest(ctx, f.orgID, f.accountID, "")
		require.NoError(t, err)
		_, err = f.requests.AddLineItem(ctx, envelope.ID, paper.ID, 2)
		require.NoError(t, err)

		require.NoError(t, paper.ChangePrice(valueobject.NewMoneyKRW(9000)))

		envelope, err = f.requests.GetRequest(ctx, envelope.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2000), envelope.TotalAmount.Amount())
	})

	t.Run("removing an item recomputes the total", func(t *testing.T) {
		f := newFixture()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)
		pens := f.catalogRepo.add(t, f.orgID, "Ballpoint", 500)
		envelope, err := f.requests.CreateRequest(ctx, f.orgID, f.accountID, "")
		require.NoError(t, err)
		_, err = f.requests.AddLineItem(ctx, envelope.ID, paper.ID, 2)
		require.NoError(t, err)
		envelope, err = f.requests.AddLineItem(ctx, envelope.ID, pens.ID, 3)
		require.NoError(t, err)

		item := envelope.GetItemByCatalogItem(paper.ID)
		require.NotNil(t, item)
		envelope, err = f.requests.RemoveLineItem(ctx, envelope.ID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), envelope.TotalAmount.Amount())
	})

	t.Run("changing a quantity recomputes the total", func(t *testing.T) {
		f := newFixture()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)
		envelope, err := f.requests.CreateRequest(ctx, f.orgID, f.accountID, "")
		require.NoError(t, err)
		envelope, err = f.requests.AddLineItem(ctx, envelope.ID, paper.ID, 2)
		require.NoError(t, err)

		item := envelope.GetItemByCatalogItem(paper.ID)
		envelope, err = f.requests.UpdateLineItemQuantity(ctx, envelope.ID, item.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), envelope.TotalAmount.Amount())
	})
}

func TestRequestServiceResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("approval derives an order with copied items", func(t *testing.T) {
		f := newFixture()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)
		envelope, err := f.requests.CreateRequest(ctx, f.orgID, f.accountID, "")
		require.NoError(t, err)
		_, err = f.requests.AddLineItem(ctx, envelope.ID, paper.ID, 2)
		require.NoError(t, err)

		order, err := f.requests.Approve(ctx, envelope.ID)
		require.NoError(t, err)

		assert.Equal(t, ordering.OrderStatusPending, order.Status)
		assert.Equal(t, envelope.ID, order.RequestID)
		assert.Equal(t, int64(2000), order.TotalAmount.Amount())
		require.Len(t, order.Items, 1)
		assert.NotEqual(t, envelope.Items[0].ID, order.Items[0].ID)

		stored, err := f.requests.GetRequest(ctx, envelope.ID)
		require.NoError(t, err)
		assert.Equal(t, ordering.RequestStatusApproved, stored.Status)
	})

	t.Run("a resolved request cannot be resolved again", func(t *testing.T) {
		f := newFixture()
		envelope, err := f.requests.CreateRequest(ctx, f.orgID, f.accountID, "")
		require.NoError(t, err)
		_, err = f.requests.Reject(ctx, envelope.ID)
		require.NoError(t, err)

		_, err = f.requests.Approve(ctx, envelope.ID)
		assert.Error(t, err)
		assert.Empty(t, f.orderRepo.byID)
	})

	t.Run("items cannot change after resolution", func(t *testing.T) {
		f := newFixture()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)
		envelope, err := f.requests.CreateRequest(ctx, f.orgID, f.accountID, "")
		require.NoError(t, err)
		_, err = f.requests.Reject(ctx, envelope.ID)
		require.NoError(t, err)

		_, err = f.requests.AddLineItem(ctx, envelope.ID, paper.ID, 1)
		assert.Error(t, err)
	})
}

func TestRequestServiceRaiseFromCart(t *testing.T) {
	ctx := context.Background()

	t.Run("cart becomes a priced request and is emptied", func(t *testing.T) {
		f := newFixture()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)
		pens := f.catalogRepo.add(t, f.orgID, "Ballpoint", 500)

		_, err := f.carts.AddItem(ctx, f.orgID, f.accountID, paper.ID, 2)
		require.NoError(t, err)
		_, err = f.carts.AddItem(ctx, f.orgID, f.accountID, pens.ID, 3)
		require.NoError(t, err)

		envelope, err := f.requests.RaiseFromCart(ctx, f.orgID, f.accountID, "restock")
		require.NoError(t, err)

		assert.Equal(t, int64(3500), envelope.TotalAmount.Amount())
		assert.Equal(t, 2, envelope.ItemCount())

		cart, err := f.carts.GetCart(ctx, f.orgID, f.accountID)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("an empty cart raises nothing", func(t *testing.T) {
		f := newFixture()
		_, err := f.carts.GetCart(ctx, f.orgID, f.accountID)
		require.NoError(t, err)

		_, err = f.requests.RaiseFromCart(ctx, f.orgID, f.accountID, "")
		assert.Error(t, err)
		assert.Empty(t, f.envelopeRepo.byID)
	})

	t.Run("repeat cart adds merge quantities", func(t *testing.T) {
		f := newFixture()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)

		_, err := f.carts.AddItem(ctx, f.orgID, f.accountID, paper.ID, 2)
		require.NoError(t, err)
		cart, err := f.carts.AddItem(ctx, f.orgID, f.accountID, paper.ID, 3)
		require.NoError(t, err)

		require.Len(t, cart.Items, 1)
		assert.Equal(t, int64(5), cart.Items[0].Quantity)
	})
}

func TestOrderServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	approveOrder := func(t *testing.T, f *fixture) *ordering.Order {
		t.Helper()
		paper := f.catalogRepo.add(t, f.orgID, "A4 80g", 1000)
		envelope, err := f.requests.CreateRequest(ctx, f.orgID, f.accountID, "")
		require.NoError(t, err)
		_, err = f.requests.AddLineItem(ctx, envelope.ID, paper.ID, 1)
		require.NoError(t, err)
		order, err := f.requests.Approve(ctx, envelope.ID)
		require.NoError(t, err)
		return order
	}

	t.Run("happy path runs pending to completed", func(t *testing.T) {
		f := newFixture()
		order := approveOrder(t, f)

		_, err := f.orders.StartProcessing(ctx, order.ID)
		require.NoError(t, err)
		order, err = f.orders.Complete(ctx, order.ID)
		require.NoError(t, err)

		assert.Equal(t, ordering.OrderStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)
	})

	t.Run("completion straight from pending is rejected", func(t *testing.T) {
		f := newFixture()
		order := approveOrder(t, f)
		_, err := f.orders.Complete(ctx, order.ID)
		assert.Error(t, err)
	})

	t.Run("cancel works from any non-terminal state", func(t *testing.T) {
		f := newFixture()
		order := approveOrder(t, f)
		_, err := f.orders.StartProcessing(ctx, order.ID)
		require.NoError(t, err)

		order, err = f.orders.Cancel(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, ordering.OrderStatusCancelled, order.Status)
		assert.NotNil(t, order.CancelledAt)
	})

	t.Run("terminal orders admit no transitions", func(t *testing.T) {
		f := newFixture()
		order := approveOrder(t, f)
		_, err := f.orders.Cancel(ctx, order.ID)
		require.NoError(t, err)

		_, err = f.orders.Refund(ctx, order.ID)
		assert.Error(t, err)
	})
}
