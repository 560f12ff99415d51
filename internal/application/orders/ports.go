package orders

import (
	"context"

	"github.com/bizorder/backend/internal/domain/catalog"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/google/uuid"
)

// TxManager runs fn inside one transaction. Repositories called with the
// ctx it hands to fn join that transaction, so an envelope update and the
// recomputed total it implies always commit or roll back together.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EnvelopeRepository persists request envelopes together with their line
// items and derived total
type EnvelopeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ordering.RequestEnvelope, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID, status *ordering.RequestStatus) ([]*ordering.RequestEnvelope, error)
	Create(ctx context.Context, envelope *ordering.RequestEnvelope) error
	Update(ctx context.Context, envelope *ordering.RequestEnvelope) error
}

// OrderRepository persists orders derived from approved requests
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID, status *ordering.OrderStatus) ([]*ordering.Order, error)
	Create(ctx context.Context, order *ordering.Order) error
	Update(ctx context.Context, order *ordering.Order) error
}

// CartRepository persists carts; one cart per (organization, account)
type CartRepository interface {
	FindByAccount(ctx context.Context, organizationID, accountID uuid.UUID) (*ordering.Cart, error)
	Save(ctx context.Context, cart *ordering.Cart) error
}

// CatalogReader reads catalog items for price snapshotting
type CatalogReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.CatalogItem, error)
}
