package reconcile

import (
	"context"
	"time"

	"github.com/bizorder/backend/internal/domain/catalog"
	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// memStore is an in-memory Store for engine and loader tests
type memStore struct {
	refCodes  []geo.ReferenceCode
	orgs      map[uuid.UUID]*identity.Organization
	cats      map[uuid.UUID]*catalog.CategoryNode
	accounts  map[uuid.UUID]*identity.Account
	items     map[uuid.UUID]*catalog.CatalogItem
	addresses map[uuid.UUID]*geo.Address
	carts     map[uuid.UUID]*ordering.Cart
	requests  map[uuid.UUID]*ordering.RequestEnvelope
	lineItems map[uuid.UUID]*ordering.LineItem

	refDeletes int
	refInserts int
}

func newMemStore() *memStore {
	return &memStore{
		orgs:      make(map[uuid.UUID]*identity.Organization),
		cats:      make(map[uuid.UUID]*catalog.CategoryNode),
		accounts:  make(map[uuid.UUID]*identity.Account),
		items:     make(map[uuid.UUID]*catalog.CatalogItem),
		addresses: make(map[uuid.UUID]*geo.Address),
		carts:     make(map[uuid.UUID]*ordering.Cart),
		requests:  make(map[uuid.UUID]*ordering.RequestEnvelope),
		lineItems: make(map[uuid.UUID]*ordering.LineItem),
	}
}

func (m *memStore) CountReferenceCodes(ctx context.Context) (int64, error) {
	return int64(len(m.refCodes)), nil
}

func (m *memStore) ListReferenceCodes(ctx context.Context) ([]geo.ReferenceCode, error) {
	out := make([]geo.ReferenceCode, len(m.refCodes))
	copy(out, m.refCodes)
	return out, nil
}

func (m *memStore) DeleteAllReferenceCodes(ctx context.Context) error {
	m.refDeletes += len(m.refCodes)
	m.refCodes = nil
	return nil
}

func (m *memStore) InsertReferenceCodes(ctx context.Context, rows []*geo.ReferenceCode) error {
	for _, row := range rows {
		m.refCodes = append(m.refCodes, *row)
	}
	m.refInserts += len(rows)
	return nil
}

func (m *memStore) FilterExistingIDs(ctx context.Context, kind EntityKind, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	existing := make(map[uuid.UUID]struct{})
	for _, id := range ids {
		var found bool
		switch kind {
		case KindOrganization:
			_, found = m.orgs[id]
		case KindCategory:
			_, found = m.cats[id]
		case KindAccount:
			_, found = m.accounts[id]
		case KindCatalogItem:
			_, found = m.items[id]
		case KindAddress:
			_, found = m.addresses[id]
		case KindCart:
			_, found = m.carts[id]
		case KindRequest:
			_, found = m.requests[id]
		case KindLineItem:
			_, found = m.lineItems[id]
		}
		if found {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

func (m *memStore) InsertOrganizations(ctx context.Context, rows []*identity.Organization) error {
	for _, row := range rows {
		m.orgs[row.ID] = row
	}
	return nil
}

func (m *memStore) InsertCategories(ctx context.Context, rows []*catalog.CategoryNode) error {
	for _, row := range rows {
		m.cats[row.ID] = row
	}
	return nil
}

func (m *memStore) InsertAccounts(ctx context.Context, rows []*identity.Account) error {
	for _, row := range rows {
		m.accounts[row.ID] = row
	}
	return nil
}

func (m *memStore) InsertCatalogItems(ctx context.Context, rows []*catalog.CatalogItem) error {
	for _, row := range rows {
		m.items[row.ID] = row
	}
	return nil
}

func (m *memStore) InsertAddresses(ctx context.Context, rows []*geo.Address) error {
	for _, row := range rows {
		m.addresses[row.ID] = row
	}
	return nil
}

func (m *memStore) InsertCarts(ctx context.Context, rows []*ordering.Cart) error {
	for _, row := range rows {
		m.carts[row.ID] = row
	}
	return nil
}

func (m *memStore) InsertRequests(ctx context.Context, rows []*ordering.RequestEnvelope) error {
	for _, row := range rows {
		m.requests[row.ID] = row
	}
	return nil
}

func (m *memStore) InsertLineItems(ctx context.Context, rows []*ordering.LineItem) error {
	for _, row := range rows {
		m.lineItems[row.ID] = row
	}
	return nil
}

func (m *memStore) LookupCategoryDepths(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	depths := make(map[uuid.UUID]int)
	for _, id := range ids {
		if node, ok := m.cats[id]; ok {
			depths[id] = node.Depth
		}
	}
	return depths, nil
}

func (m *memStore) LookupCatalogItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.CatalogItem, error) {
	out := make(map[uuid.UUID]*catalog.CatalogItem)
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

func (m *memStore) ListEnvelopeLineItems(ctx context.Context, envelopeID uuid.UUID) ([]ordering.LineItem, error) {
	var out []ordering.LineItem
	for _, item := range m.lineItems {
		if item.EnvelopeID == envelopeID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *memStore) SumEnvelopeLineItems(ctx context.Context, envelopeID uuid.UUID) (int64, error) {
	var total int64
	for _, item := range m.lineItems {
		if item.EnvelopeID == envelopeID {
			total += item.Amount().Amount()
		}
	}
	return total, nil
}

func (m *memStore) UpdateEnvelopeTotal(ctx context.Context, kind EnvelopeKind, envelopeID uuid.UUID, total int64) error {
	if kind == EnvelopeRequest {
		if envelope, ok := m.requests[envelopeID]; ok {
			envelope.TotalAmount = valueobject.NewMoneyKRW(total)
		}
	}
	return nil
}

var _ Store = (*memStore)(nil)

// memUnits hands the shared memStore to every unit of work
type memUnits struct {
	store *memStore
}

func (u *memUnits) RunUnit(ctx context.Context, timeout time.Duration, fn func(ctx context.Context, s Store) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx, u.store)
}

var _ UnitRunner = (*memUnits)(nil)

// failingUnits simulates a unit of work hitting its duration bound
type failingUnits struct {
	err error
}

func (u *failingUnits) RunUnit(ctx context.Context, timeout time.Duration, fn func(ctx context.Context, s Store) error) error {
	return u.err
}
