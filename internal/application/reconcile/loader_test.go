package reconcile

import (
	"context"
	"testing"

	"github.com/bizorder/backend/internal/domain/catalog"
	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bundleIDs struct {
	org     uuid.UUID
	account uuid.UUID
	rootCat uuid.UUID
	subCat  uuid.UUID
	itemA   uuid.UUID
	itemB   uuid.UUID
	address uuid.UUID
	cart    uuid.UUID
	request uuid.UUID
	lineA   uuid.UUID
	lineB   uuid.UUID
}

// seedBundle builds a bundle covering every batch: one organization, a
// two-level category tree, an account, two catalog items, an address, a
// cart and a pending request with two line items (1000*2 + 500*3 = 3500)
func seedBundle() (*DatasetBundle, bundleIDs) {
	ids := bundleIDs{
		org:     shared.NewID(),
		account: shared.NewID(),
		rootCat: shared.NewID(),
		subCat:  shared.NewID(),
		itemA:   shared.NewID(),
		itemB:   shared.NewID(),
		address: shared.NewID(),
		cart:    shared.NewID(),
		request: shared.NewID(),
		lineA:   shared.NewID(),
		lineB:   shared.NewID(),
	}
	bundle := &DatasetBundle{
		Organizations: []OrganizationRecord{
			{ID: ids.org, Name: "Hansol Trading", BusinessNumber: "123-45-67890"},
		},
		Categories: []CategoryRecord{
			{ID: ids.subCat, ParentID: &ids.rootCat, Name: "Copy Paper"},
			{ID: ids.rootCat, Name: "Office Supplies"},
		},
		Accounts: []AccountRecord{
			{ID: ids.account, OrganizationID: ids.org, Email: "buyer@hansol.example",
				Name: "Kim Jiwoo", Role: "MEMBER", Password: "corr3ct horse"},
		},
		CatalogItems: []CatalogItemRecord{
			{ID: ids.itemA, OrganizationID: ids.org, CategoryID: ids.subCat,
				Name: "A4 80g", Code: "PPR-A4-80", Price: 1000},
			{ID: ids.itemB, OrganizationID: ids.org, CategoryID: ids.subCat,
				Name: "A4 75g", Code: "PPR-A4-75", Price: 500},
		},
		Addresses: []AddressRecord{
			{ID: ids.address, OrganizationID: ids.org, PostalCode: "63000",
				AddressText: "Jeju-si Ildo 1-dong", Recipient: "Kim Jiwoo"},
		},
		Carts: []CartRecord{
			{ID: ids.cart, OrganizationID: ids.org, AccountID: ids.account,
				Items: []CartItemRecord{{CatalogItemID: ids.itemA, Quantity: 1}}},
		},
		Requests: []RequestRecord{
			{ID: ids.request, OrganizationID: ids.org, RequesterID: ids.account, Remark: "monthly restock"},
		},
		LineItems: []LineItemRecord{
			{ID: ids.lineA, RequestID: ids.request, CatalogItemID: ids.itemA, Quantity: 2},
			{ID: ids.lineB, RequestID: ids.request, CatalogItemID: ids.itemB, Quantity: 3},
		},
	}
	return bundle, ids
}

func loadBundle(t *testing.T, store *memStore, seedOrg uuid.UUID, bundle *DatasetBundle) *LoadReport {
	t.Helper()
	report, err := NewLoader(seedOrg, zap.NewNop()).Load(context.Background(), store, bundle)
	require.NoError(t, err)
	return report
}

func TestLoaderFullBundle(t *testing.T) {
	bundle, ids := seedBundle()
	store := newMemStore()
	jeju, err := geo.NewReferenceCode("63000", geo.FeeClassJeju, true, "Jeju-si Ildo 1-dong")
	require.NoError(t, err)
	store.refCodes = []geo.ReferenceCode{*jeju}

	report := loadBundle(t, store, ids.org, bundle)

	t.Run("every batch inserted", func(t *testing.T) {
		assert.Equal(t, 1, report.Inserted[KindOrganization])
		assert.Equal(t, 2, report.Inserted[KindCategory])
		assert.Equal(t, 1, report.Inserted[KindAccount])
		assert.Equal(t, 2, report.Inserted[KindCatalogItem])
		assert.Equal(t, 1, report.Inserted[KindAddress])
		assert.Equal(t, 1, report.Inserted[KindCart])
		assert.Equal(t, 1, report.Inserted[KindRequest])
		assert.Equal(t, 2, report.Inserted[KindLineItem])
	})

	t.Run("request total recomputed from line items", func(t *testing.T) {
		assert.Equal(t, 1, report.Recomputed)
		require.Contains(t, store.requests, ids.request)
		assert.Equal(t, int64(3500), store.requests[ids.request].TotalAmount.Amount())
	})

	t.Run("category tree placed parents first", func(t *testing.T) {
		require.Contains(t, store.cats, ids.rootCat)
		require.Contains(t, store.cats, ids.subCat)
		assert.Equal(t, 0, store.cats[ids.rootCat].Depth)
		assert.Equal(t, 1, store.cats[ids.subCat].Depth)
		assert.Equal(t, ids.org, store.cats[ids.subCat].OrganizationID)
	})

	t.Run("address resolved against the reference set", func(t *testing.T) {
		addr := store.addresses[ids.address]
		require.NotNil(t, addr)
		require.True(t, addr.HasReference())
		assert.Equal(t, jeju.ID, *addr.ReferenceCodeID)
	})

	t.Run("line items snapshot catalog prices", func(t *testing.T) {
		require.Contains(t, store.lineItems, ids.lineA)
		assert.Equal(t, int64(1000), store.lineItems[ids.lineA].Price.Amount())
		assert.Equal(t, "A4 80g", store.lineItems[ids.lineA].ItemName)
	})

	t.Run("replay inserts nothing and leaves the total alone", func(t *testing.T) {
		replay := loadBundle(t, store, ids.org, bundle)
		assert.Equal(t, 0, replay.TotalInserted())
		assert.Equal(t, 0, replay.Recomputed)
		assert.Equal(t, int64(3500), store.requests[ids.request].TotalAmount.Amount())
	})
}

func TestLoaderReferentialGaps(t *testing.T) {
	t.Run("line item referencing an unknown catalog item fails before writes", func(t *testing.T) {
		bundle, ids := seedBundle()
		ghost := shared.NewID()
		bundle.LineItems = append(bundle.LineItems,
			LineItemRecord{ID: shared.NewID(), RequestID: ids.request, CatalogItemID: ghost, Quantity: 1})

		store := newMemStore()
		_, err := NewLoader(ids.org, zap.NewNop()).Load(context.Background(), store, bundle)
		require.Error(t, err)

		var missing *MissingReferenceError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "request_line_item", missing.Entity)
		assert.Equal(t, "catalog_item_id", missing.Field)
		assert.Equal(t, ghost, missing.ID)
		assert.Empty(t, store.lineItems)
	})

	t.Run("account referencing an unknown organization fails its batch", func(t *testing.T) {
		bundle, ids := seedBundle()
		ghost := shared.NewID()
		bundle.Accounts[0].OrganizationID = ghost

		store := newMemStore()
		_, err := NewLoader(ids.org, zap.NewNop()).Load(context.Background(), store, bundle)

		var missing *MissingReferenceError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "account", missing.Entity)
		assert.Equal(t, "organization_id", missing.Field)
		assert.Equal(t, ghost, missing.ID)
		assert.Empty(t, store.accounts)
	})

	t.Run("duplicate catalog item within one request is rejected", func(t *testing.T) {
		bundle, ids := seedBundle()
		bundle.LineItems = append(bundle.LineItems,
			LineItemRecord{ID: shared.NewID(), RequestID: ids.request, CatalogItemID: ids.itemA, Quantity: 9})

		store := newMemStore()
		_, err := NewLoader(ids.org, zap.NewNop()).Load(context.Background(), store, bundle)
		assert.ErrorIs(t, err, shared.ErrDuplicateLineItem)
	})

	t.Run("category parent cycle is a malformed bundle", func(t *testing.T) {
		bundle, ids := seedBundle()
		a, b := shared.NewID(), shared.NewID()
		bundle.Categories = []CategoryRecord{
			{ID: a, ParentID: &b, Name: "A"},
			{ID: b, ParentID: &a, Name: "B"},
		}

		store := newMemStore()
		_, err := NewLoader(ids.org, zap.NewNop()).Load(context.Background(), store, bundle)
		var malformed *BundleValidationError
		assert.ErrorAs(t, err, &malformed)
	})

	t.Run("categories without a seed organization are rejected", func(t *testing.T) {
		bundle, _ := seedBundle()
		store := newMemStore()
		_, err := NewLoader(uuid.Nil, zap.NewNop()).Load(context.Background(), store, bundle)
		var malformed *BundleValidationError
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestLoaderAgainstStoredRows(t *testing.T) {
	ctx := context.Background()

	t.Run("child category under a stored parent inherits its depth", func(t *testing.T) {
		store := newMemStore()
		org, err := identity.NewOrganization("Stored Org", "", "")
		require.NoError(t, err)
		store.orgs[org.ID] = org

		parent, err := catalog.NewCategoryNode(org.ID, "Stationery")
		require.NoError(t, err)
		parent.Depth = 1
		store.cats[parent.ID] = parent

		childID := shared.NewID()
		bundle := &DatasetBundle{
			Categories: []CategoryRecord{{ID: childID, ParentID: &parent.ID, Name: "Pens"}},
		}
		_, err = NewLoader(org.ID, zap.NewNop()).Load(ctx, store, bundle)
		require.NoError(t, err)
		assert.Equal(t, 2, store.cats[childID].Depth)
	})

	t.Run("new line item on a stored request snapshots the stored price and recomputes", func(t *testing.T) {
		store := newMemStore()
		org, err := identity.NewOrganization("Stored Org", "", "")
		require.NoError(t, err)
		store.orgs[org.ID] = org

		account, err := identity.NewAccount(org.ID, "a@b.example", "A", identity.RoleMember)
		require.NoError(t, err)
		store.accounts[account.ID] = account

		category, err := catalog.NewCategoryNode(org.ID, "Paper")
		require.NoError(t, err)
		store.cats[category.ID] = category

		item, err := catalog.NewCatalogItem(org.ID, category.ID, "A3 80g", "PPR-A3-80",
			valueobject.NewMoneyKRW(2000))
		require.NoError(t, err)
		store.items[item.ID] = item

		envelope, err := ordering.NewRequestEnvelope(org.ID, account.ID)
		require.NoError(t, err)
		store.requests[envelope.ID] = envelope

		bundle := &DatasetBundle{
			LineItems: []LineItemRecord{
				{ID: shared.NewID(), RequestID: envelope.ID, CatalogItemID: item.ID, Quantity: 4},
			},
		}
		report, err := NewLoader(org.ID, zap.NewNop()).Load(ctx, store, bundle)
		require.NoError(t, err)

		assert.Equal(t, 1, report.Inserted[KindLineItem])
		assert.Equal(t, 1, report.Recomputed)
		assert.Equal(t, int64(8000), envelope.TotalAmount.Amount())
	})
}
