package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/bizorder/backend/internal/domain/catalog"
	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Loader performs the dependency-ordered dataset load. Batches are applied
// in a fixed order so every reference points at rows that already exist:
// organizations, categories, accounts, catalog items, addresses, carts,
// requests, line items. Presence is checked by id and existing rows are
// skipped, so replaying a bundle is harmless. Any referential gap fails the
// load before its batch writes anything.
type Loader struct {
	seedOrgID uuid.UUID
	logger    *zap.Logger
}

// NewLoader creates a loader stamping seedOrgID onto rows that carry no
// organization of their own
func NewLoader(seedOrgID uuid.UUID, logger *zap.Logger) *Loader {
	return &Loader{seedOrgID: seedOrgID, logger: logger}
}

// loadState accumulates ids seen in the bundle so later batches can
// validate references without a store round-trip for in-bundle rows
type loadState struct {
	report       *LoadReport
	orgs         map[uuid.UUID]struct{}
	categories   map[uuid.UUID]struct{}
	accounts     map[uuid.UUID]struct{}
	catalogItems map[uuid.UUID]struct{}
	catalogRecs  map[uuid.UUID]*CatalogItemRecord
	requests     map[uuid.UUID]struct{}
	newRequests  map[uuid.UUID]struct{}
}

// Load applies the whole bundle inside the given unit of work
func (l *Loader) Load(ctx context.Context, s Store, bundle *DatasetBundle) (*LoadReport, error) {
	st := &loadState{
		report:       NewLoadReport(),
		orgs:         make(map[uuid.UUID]struct{}),
		categories:   make(map[uuid.UUID]struct{}),
		accounts:     make(map[uuid.UUID]struct{}),
		catalogItems: make(map[uuid.UUID]struct{}),
		catalogRecs:  make(map[uuid.UUID]*CatalogItemRecord),
		requests:     make(map[uuid.UUID]struct{}),
		newRequests:  make(map[uuid.UUID]struct{}),
	}

	if err := l.loadOrganizations(ctx, s, bundle.Organizations, st); err != nil {
		return nil, err
	}
	if err := l.loadCategories(ctx, s, bundle.Categories, st); err != nil {
		return nil, err
	}
	if err := l.loadAccounts(ctx, s, bundle.Accounts, st); err != nil {
		return nil, err
	}
	if err := l.loadCatalogItems(ctx, s, bundle.CatalogItems, st); err != nil {
		return nil, err
	}
	if err := l.loadAddresses(ctx, s, bundle.Addresses, st); err != nil {
		return nil, err
	}
	if err := l.loadCarts(ctx, s, bundle.Carts, st); err != nil {
		return nil, err
	}
	if err := l.loadRequests(ctx, s, bundle.Requests, st); err != nil {
		return nil, err
	}
	if err := l.loadLineItems(ctx, s, bundle.LineItems, st); err != nil {
		return nil, err
	}
	return st.report, nil
}

func (l *Loader) loadOrganizations(ctx context.Context, s Store, recs []OrganizationRecord, st *loadState) error {
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	absent, err := absentIDs(ctx, s, KindOrganization, ids)
	if err != nil {
		return err
	}

	var rows []*identity.Organization
	for _, rec := range recs {
		st.orgs[rec.ID] = struct{}{}
		if _, isNew := absent[rec.ID]; !isNew {
			continue
		}
		delete(absent, rec.ID)

		org, err := identity.NewOrganization(rec.Name, rec.BusinessNumber, rec.Phone)
		if err != nil {
			return fmt.Errorf("organization %s: %w", rec.ID, err)
		}
		org.ID = rec.ID
		rows = append(rows, org)
	}
	if len(rows) > 0 {
		if err := s.InsertOrganizations(ctx, rows); err != nil {
			return err
		}
	}
	st.report.add(KindOrganization, len(rows))
	return nil
}

func (l *Loader) loadCategories(ctx context.Context, s Store, recs []CategoryRecord, st *loadState) error {
	if len(recs) == 0 {
		return nil
	}
	if l.seedOrgID == uuid.Nil {
		return &BundleValidationError{Reason: "bundle has categories but no seed organization is configured"}
	}
	if err := ensureRefs(ctx, s, KindOrganization, "category", "organization_id",
		singleton(l.seedOrgID), st.orgs); err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*CategoryRecord, len(recs))
	outsideParents := make(map[uuid.UUID]struct{})
	for i := range recs {
		rec := &recs[i]
		st.categories[rec.ID] = struct{}{}
		byID[rec.ID] = rec
	}
	for i := range recs {
		if p := recs[i].ParentID; p != nil {
			if _, inBundle := byID[*p]; !inBundle {
				outsideParents[*p] = struct{}{}
			}
		}
	}
	if err := ensureRefs(ctx, s, KindCategory, "category", "parent_id",
		outsideParents, st.categories); err != nil {
		return err
	}
	storedDepths, err := s.LookupCategoryDepths(ctx, setToSlice(outsideParents))
	if err != nil {
		return err
	}

	// Depth is derived by walking parent chains; a cycle means the bundle
	// is malformed, not that a reference is missing.
	depths := make(map[uuid.UUID]int, len(recs))
	var resolveDepth func(id uuid.UUID, visiting map[uuid.UUID]struct{}) (int, error)
	resolveDepth = func(id uuid.UUID, visiting map[uuid.UUID]struct{}) (int, error) {
		if d, ok := depths[id]; ok {
			return d, nil
		}
		if _, ok := visiting[id]; ok {
			return 0, &BundleValidationError{Reason: fmt.Sprintf("category parent cycle involving %s", id)}
		}
		visiting[id] = struct{}{}
		defer delete(visiting, id)

		rec := byID[id]
		if rec.ParentID == nil {
			depths[id] = 0
			return 0, nil
		}
		if parentRec, inBundle := byID[*rec.ParentID]; inBundle {
			pd, err := resolveDepth(parentRec.ID, visiting)
			if err != nil {
				return 0, err
			}
			depths[id] = pd + 1
			return pd + 1, nil
		}
		pd := storedDepths[*rec.ParentID]
		depths[id] = pd + 1
		return pd + 1, nil
	}
	for _, rec := range recs {
		if _, err := resolveDepth(rec.ID, make(map[uuid.UUID]struct{})); err != nil {
			return err
		}
	}

	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	absent, err := absentIDs(ctx, s, KindCategory, ids)
	if err != nil {
		return err
	}

	var rows []*catalog.CategoryNode
	for _, rec := range recs {
		if _, isNew := absent[rec.ID]; !isNew {
			continue
		}
		delete(absent, rec.ID)

		var node *catalog.CategoryNode
		if rec.ParentID == nil {
			node, err = catalog.NewCategoryNode(l.seedOrgID, rec.Name)
		} else {
			node, err = catalog.NewChildCategoryNode(l.seedOrgID, *rec.ParentID, rec.Name, depths[rec.ID]-1)
		}
		if err != nil {
			return fmt.Errorf("category %s: %w", rec.ID, err)
		}
		node.ID = rec.ID
		rows = append(rows, node)
	}
	// parents before children
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Depth < rows[j].Depth })

	if len(rows) > 0 {
		if err := s.InsertCategories(ctx, rows); err != nil {
			return err
		}
	}
	st.report.add(KindCategory, len(rows))
	return nil
}

func (l *Loader) loadAccounts(ctx context.Context, s Store, recs []AccountRecord, st *loadState) error {
	orgRefs := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		orgRefs[rec.OrganizationID] = struct{}{}
		ids = append(ids, rec.ID)
	}
	if err := ensureRefs(ctx, s, KindOrganization, "account", "organization_id", orgRefs, st.orgs); err != nil {
		return err
	}
	absent, err := absentIDs(ctx, s, KindAccount, ids)
	if err != nil {
		return err
	}

	var rows []*identity.Account
	for _, rec := range recs {
		st.accounts[rec.ID] = struct{}{}
		if _, isNew := absent[rec.ID]; !isNew {
			continue
		}
		delete(absent, rec.ID)

		account, err := identity.NewAccount(rec.OrganizationID, rec.Email, rec.Name, identity.Role(rec.Role))
		if err != nil {
			return fmt.Errorf("account %s: %w", rec.ID, err)
		}
		if rec.Password != "" {
			if err := account.SetPassword(rec.Password); err != nil {
				return fmt.Errorf("account %s: %w", rec.ID, err)
			}
		}
		account.ID = rec.ID
		rows = append(rows, account)
	}
	if len(rows) > 0 {
		if err := s.InsertAccounts(ctx, rows); err != nil {
			return err
		}
	}
	st.report.add(KindAccount, len(rows))
	return nil
}

func (l *Loader) loadCatalogItems(ctx context.Context, s Store, recs []CatalogItemRecord, st *loadState) error {
	orgRefs := make(map[uuid.UUID]struct{})
	categoryRefs := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		orgRefs[rec.OrganizationID] = struct{}{}
		categoryRefs[rec.CategoryID] = struct{}{}
		ids = append(ids, rec.ID)
	}
	if err := ensureRefs(ctx, s, KindOrganization, "catalog_item", "organization_id", orgRefs, st.orgs); err != nil {
		return err
	}
	if err := ensureRefs(ctx, s, KindCategory, "catalog_item", "category_id", categoryRefs, st.categories); err != nil {
		return err
	}
	absent, err := absentIDs(ctx, s, KindCatalogItem, ids)
	if err != nil {
		return err
	}

	var rows []*catalog.CatalogItem
	for i := range recs {
		rec := &recs[i]
		st.catalogItems[rec.ID] = struct{}{}
		st.catalogRecs[rec.ID] = rec
		if _, isNew := absent[rec.ID]; !isNew {
			continue
		}
		delete(absent, rec.ID)

		item, err := catalog.NewCatalogItem(rec.OrganizationID, rec.CategoryID,
			rec.Name, rec.Code, valueobject.NewMoneyKRW(rec.Price))
		if err != nil {
			return fmt.Errorf("catalog item %s: %w", rec.ID, err)
		}
		item.Description = rec.Description
		item.ID = rec.ID
		rows = append(rows, item)
	}
	if len(rows) > 0 {
		if err := s.InsertCatalogItems(ctx, rows); err != nil {
			return err
		}
	}
	st.report.add(KindCatalogItem, len(rows))
	return nil
}

func (l *Loader) loadAddresses(ctx context.Context, s Store, recs []AddressRecord, st *loadState) error {
	orgRefs := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		orgRefs[rec.OrganizationID] = struct{}{}
		ids = append(ids, rec.ID)
	}
	if err := ensureRefs(ctx, s, KindOrganization, "address", "organization_id", orgRefs, st.orgs); err != nil {
		return err
	}
	absent, err := absentIDs(ctx, s, KindAddress, ids)
	if err != nil {
		return err
	}
	if len(absent) == 0 {
		return nil
	}

	refRows, err := s.ListReferenceCodes(ctx)
	if err != nil {
		return err
	}
	resolver := NewResolver(refRows)

	resolved := 0
	var rows []*geo.Address
	for _, rec := range recs {
		if _, isNew := absent[rec.ID]; !isNew {
			continue
		}
		delete(absent, rec.ID)

		addr, err := geo.NewAddress(rec.OrganizationID, rec.PostalCode, rec.AddressText)
		if err != nil {
			return fmt.Errorf("address %s: %w", rec.ID, err)
		}
		addr.AddressDetail = rec.AddressDetail
		addr.Recipient = rec.Recipient
		addr.Phone = rec.Phone
		addr.ID = rec.ID
		if refID, ok := resolver.Resolve(rec.PostalCode, rec.AddressText); ok {
			addr.AttachReference(refID)
			resolved++
		}
		rows = append(rows, addr)
	}
	if len(rows) > 0 {
		if err := s.InsertAddresses(ctx, rows); err != nil {
			return err
		}
		l.logger.Debug("addresses loaded",
			zap.Int("inserted", len(rows)),
			zap.Int("reference_resolved", resolved))
	}
	st.report.add(KindAddress, len(rows))
	return nil
}

func (l *Loader) loadCarts(ctx context.Context, s Store, recs []CartRecord, st *loadState) error {
	orgRefs := make(map[uuid.UUID]struct{})
	accountRefs := make(map[uuid.UUID]struct{})
	catalogRefs := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		orgRefs[rec.OrganizationID] = struct{}{}
		accountRefs[rec.AccountID] = struct{}{}
		for _, item := range rec.Items {
			catalogRefs[item.CatalogItemID] = struct{}{}
		}
		ids = append(ids, rec.ID)
	}
	if err := ensureRefs(ctx, s, KindOrganization, "cart", "organization_id", orgRefs, st.orgs); err != nil {
		return err
	}
	if err := ensureRefs(ctx, s, KindAccount, "cart", "account_id", accountRefs, st.accounts); err != nil {
		return err
	}
	if err := ensureRefs(ctx, s, KindCatalogItem, "cart_item", "catalog_item_id", catalogRefs, st.catalogItems); err != nil {
		return err
	}
	absent, err := absentIDs(ctx, s, KindCart, ids)
	if err != nil {
		return err
	}

	var rows []*ordering.Cart
	for _, rec := range recs {
		if _, isNew := absent[rec.ID]; !isNew {
			continue
		}
		delete(absent, rec.ID)

		cart, err := ordering.NewCart(rec.OrganizationID, rec.AccountID)
		if err != nil {
			return fmt.Errorf("cart %s: %w", rec.ID, err)
		}
		cart.ID = rec.ID
		for _, item := range rec.Items {
			if err := cart.AddItem(item.CatalogItemID, item.Quantity); err != nil {
				return fmt.Errorf("cart %s: %w", rec.ID, err)
			}
		}
		rows = append(rows, cart)
	}
	if len(rows) > 0 {
		if err := s.InsertCarts(ctx, rows); err != nil {
			return err
		}
	}
	st.report.add(KindCart, len(rows))
	return nil
}

func (l *Loader) loadRequests(ctx context.Context, s Store, recs []RequestRecord, st *loadState) error {
	orgRefs := make(map[uuid.UUID]struct{})
	requesterRefs := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		orgRefs[rec.OrganizationID] = struct{}{}
		requesterRefs[rec.RequesterID] = struct{}{}
		ids = append(ids, rec.ID)
	}
	if err := ensureRefs(ctx, s, KindOrganization, "request", "organization_id", orgRefs, st.orgs); err != nil {
		return err
	}
	if err := ensureRefs(ctx, s, KindAccount, "request", "requester_id", requesterRefs, st.accounts); err != nil {
		return err
	}
	absent, err := absentIDs(ctx, s, KindRequest, ids)
	if err != nil {
		return err
	}

	var rows []*ordering.RequestEnvelope
	for _, rec := range recs {
		st.requests[rec.ID] = struct{}{}
		if _, isNew := absent[rec.ID]; !isNew {
			continue
		}
		delete(absent, rec.ID)

		envelope, err := ordering.NewRequestEnvelope(rec.OrganizationID, rec.RequesterID)
		if err != nil {
			return fmt.Errorf("request %s: %w", rec.ID, err)
		}
		envelope.Remark = rec.Remark
		envelope.ID = rec.ID
		st.newRequests[rec.ID] = struct{}{}
		rows = append(rows, envelope)
	}
	if len(rows) > 0 {
		if err := s.InsertRequests(ctx, rows); err != nil {
			return err
		}
	}
	st.report.add(KindRequest, len(rows))
	return nil
}

func (l *Loader) loadLineItems(ctx context.Context, s Store, recs []LineItemRecord, st *loadState) error {
	requestRefs := make(map[uuid.UUID]struct{})
	catalogRefs := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		requestRefs[rec.RequestID] = struct{}{}
		catalogRefs[rec.CatalogItemID] = struct{}{}
		ids = append(ids, rec.ID)
	}
	if err := ensureRefs(ctx, s, KindRequest, "request_line_item", "request_id", requestRefs, st.requests); err != nil {
		return err
	}
	if err := ensureRefs(ctx, s, KindCatalogItem, "request_line_item", "catalog_item_id", catalogRefs, st.catalogItems); err != nil {
		return err
	}
	absent, err := absentIDs(ctx, s, KindLineItem, ids)
	if err != nil {
		return err
	}
	if len(absent) == 0 {
		return nil
	}

	// Price snapshots for catalog items that live in the store, not the bundle
	var outside []uuid.UUID
	for id := range catalogRefs {
		if _, inBundle := st.catalogRecs[id]; !inBundle {
			outside = append(outside, id)
		}
	}
	storedItems, err := s.LookupCatalogItems(ctx, outside)
	if err != nil {
		return err
	}

	// A catalog item appears at most once per envelope. Seed the pair set
	// from items already stored on pre-existing envelopes, then extend it
	// with each row as it is accepted.
	type pair struct{ envelope, catalogItem uuid.UUID }
	seen := make(map[pair]struct{})
	affected := make(map[uuid.UUID]struct{})
	for _, rec := range recs {
		if _, isNew := absent[rec.ID]; isNew {
			affected[rec.RequestID] = struct{}{}
		}
	}
	for envelopeID := range affected {
		if _, isNew := st.newRequests[envelopeID]; isNew {
			continue
		}
		existing, err := s.ListEnvelopeLineItems(ctx, envelopeID)
		if err != nil {
			return err
		}
		for _, item := range existing {
			seen[pair{envelopeID, item.CatalogItemID}] = struct{}{}
		}
	}

	var rows []*ordering.LineItem
	for _, rec := range recs {
		if _, isNew := absent[rec.ID]; !isNew {
			continue
		}
		delete(absent, rec.ID)

		key := pair{rec.RequestID, rec.CatalogItemID}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("request %s already has catalog item %s: %w",
				rec.RequestID, rec.CatalogItemID, shared.ErrDuplicateLineItem)
		}
		seen[key] = struct{}{}

		var name string
		var price valueobject.Money
		if bundleRec, inBundle := st.catalogRecs[rec.CatalogItemID]; inBundle {
			name = bundleRec.Name
			price = valueobject.NewMoneyKRW(bundleRec.Price)
		} else {
			stored := storedItems[rec.CatalogItemID]
			if stored == nil {
				return NewMissingReferenceError("request_line_item", "catalog_item_id", rec.CatalogItemID)
			}
			name = stored.Name
			price = stored.Price
		}

		item, err := ordering.NewLineItem(rec.RequestID, rec.CatalogItemID, name, price, rec.Quantity)
		if err != nil {
			return fmt.Errorf("line item %s: %w", rec.ID, err)
		}
		item.ID = rec.ID
		rows = append(rows, item)
	}
	if len(rows) > 0 {
		if err := s.InsertLineItems(ctx, rows); err != nil {
			return err
		}
	}
	st.report.add(KindLineItem, len(rows))

	for _, envelopeID := range sortedIDs(affected) {
		if _, err := RecomputeTotal(ctx, s, EnvelopeRequest, envelopeID); err != nil {
			return err
		}
		st.report.Recomputed++
	}
	return nil
}

// absentIDs returns the subset of ids not yet present in the destination
func absentIDs(ctx context.Context, s Store, kind EntityKind, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	absent := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return absent, nil
	}
	existing, err := s.FilterExistingIDs(ctx, kind, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			absent[id] = struct{}{}
		}
	}
	return absent, nil
}

// ensureRefs verifies every needed id is satisfied by the bundle or the
// store, failing with the first missing identifier by sorted order so the
// error is stable across runs
func ensureRefs(ctx context.Context, s Store, kind EntityKind, entity, field string,
	needed, inBundle map[uuid.UUID]struct{}) error {
	var unknown []uuid.UUID
	for id := range needed {
		if _, ok := inBundle[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	existing, err := s.FilterExistingIDs(ctx, kind, unknown)
	if err != nil {
		return err
	}
	sortIDs(unknown)
	for _, id := range unknown {
		if _, ok := existing[id]; !ok {
			return NewMissingReferenceError(entity, field, id)
		}
	}
	return nil
}

func singleton(id uuid.UUID) map[uuid.UUID]struct{} {
	return map[uuid.UUID]struct{}{id: {}}
}

func setToSlice(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := setToSlice(set)
	sortIDs(out)
	return out
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
