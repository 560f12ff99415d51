package reconcile

import (
	"context"
	"time"

	"github.com/bizorder/backend/internal/domain/catalog"
	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/google/uuid"
)

// EntityKind names a destination table for existence checks and reporting
type EntityKind string

const (
	KindReferenceCode EntityKind = "reference_code"
	KindOrganization  EntityKind = "organization"
	KindCategory      EntityKind = "category"
	KindAccount       EntityKind = "account"
	KindCatalogItem   EntityKind = "catalog_item"
	KindAddress       EntityKind = "address"
	KindCart          EntityKind = "cart"
	KindRequest       EntityKind = "request"
	KindLineItem      EntityKind = "line_item"
)

// EnvelopeKind distinguishes the two owners of line items when totals are
// written back
type EnvelopeKind string

const (
	EnvelopeRequest EnvelopeKind = "request"
	EnvelopeOrder   EnvelopeKind = "order"
)

// Store is the persistence port the reconciliation engine writes through.
// All methods operate inside one unit of work handed out by a UnitRunner;
// a failure anywhere rolls back everything the unit wrote.
type Store interface {
	// reference-code set: immutable outside a resync, replaced wholesale
	CountReferenceCodes(ctx context.Context) (int64, error)
	ListReferenceCodes(ctx context.Context) ([]geo.ReferenceCode, error)
	DeleteAllReferenceCodes(ctx context.Context) error
	InsertReferenceCodes(ctx context.Context, rows []*geo.ReferenceCode) error

	// FilterExistingIDs returns the subset of ids already present in the
	// destination table for the given kind
	FilterExistingIDs(ctx context.Context, kind EntityKind, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)

	InsertOrganizations(ctx context.Context, rows []*identity.Organization) error
	InsertCategories(ctx context.Context, rows []*catalog.CategoryNode) error
	InsertAccounts(ctx context.Context, rows []*identity.Account) error
	InsertCatalogItems(ctx context.Context, rows []*catalog.CatalogItem) error
	InsertAddresses(ctx context.Context, rows []*geo.Address) error
	InsertCarts(ctx context.Context, rows []*ordering.Cart) error
	InsertRequests(ctx context.Context, rows []*ordering.RequestEnvelope) error
	InsertLineItems(ctx context.Context, rows []*ordering.LineItem) error

	// LookupCategoryDepths returns tree depths for already-stored categories,
	// so children loaded later can be placed under stored parents
	LookupCategoryDepths(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)

	// LookupCatalogItems returns stored catalog items for price snapshotting
	LookupCatalogItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.CatalogItem, error)

	// ListEnvelopeLineItems returns the line items currently attached to an
	// envelope, for duplicate-pair checks before insertion
	ListEnvelopeLineItems(ctx context.Context, envelopeID uuid.UUID) ([]ordering.LineItem, error)

	// SumEnvelopeLineItems re-derives an envelope total from its line items
	SumEnvelopeLineItems(ctx context.Context, envelopeID uuid.UUID) (int64, error)

	// UpdateEnvelopeTotal writes a recomputed total onto the owning envelope
	UpdateEnvelopeTotal(ctx context.Context, kind EnvelopeKind, envelopeID uuid.UUID, total int64) error
}

// UnitRunner opens a bounded unit of work around fn. The unit commits only
// when fn returns nil; any error, including hitting the duration bound,
// rolls back every write made inside it.
type UnitRunner interface {
	RunUnit(ctx context.Context, timeout time.Duration, fn func(ctx context.Context, s Store) error) error
}
