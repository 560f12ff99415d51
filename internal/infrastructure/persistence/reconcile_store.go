package persistence

import (
	"context"
	"time"

	"github.com/bizorder/backend/internal/application/reconcile"
	"github.com/bizorder/backend/internal/domain/catalog"
	"github.com/bizorder/backend/internal/domain/geo"
	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// insertBatchSize bounds the row count per INSERT during bulk loads
const insertBatchSize = 500

// kindTables maps entity kinds to their destination tables
var kindTables = map[reconcile.EntityKind]string{
	reconcile.KindReferenceCode: "reference_codes",
	reconcile.KindOrganization:  "organizations",
	reconcile.KindCategory:      "categories",
	reconcile.KindAccount:       "accounts",
	reconcile.KindCatalogItem:   "catalog_items",
	reconcile.KindAddress:       "addresses",
	reconcile.KindCart:          "carts",
	reconcile.KindRequest:       "request_envelopes",
	reconcile.KindLineItem:      "line_items",
}

// GormReconcileStore implements the reconciliation engine's store port
// over one GORM handle, typically an open transaction
type GormReconcileStore struct {
	db *gorm.DB
}

// NewGormReconcileStore creates a store over the given handle
func NewGormReconcileStore(db *gorm.DB) *GormReconcileStore {
	return &GormReconcileStore{db: db}
}

// CountReferenceCodes implements reconcile.Store
func (s *GormReconcileStore) CountReferenceCodes(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ReferenceCodeModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListReferenceCodes implements reconcile.Store
func (s *GormReconcileStore) ListReferenceCodes(ctx context.Context) ([]geo.ReferenceCode, error) {
	var rows []models.ReferenceCodeModel
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]geo.ReferenceCode, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// DeleteAllReferenceCodes implements reconcile.Store
func (s *GormReconcileStore) DeleteAllReferenceCodes(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("DELETE FROM reference_codes").Error
}

// InsertReferenceCodes implements reconcile.Store
func (s *GormReconcileStore) InsertReferenceCodes(ctx context.Context, rows []*geo.ReferenceCode) error {
	ms := make([]models.ReferenceCodeModel, 0, len(rows))
	for _, row := range rows {
		ms = append(ms, *models.ReferenceCodeModelFromDomain(row))
	}
	return s.db.WithContext(ctx).CreateInBatches(ms, insertBatchSize).Error
}

// FilterExistingIDs implements reconcile.Store
func (s *GormReconcileStore) FilterExistingIDs(ctx context.Context, kind reconcile.EntityKind, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	existing := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	table, ok := kindTables[kind]
	if !ok {
		return nil, gorm.ErrInvalidValue
	}
	var found []uuid.UUID
	if err := s.db.WithContext(ctx).Table(table).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = struct{}{}
	}
	return existing, nil
}

// InsertOrganizations implements reconcile.Store
func (s *GormReconcileStore) InsertOrganizations(ctx context.Context, rows []*identity.Organization) error {
	ms := make([]models.OrganizationModel, 0, len(rows))
	for _, row := range rows {
		ms = append(ms, *models.OrganizationModelFromDomain(row))
	}
	return s.db.WithContext(ctx).CreateInBatches(ms, insertBatchSize).Error
}

// InsertCategories implements reconcile.Store
func (s *GormReconcileStore) InsertCategories(ctx context.Context, rows []*catalog.CategoryNode) error {
	ms := make([]models.CategoryModel, 0, len(rows))
	for _, row := range rows {
		ms = append(ms, *models.CategoryModelFromDomain(row))
	}
	// rows arrive parents first; per-row inserts keep that order
	for i := range ms {
		if err := s.db.WithContext(ctx).Create(&ms[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// InsertAccounts implements reconcile.Store
func (s *GormReconcileStore) InsertAccounts(ctx context.Context, rows []*identity.Account) error {
	ms := make([]models.AccountModel, 0, len(rows))
	for _, row := range rows {
		ms = append(ms, *models.AccountModelFromDomain(row))
	}
	return s.db.WithContext(ctx).CreateInBatches(ms, insertBatchSize).Error
}

// InsertCatalogItems implements reconcile.Store
func (s *GormReconcileStore) InsertCatalogItems(ctx context.Context, rows []*catalog.CatalogItem) error {
	ms := make([]models.CatalogItemModel, 0, len(rows))
	for _, row := range rows {
		ms = append(ms, *models.CatalogItemModelFromDomain(row))
	}
	return s.db.WithContext(ctx).CreateInBatches(ms, insertBatchSize).Error
}

// InsertAddresses implements reconcile.Store
func (s *GormReconcileStore) InsertAddresses(ctx context.Context, rows []*geo.Address) error {
	ms := make([]models.AddressModel, 0, len(rows))
	for _, row := range rows {
		ms = append(ms, *models.AddressModelFromDomain(row))
	}
	return s.db.WithContext(ctx).CreateInBatches(ms, insertBatchSize).Error
}

// InsertCarts implements reconcile.Store
func (s *GormReconcileStore) InsertCarts(ctx context.Context, rows []*ordering.Cart) error {
	carts := make([]models.CartModel, 0, len(rows))
	var items []models.CartItemModel
	for _, row := range rows {
		carts = append(carts, *models.CartModelFromDomain(row))
		for i := range row.Items {
			var m models.CartItemModel
			m.FromDomain(&row.Items[i])
			items = append(items, m)
		}
	}
	if err := s.db.WithContext(ctx).CreateInBatches(carts, insertBatchSize).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(items, insertBatchSize).Error
}

// InsertRequests implements reconcile.Store
func (s *GormReconcileStore) InsertRequests(ctx context.Context, rows []*ordering.RequestEnvelope) error {
	ms := make([]models.RequestEnvelopeModel, 0, len(rows))
	for _, row := range rows {
		ms = append(ms, *models.RequestEnvelopeModelFromDomain(row))
	}
	return s.db.WithContext(ctx).CreateInBatches(ms, insertBatchSize).Error
}

// InsertLineItems implements reconcile.Store
func (s *GormReconcileStore) InsertLineItems(ctx context.Context, rows []*ordering.LineItem) error {
	ms := make([]models.LineItemModel, 0, len(rows))
	for _, row := range rows {
		ms = append(ms, *models.LineItemModelFromDomain(row))
	}
	return s.db.WithContext(ctx).CreateInBatches(ms, insertBatchSize).Error
}

// LookupCategoryDepths implements reconcile.Store
func (s *GormReconcileStore) LookupCategoryDepths(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	depths := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return depths, nil
	}
	var rows []models.CategoryModel
	if err := s.db.WithContext(ctx).
		Select("id", "depth").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		depths[rows[i].ID] = rows[i].Depth
	}
	return depths, nil
}

// LookupCatalogItems implements reconcile.Store
func (s *GormReconcileStore) LookupCatalogItems(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.CatalogItem, error) {
	out := make(map[uuid.UUID]*catalog.CatalogItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.CatalogItemModel
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

// ListEnvelopeLineItems implements reconcile.Store
func (s *GormReconcileStore) ListEnvelopeLineItems(ctx context.Context, envelopeID uuid.UUID) ([]ordering.LineItem, error) {
	var rows []models.LineItemModel
	if err := s.db.WithContext(ctx).
		Where("envelope_id = ?", envelopeID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ordering.LineItem, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// SumEnvelopeLineItems implements reconcile.Store
func (s *GormReconcileStore) SumEnvelopeLineItems(ctx context.Context, envelopeID uuid.UUID) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.LineItemModel{}).
		Select("COALESCE(SUM(price_amount * quantity), 0)").
		Where("envelope_id = ?", envelopeID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateEnvelopeTotal implements reconcile.Store
func (s *GormReconcileStore) UpdateEnvelopeTotal(ctx context.Context, kind reconcile.EnvelopeKind, envelopeID uuid.UUID, total int64) error {
	table := "request_envelopes"
	if kind == reconcile.EnvelopeOrder {
		table = "orders"
	}
	return s.db.WithContext(ctx).Table(table).
		Where("id = ?", envelopeID).
		Updates(map[string]any{
			"total_amount": total,
			"updated_at":   time.Now(),
		}).Error
}

// GormUnitRunner opens bounded units of work as database transactions
type GormUnitRunner struct {
	db *gorm.DB
}

// NewGormUnitRunner creates a unit runner over the given connection
func NewGormUnitRunner(db *gorm.DB) *GormUnitRunner {
	return &GormUnitRunner{db: db}
}

// RunUnit implements reconcile.UnitRunner. The timeout is enforced through
// the context: statements issued after the deadline fail and roll the
// transaction back.
func (r *GormUnitRunner) RunUnit(ctx context.Context, timeout time.Duration, fn func(ctx context.Context, s reconcile.Store) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewGormReconcileStore(tx))
	})
}

var (
	_ reconcile.Store      = (*GormReconcileStore)(nil)
	_ reconcile.UnitRunner = (*GormUnitRunner)(nil)
)
