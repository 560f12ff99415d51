package persistence

import (
	"context"
	"errors"

	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEnvelopeRepository persists request envelopes with their line items.
// Updates replace the item set wholesale so the stored rows always mirror
// the in-memory envelope the domain validated.
type GormEnvelopeRepository struct {
	db *gorm.DB
}

// NewGormEnvelopeRepository creates a new GormEnvelopeRepository
func NewGormEnvelopeRepository(db *gorm.DB) *GormEnvelopeRepository {
	return &GormEnvelopeRepository{db: db}
}

// FindByID finds a request envelope and its line items
func (r *GormEnvelopeRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.RequestEnvelope, error) {
	db := dbFrom(ctx, r.db)

	var envelope models.RequestEnvelopeModel
	if err := db.WithContext(ctx).First(&envelope, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, db, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return envelope.ToDomain(items[id]), nil
}

// ListByOrganization lists an organization's envelopes, optionally by status
func (r *GormEnvelopeRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID, status *ordering.RequestStatus) ([]*ordering.RequestEnvelope, error) {
	db := dbFrom(ctx, r.db)

	query := db.WithContext(ctx).Where("organization_id = ?", organizationID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.RequestEnvelopeModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	items, err := r.loadItems(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*ordering.RequestEnvelope, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain(items[rows[i].ID]))
	}
	return out, nil
}

// Create persists a new envelope and its items
func (r *GormEnvelopeRepository) Create(ctx context.Context, envelope *ordering.RequestEnvelope) error {
	db := dbFrom(ctx, r.db)

	if err := db.WithContext(ctx).Create(models.RequestEnvelopeModelFromDomain(envelope)).Error; err != nil {
		return err
	}
	return r.insertItems(ctx, db, envelope.Items)
}

// Update rewrites the envelope row and replaces its line items
func (r *GormEnvelopeRepository) Update(ctx context.Context, envelope *ordering.RequestEnvelope) error {
	db := dbFrom(ctx, r.db)

	if err := db.WithContext(ctx).Save(models.RequestEnvelopeModelFromDomain(envelope)).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Where("envelope_id = ?", envelope.ID).
		Delete(&models.LineItemModel{}).Error; err != nil {
		return err
	}
	return r.insertItems(ctx, db, envelope.Items)
}

func (r *GormEnvelopeRepository) insertItems(ctx context.Context, db *gorm.DB, items []ordering.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	ms := make([]models.LineItemModel, 0, len(items))
	for i := range items {
		ms = append(ms, *models.LineItemModelFromDomain(&items[i]))
	}
	return db.WithContext(ctx).Create(&ms).Error
}

func (r *GormEnvelopeRepository) loadItems(ctx context.Context, db *gorm.DB, envelopeIDs []uuid.UUID) (map[uuid.UUID][]ordering.LineItem, error) {
	grouped := make(map[uuid.UUID][]ordering.LineItem, len(envelopeIDs))
	if len(envelopeIDs) == 0 {
		return grouped, nil
	}
	var rows []models.LineItemModel
	if err := db.WithContext(ctx).
		Where("envelope_id IN ?", envelopeIDs).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		grouped[rows[i].EnvelopeID] = append(grouped[rows[i].EnvelopeID], rows[i].ToDomain())
	}
	return grouped, nil
}
