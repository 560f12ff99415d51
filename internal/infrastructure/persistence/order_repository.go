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

// GormOrderRepository persists orders and their line items
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order and its line items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	db := dbFrom(ctx, r.db)

	var order models.OrderModel
	if err := db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var rows []models.LineItemModel
	if err := db.WithContext(ctx).
		Where("envelope_id = ?", id).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ordering.LineItem, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].ToDomain())
	}
	return order.ToDomain(items), nil
}

// ListByOrganization lists an organization's orders, optionally by status
func (r *GormOrderRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID, status *ordering.OrderStatus) ([]*ordering.Order, error) {
	db := dbFrom(ctx, r.db)

	query := db.WithContext(ctx).Where("organization_id = ?", organizationID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.OrderModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	grouped := make(map[uuid.UUID][]ordering.LineItem)
	if len(ids) > 0 {
		var itemRows []models.LineItemModel
		if err := db.WithContext(ctx).
			Where("envelope_id IN ?", ids).
			Order("created_at ASC").
			Find(&itemRows).Error; err != nil {
			return nil, err
		}
		for i := range itemRows {
			grouped[itemRows[i].EnvelopeID] = append(grouped[itemRows[i].EnvelopeID], itemRows[i].ToDomain())
		}
	}

	out := make([]*ordering.Order, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain(grouped[rows[i].ID]))
	}
	return out, nil
}

// Create persists a new order and its copied line items
func (r *GormOrderRepository) Create(ctx context.Context, order *ordering.Order) error {
	db := dbFrom(ctx, r.db)

	if err := db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	ms := make([]models.LineItemModel, 0, len(order.Items))
	for i := range order.Items {
		ms = append(ms, *models.LineItemModelFromDomain(&order.Items[i]))
	}
	return db.WithContext(ctx).Create(&ms).Error
}

// Update rewrites the order row; items are immutable after derivation
func (r *GormOrderRepository) Update(ctx context.Context, order *ordering.Order) error {
	db := dbFrom(ctx, r.db)
	return db.WithContext(ctx).Save(models.OrderModelFromDomain(order)).Error
}
