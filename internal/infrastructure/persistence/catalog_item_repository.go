package persistence

import (
	"context"
	"errors"

	"github.com/bizorder/backend/internal/domain/catalog"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogItemRepository persists catalog items
type GormCatalogItemRepository struct {
	db *gorm.DB
}

// NewGormCatalogItemRepository creates a new GormCatalogItemRepository
func NewGormCatalogItemRepository(db *gorm.DB) *GormCatalogItemRepository {
	return &GormCatalogItemRepository{db: db}
}

// FindByID finds a catalog item by its ID
func (r *GormCatalogItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CatalogItem, error) {
	db := dbFrom(ctx, r.db)

	var item models.CatalogItemModel
	if err := db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return item.ToDomain(), nil
}

// ListByOrganization lists an organization's catalog items
func (r *GormCatalogItemRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID, activeOnly bool) ([]*catalog.CatalogItem, error) {
	db := dbFrom(ctx, r.db)

	query := db.WithContext(ctx).Where("organization_id = ?", organizationID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var rows []models.CatalogItemModel
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*catalog.CatalogItem, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// ListByCategory lists the catalog items under a category node
func (r *GormCatalogItemRepository) ListByCategory(ctx context.Context, organizationID, categoryID uuid.UUID) ([]*catalog.CatalogItem, error) {
	db := dbFrom(ctx, r.db)

	var rows []models.CatalogItemModel
	if err := db.WithContext(ctx).
		Where("organization_id = ? AND category_id = ?", organizationID, categoryID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*catalog.CatalogItem, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// Create persists a new catalog item
func (r *GormCatalogItemRepository) Create(ctx context.Context, item *catalog.CatalogItem) error {
	db := dbFrom(ctx, r.db)
	return db.WithContext(ctx).Create(models.CatalogItemModelFromDomain(item)).Error
}

// Update rewrites a catalog item row
func (r *GormCatalogItemRepository) Update(ctx context.Context, item *catalog.CatalogItem) error {
	db := dbFrom(ctx, r.db)
	return db.WithContext(ctx).Save(models.CatalogItemModelFromDomain(item)).Error
}
