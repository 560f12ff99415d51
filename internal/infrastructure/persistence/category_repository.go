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

// GormCategoryRepository persists category nodes
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category node by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.CategoryNode, error) {
	db := dbFrom(ctx, r.db)

	var row models.CategoryModel
	if err := db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// ListByOrganization lists an organization's categories ordered so parents
// always precede their children
func (r *GormCategoryRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*catalog.CategoryNode, error) {
	db := dbFrom(ctx, r.db)

	var rows []models.CategoryModel
	if err := db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("depth ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*catalog.CategoryNode, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// Create persists a new category node
func (r *GormCategoryRepository) Create(ctx context.Context, node *catalog.CategoryNode) error {
	db := dbFrom(ctx, r.db)
	return db.WithContext(ctx).Create(models.CategoryModelFromDomain(node)).Error
}
