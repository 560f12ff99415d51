package persistence

import (
	"context"
	"errors"

	"github.com/bizorder/backend/internal/domain/identity"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrganizationRepository persists organizations
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by its ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	db := dbFrom(ctx, r.db)

	var org models.OrganizationModel
	if err := db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return org.ToDomain(), nil
}

// List lists all organizations
func (r *GormOrganizationRepository) List(ctx context.Context) ([]*identity.Organization, error) {
	db := dbFrom(ctx, r.db)

	var rows []models.OrganizationModel
	if err := db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*identity.Organization, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// Create persists a new organization
func (r *GormOrganizationRepository) Create(ctx context.Context, org *identity.Organization) error {
	db := dbFrom(ctx, r.db)
	return db.WithContext(ctx).Create(models.OrganizationModelFromDomain(org)).Error
}
