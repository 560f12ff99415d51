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

// GormAccountRepository persists accounts
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	db := dbFrom(ctx, r.db)

	var account models.AccountModel
	if err := db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return account.ToDomain(), nil
}

// FindByEmail finds an account by email within an organization
func (r *GormAccountRepository) FindByEmail(ctx context.Context, organizationID uuid.UUID, email string) (*identity.Account, error) {
	db := dbFrom(ctx, r.db)

	var account models.AccountModel
	if err := db.WithContext(ctx).
		Where("organization_id = ? AND email = ?", organizationID, email).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return account.ToDomain(), nil
}

// ListByOrganization lists an organization's accounts
func (r *GormAccountRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*identity.Account, error) {
	db := dbFrom(ctx, r.db)

	var rows []models.AccountModel
	if err := db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*identity.Account, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// Create persists a new account
func (r *GormAccountRepository) Create(ctx context.Context, account *identity.Account) error {
	db := dbFrom(ctx, r.db)
	return db.WithContext(ctx).Create(models.AccountModelFromDomain(account)).Error
}

// Update rewrites an account row
func (r *GormAccountRepository) Update(ctx context.Context, account *identity.Account) error {
	db := dbFrom(ctx, r.db)
	return db.WithContext(ctx).Save(models.AccountModelFromDomain(account)).Error
}
