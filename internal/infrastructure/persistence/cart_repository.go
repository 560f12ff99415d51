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

// GormCartRepository persists carts; one cart per (organization, account)
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByAccount finds an account's cart with its items
func (r *GormCartRepository) FindByAccount(ctx context.Context, organizationID, accountID uuid.UUID) (*ordering.Cart, error) {
	db := dbFrom(ctx, r.db)

	var cart models.CartModel
	if err := db.WithContext(ctx).
		Where("organization_id = ? AND account_id = ?", organizationID, accountID).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var rows []models.CartItemModel
	if err := db.WithContext(ctx).
		Where("cart_id = ?", cart.ID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ordering.CartItem, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].ToDomain())
	}
	return cart.ToDomain(items), nil
}

// Save upserts the cart row and replaces its items
func (r *GormCartRepository) Save(ctx context.Context, cart *ordering.Cart) error {
	db := dbFrom(ctx, r.db)

	if err := db.WithContext(ctx).Save(models.CartModelFromDomain(cart)).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).
		Where("cart_id = ?", cart.ID).
		Delete(&models.CartItemModel{}).Error; err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return nil
	}
	ms := make([]models.CartItemModel, 0, len(cart.Items))
	for i := range cart.Items {
		var m models.CartItemModel
		m.FromDomain(&cart.Items[i])
		ms = append(ms, m)
	}
	return db.WithContext(ctx).Create(&ms).Error
}
