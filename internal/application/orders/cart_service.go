package orders

import (
	"context"
	"errors"

	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService manages the per-account cart. Carts are created lazily on
// first use and carry no prices; pricing happens when a request is raised.
type CartService struct {
	tx      TxManager
	carts   CartRepository
	catalog CatalogReader
	logger  *zap.Logger
}

// NewCartService creates a cart service
func NewCartService(tx TxManager, carts CartRepository, catalog CatalogReader, logger *zap.Logger) *CartService {
	return &CartService{tx: tx, carts: carts, catalog: catalog, logger: logger}
}

// GetCart returns the account's cart, creating an empty one if none exists
func (s *CartService) GetCart(ctx context.Context, organizationID, accountID uuid.UUID) (*ordering.Cart, error) {
	cart, err := s.carts.FindByAccount(ctx, organizationID, accountID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	cart, err = ordering.NewCart(organizationID, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem puts a catalog item in the cart, merging quantities on repeat adds
func (s *CartService) AddItem(ctx context.Context, organizationID, accountID, catalogItemID uuid.UUID, quantity int64) (*ordering.Cart, error) {
	var cart *ordering.Cart
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		cart, err = s.GetCart(ctx, organizationID, accountID)
		if err != nil {
			return err
		}
		item, err := s.catalog.FindByID(ctx, catalogItemID)
		if err != nil {
			return err
		}
		if !item.Active {
			return shared.NewDomainError("ITEM_INACTIVE", "Catalog item is no longer for sale")
		}
		if err := cart.AddItem(item.ID, quantity); err != nil {
			return err
		}
		return s.carts.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops a catalog item from the cart
func (s *CartService) RemoveItem(ctx context.Context, organizationID, accountID, catalogItemID uuid.UUID) (*ordering.Cart, error) {
	var cart *ordering.Cart
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		cart, err = s.carts.FindByAccount(ctx, organizationID, accountID)
		if err != nil {
			return err
		}
		if err := cart.RemoveItem(catalogItemID); err != nil {
			return err
		}
		return s.carts.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, organizationID, accountID uuid.UUID) error {
	return s.tx.Do(ctx, func(ctx context.Context) error {
		cart, err := s.carts.FindByAccount(ctx, organizationID, accountID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		cart.Clear()
		return s.carts.Save(ctx, cart)
	})
}
