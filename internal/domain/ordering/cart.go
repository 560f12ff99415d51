package ordering

import (
	"time"

	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CartItem references a catalog item with a desired quantity. Carts carry no
// price snapshots: prices are read live when a cart is turned into a request.
type CartItem struct {
	ID            uuid.UUID
	CartID        uuid.UUID
	CatalogItemID uuid.UUID
	Quantity      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Cart belongs to an account within an organization
type Cart struct {
	shared.OrgEntity
	AccountID uuid.UUID
	Items     []CartItem
}

// NewCart creates an empty cart for an account
func NewCart(organizationID, accountID uuid.UUID) (*Cart, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	return &Cart{
		OrgEntity: shared.NewOrgEntity(organizationID),
		AccountID: accountID,
		Items:     make([]CartItem, 0),
	}, nil
}

// AddItem puts a catalog item in the cart, merging quantity on repeat adds
func (c *Cart) AddItem(catalogItemID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for idx := range c.Items {
		if c.Items[idx].CatalogItemID == catalogItemID {
			c.Items[idx].Quantity += quantity
			c.Items[idx].UpdatedAt = time.Now()
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	now := time.Now()
	c.Items = append(c.Items, CartItem{
		ID:            shared.NewID(),
		CartID:        c.ID,
		CatalogItemID: catalogItemID,
		Quantity:      quantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	c.UpdatedAt = now
	return nil
}

// RemoveItem drops a catalog item from the cart
func (c *Cart) RemoveItem(catalogItemID uuid.UUID) error {
	for idx := range c.Items {
		if c.Items[idx].CatalogItemID == catalogItemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Catalog item not in cart")
}

// Clear empties the cart, typically after a request was raised from it
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.UpdatedAt = time.Now()
}
