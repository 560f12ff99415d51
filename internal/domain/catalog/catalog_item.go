package catalog

import (
	"time"

	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CatalogItem belongs to an organization and a category node. Its price is
// the snapshot source for order line items: line items copy the price at
// creation time, so later price changes never move historical totals.
type CatalogItem struct {
	shared.OrgEntity
	CategoryID  uuid.UUID
	Name        string
	Code        string
	Price       valueobject.Money
	Description string
	Active      bool
}

// NewCatalogItem creates a new catalog item
func NewCatalogItem(organizationID, categoryID uuid.UUID, name, code string, price valueobject.Money) (*CatalogItem, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Catalog item name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &CatalogItem{
		OrgEntity:  shared.NewOrgEntity(organizationID),
		CategoryID: categoryID,
		Name:       name,
		Code:       code,
		Price:      price,
		Active:     true,
	}, nil
}

// ChangePrice updates the live price. Existing line items keep their snapshot.
func (c *CatalogItem) ChangePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	c.Price = price
	c.UpdatedAt = time.Now()
	return nil
}

// Deactivate removes the item from sale without deleting it
func (c *CatalogItem) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}
