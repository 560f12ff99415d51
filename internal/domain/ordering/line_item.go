package ordering

import (
	"time"

	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// LineItem belongs to exactly one envelope and references one catalog item.
// Price and quantity are snapshotted at creation time: the price is copied
// from the catalog item, not read live, so historical totals stay stable
// when catalog prices later change.
type LineItem struct {
	ID            uuid.UUID
	EnvelopeID    uuid.UUID
	CatalogItemID uuid.UUID
	ItemName      string
	Price         valueobject.Money
	Quantity      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewLineItem creates a line item snapshotting the given price
func NewLineItem(envelopeID, catalogItemID uuid.UUID, itemName string, price valueobject.Money, quantity int64) (*LineItem, error) {
	if envelopeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENVELOPE", "Envelope ID cannot be empty")
	}
	if catalogItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATALOG_ITEM", "Catalog item ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	now := time.Now()
	return &LineItem{
		ID:            shared.NewID(),
		EnvelopeID:    envelopeID,
		CatalogItemID: catalogItemID,
		ItemName:      itemName,
		Price:         price,
		Quantity:      quantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Amount returns price * quantity in minor units
func (i *LineItem) Amount() valueobject.Money {
	return i.Price.MultiplyByInt(i.Quantity)
}

// UpdateQuantity changes the quantity; the price snapshot is untouched
func (i *LineItem) UpdateQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}
