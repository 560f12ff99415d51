package ordering

import (
	"fmt"
	"time"

	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// RequestEnvelope is an order request raised by an account within an
// organization. Its TotalAmount is derived state: it is always recomputed
// from the current line items and is never accepted as authoritative input.
type RequestEnvelope struct {
	shared.OrgEntity
	RequesterID uuid.UUID
	Status      RequestStatus
	Items       []LineItem
	TotalAmount valueobject.Money
	Remark      string
	ResolvedAt  *time.Time
}

// NewRequestEnvelope creates a pending order request
func NewRequestEnvelope(organizationID, requesterID uuid.UUID) (*RequestEnvelope, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if requesterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester account ID cannot be empty")
	}
	return &RequestEnvelope{
		OrgEntity:   shared.NewOrgEntity(organizationID),
		RequesterID: requesterID,
		Status:      RequestStatusPending,
		Items:       make([]LineItem, 0),
		TotalAmount: valueobject.ZeroKRW(),
	}, nil
}

// AddItem attaches a line item, snapshotting the given price.
// A catalog item may appear at most once per envelope; duplicates are
// rejected here rather than left to the store's unique constraint.
func (e *RequestEnvelope) AddItem(catalogItemID uuid.UUID, itemName string, price valueobject.Money, quantity int64) (*LineItem, error) {
	if e.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a resolved request")
	}
	for _, item := range e.Items {
		if item.CatalogItemID == catalogItemID {
			return nil, shared.ErrDuplicateLineItem
		}
	}

	item, err := NewLineItem(e.ID, catalogItemID, itemName, price, quantity)
	if err != nil {
		return nil, err
	}

	e.Items = append(e.Items, *item)
	e.RecalculateTotal()
	e.UpdatedAt = time.Now()
	return item, nil
}

// RemoveItem detaches a line item
func (e *RequestEnvelope) RemoveItem(itemID uuid.UUID) error {
	if e.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a resolved request")
	}
	for idx, item := range e.Items {
		if item.ID == itemID {
			e.Items = append(e.Items[:idx], e.Items[idx+1:]...)
			e.RecalculateTotal()
			e.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// RecalculateTotal recomputes TotalAmount from the current line items.
// Always a full re-sum, never an incremental delta.
func (e *RequestEnvelope) RecalculateTotal() {
	total := valueobject.ZeroKRW()
	for _, item := range e.Items {
		total = total.MustAdd(item.Amount())
	}
	e.TotalAmount = total
}

// Approve resolves the request in favour of the requester
func (e *RequestEnvelope) Approve() error {
	return e.resolve(RequestStatusApproved)
}

// Reject resolves the request against the requester
func (e *RequestEnvelope) Reject() error {
	return e.resolve(RequestStatusRejected)
}

func (e *RequestEnvelope) resolve(target RequestStatus) error {
	if !e.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move request from %s to %s", e.Status, target))
	}
	now := time.Now()
	e.Status = target
	e.ResolvedAt = &now
	e.UpdatedAt = now
	return nil
}

// ItemCount returns the number of line items on the envelope
func (e *RequestEnvelope) ItemCount() int {
	return len(e.Items)
}

// GetItemByCatalogItem returns the line item for a catalog item, if present
func (e *RequestEnvelope) GetItemByCatalogItem(catalogItemID uuid.UUID) *LineItem {
	for idx := range e.Items {
		if e.Items[idx].CatalogItemID == catalogItemID {
			return &e.Items[idx]
		}
	}
	return nil
}
