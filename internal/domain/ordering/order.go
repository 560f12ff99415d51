package ordering

import (
	"fmt"
	"time"

	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/bizorder/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Order is produced from an approved request envelope. Its line items are
// copied from the request at derivation time and its TotalAmount follows the
// same derived-total contract as the request's.
type Order struct {
	shared.OrgEntity
	RequestID   uuid.UUID
	RequesterID uuid.UUID
	Status      OrderStatus
	Items       []LineItem
	TotalAmount valueobject.Money
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// NewOrderFromRequest derives an order from an approved request envelope
func NewOrderFromRequest(req *RequestEnvelope) (*Order, error) {
	if req.Status != RequestStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE", "Only approved requests produce orders")
	}

	order := &Order{
		OrgEntity:   shared.NewOrgEntity(req.OrganizationID),
		RequestID:   req.ID,
		RequesterID: req.RequesterID,
		Status:      OrderStatusPending,
		Items:       make([]LineItem, 0, len(req.Items)),
		TotalAmount: valueobject.ZeroKRW(),
	}

	for _, src := range req.Items {
		item, err := NewLineItem(order.ID, src.CatalogItemID, src.ItemName, src.Price, src.Quantity)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}
	order.RecalculateTotal()
	return order, nil
}

// RecalculateTotal recomputes TotalAmount from the current line items
func (o *Order) RecalculateTotal() {
	total := valueobject.ZeroKRW()
	for _, item := range o.Items {
		total = total.MustAdd(item.Amount())
	}
	o.TotalAmount = total
}

// Transition moves the order to the target status if the lifecycle allows it
func (o *Order) Transition(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	now := time.Now()
	o.Status = target
	switch target {
	case OrderStatusCompleted:
		o.CompletedAt = &now
	case OrderStatusCancelled, OrderStatusRefunded:
		o.CancelledAt = &now
	}
	o.UpdatedAt = now
	return nil
}
