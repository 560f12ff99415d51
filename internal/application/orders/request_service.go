package orders

import (
	"context"
	"fmt"

	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/bizorder/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService drives the request envelope lifecycle: building a request
// item by item, raising one from a cart, and resolving it. Every mutation
// that touches line items persists the envelope and its recomputed total in
// the same transaction.
type RequestService struct {
	tx        TxManager
	envelopes EnvelopeRepository
	orders    OrderRepository
	carts     CartRepository
	catalog   CatalogReader
	logger    *zap.Logger
}

// NewRequestService creates a request service
func NewRequestService(tx TxManager, envelopes EnvelopeRepository, orders OrderRepository,
	carts CartRepository, catalog CatalogReader, logger *zap.Logger) *RequestService {
	return &RequestService{
		tx:        tx,
		envelopes: envelopes,
		orders:    orders,
		carts:     carts,
		catalog:   catalog,
		logger:    logger,
	}
}

// CreateRequest opens an empty pending request for an account
func (s *RequestService) CreateRequest(ctx context.Context, organizationID, requesterID uuid.UUID, remark string) (*ordering.RequestEnvelope, error) {
	envelope, err := ordering.NewRequestEnvelope(organizationID, requesterID)
	if err != nil {
		return nil, err
	}
	envelope.Remark = remark
	if err := s.envelopes.Create(ctx, envelope); err != nil {
		return nil, err
	}
	return envelope, nil
}

// AddLineItem puts a catalog item on a pending request, snapshotting its
// current price. The catalog item must be active; a second line item for
// the same catalog item is rejected.
func (s *RequestService) AddLineItem(ctx context.Context, envelopeID, catalogItemID uuid.UUID, quantity int64) (*ordering.RequestEnvelope, error) {
	var envelope *ordering.RequestEnvelope
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		envelope, err = s.envelopes.FindByID(ctx, envelopeID)
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
		if _, err := envelope.AddItem(item.ID, item.Name, item.Price, quantity); err != nil {
			return err
		}
		return s.envelopes.Update(ctx, envelope)
	})
	if err != nil {
		return nil, err
	}
	return envelope, nil
}

// RemoveLineItem takes a line item off a pending request and recomputes
// the total in the same transaction
func (s *RequestService) RemoveLineItem(ctx context.Context, envelopeID, itemID uuid.UUID) (*ordering.RequestEnvelope, error) {
	var envelope *ordering.RequestEnvelope
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		envelope, err = s.envelopes.FindByID(ctx, envelopeID)
		if err != nil {
			return err
		}
		if err := envelope.RemoveItem(itemID); err != nil {
			return err
		}
		return s.envelopes.Update(ctx, envelope)
	})
	if err != nil {
		return nil, err
	}
	return envelope, nil
}

// UpdateLineItemQuantity changes a line item's quantity; the price snapshot
// is untouched and the total is re-derived from scratch
func (s *RequestService) UpdateLineItemQuantity(ctx context.Context, envelopeID, itemID uuid.UUID, quantity int64) (*ordering.RequestEnvelope, error) {
	var envelope *ordering.RequestEnvelope
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		envelope, err = s.envelopes.FindByID(ctx, envelopeID)
		if err != nil {
			return err
		}
		if envelope.Status.IsTerminal() {
			return shared.NewDomainError("INVALID_STATE", "Cannot change items on a resolved request")
		}
		var target *ordering.LineItem
		for idx := range envelope.Items {
			if envelope.Items[idx].ID == itemID {
				target = &envelope.Items[idx]
				break
			}
		}
		if target == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
		}
		if err := target.UpdateQuantity(quantity); err != nil {
			return err
		}
		envelope.RecalculateTotal()
		return s.envelopes.Update(ctx, envelope)
	})
	if err != nil {
		return nil, err
	}
	return envelope, nil
}

// RaiseFromCart turns an account's cart into a pending request. Prices are
// read live at this moment and snapshotted onto the new line items; the
// cart is emptied in the same transaction.
func (s *RequestService) RaiseFromCart(ctx context.Context, organizationID, accountID uuid.UUID, remark string) (*ordering.RequestEnvelope, error) {
	var envelope *ordering.RequestEnvelope
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		cart, err := s.carts.FindByAccount(ctx, organizationID, accountID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return shared.NewDomainError("EMPTY_CART", "Cart has no items to order")
		}

		envelope, err = ordering.NewRequestEnvelope(organizationID, accountID)
		if err != nil {
			return err
		}
		envelope.Remark = remark
		for _, cartItem := range cart.Items {
			item, err := s.catalog.FindByID(ctx, cartItem.CatalogItemID)
			if err != nil {
				return err
			}
			if !item.Active {
				return shared.NewDomainError("ITEM_INACTIVE",
					fmt.Sprintf("Catalog item %s is no longer for sale", item.Name))
			}
			if _, err := envelope.AddItem(item.ID, item.Name, item.Price, cartItem.Quantity); err != nil {
				return err
			}
		}
		if err := s.envelopes.Create(ctx, envelope); err != nil {
			return err
		}

		cart.Clear()
		return s.carts.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("request raised from cart",
		zap.String("request_id", envelope.ID.String()),
		zap.String("account_id", accountID.String()),
		zap.Int("items", envelope.ItemCount()))
	return envelope, nil
}

// Approve resolves a pending request and derives its order. The status
// change and the new order commit together; a failure on either side
// leaves the request pending.
func (s *RequestService) Approve(ctx context.Context, envelopeID uuid.UUID) (*ordering.Order, error) {
	var order *ordering.Order
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		envelope, err := s.envelopes.FindByID(ctx, envelopeID)
		if err != nil {
			return err
		}
		if err := envelope.Approve(); err != nil {
			return err
		}
		order, err = ordering.NewOrderFromRequest(envelope)
		if err != nil {
			return err
		}
		if err := s.envelopes.Update(ctx, envelope); err != nil {
			return err
		}
		return s.orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("request approved",
		zap.String("request_id", envelopeID.String()),
		zap.String("order_id", order.ID.String()),
		zap.Int64("total", order.TotalAmount.Amount()))
	return order, nil
}

// Reject resolves a pending request against the requester
func (s *RequestService) Reject(ctx context.Context, envelopeID uuid.UUID) (*ordering.RequestEnvelope, error) {
	var envelope *ordering.RequestEnvelope
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		envelope, err = s.envelopes.FindByID(ctx, envelopeID)
		if err != nil {
			return err
		}
		if err := envelope.Reject(); err != nil {
			return err
		}
		return s.envelopes.Update(ctx, envelope)
	})
	if err != nil {
		return nil, err
	}
	return envelope, nil
}

// GetRequest returns one request with its line items
func (s *RequestService) GetRequest(ctx context.Context, envelopeID uuid.UUID) (*ordering.RequestEnvelope, error) {
	return s.envelopes.FindByID(ctx, envelopeID)
}

// ListRequests returns an organization's requests, optionally by status
func (s *RequestService) ListRequests(ctx context.Context, organizationID uuid.UUID, status *ordering.RequestStatus) ([]*ordering.RequestEnvelope, error) {
	return s.envelopes.ListByOrganization(ctx, organizationID, status)
}
