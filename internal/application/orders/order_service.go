package orders

import (
	"context"

	"github.com/bizorder/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService drives orders through their lifecycle after derivation
type OrderService struct {
	tx     TxManager
	orders OrderRepository
	logger *zap.Logger
}

// NewOrderService creates an order service
func NewOrderService(tx TxManager, orders OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{tx: tx, orders: orders, logger: logger}
}

// GetOrder returns one order with its line items
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// ListOrders returns an organization's orders, optionally by status
func (s *OrderService) ListOrders(ctx context.Context, organizationID uuid.UUID, status *ordering.OrderStatus) ([]*ordering.Order, error) {
	return s.orders.ListByOrganization(ctx, organizationID, status)
}

// StartProcessing moves a pending order into processing
func (s *OrderService) StartProcessing(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	return s.transition(ctx, orderID, ordering.OrderStatusProcessing)
}

// Complete finishes a processing order
func (s *OrderService) Complete(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	return s.transition(ctx, orderID, ordering.OrderStatusCompleted)
}

// Cancel cancels any non-terminal order
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	return s.transition(ctx, orderID, ordering.OrderStatusCancelled)
}

// Refund refunds any non-terminal order
func (s *OrderService) Refund(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	return s.transition(ctx, orderID, ordering.OrderStatusRefunded)
}

func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, target ordering.OrderStatus) (*ordering.Order, error) {
	var order *ordering.Order
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Transition(target); err != nil {
			return err
		}
		return s.orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("order transitioned",
		zap.String("order_id", orderID.String()),
		zap.String("status", target.String()))
	return order, nil
}
