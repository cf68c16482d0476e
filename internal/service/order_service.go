package service

import (
	"context"
	"fmt"
	"time"

	"restonext/internal/dto"
	"restonext/internal/model"
	"restonext/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService is the checkout-side boundary into inventory.
type OrderService interface {
	// CompleteOrder moves the order to paid or delivered and deducts its
	// inventory in the same database transaction, at most once per order.
	CompleteOrder(ctx context.Context, tenantID, orderID uuid.UUID, status model.OrderStatus, actor *uuid.UUID) (*dto.OrderInventoryResponse, error)
	// ProcessOrderInventory runs the processor on its own. No processed-flag
	// guard: calling it twice deducts twice.
	ProcessOrderInventory(ctx context.Context, tenantID, orderID uuid.UUID, actor *uuid.UUID, allowNegative bool) (*dto.OrderInventoryResponse, error)
}

type orderService struct {
	orders    repository.OrderRepository
	processor *OrderInventoryProcessor
	now       func() time.Time
}

func NewOrderService(orders repository.OrderRepository, processor *OrderInventoryProcessor) OrderService {
	return &orderService{orders: orders, processor: processor, now: time.Now}
}

func (s *orderService) CompleteOrder(ctx context.Context, tenantID, orderID uuid.UUID, status model.OrderStatus, actor *uuid.UUID) (*dto.OrderInventoryResponse, error) {
	if !status.Fulfilled() {
		return nil, invalid("completion status must be paid or delivered, got %q", status)
	}

	var (
		order *model.Order
		rows  []model.StockTransaction
	)
	err := s.processor.ledger.Transaction(ctx, s.orders.DB(), func(ctx context.Context, tx *gorm.DB) error {
		var err error
		order, err = s.orders.FindByIDForUpdate(ctx, tx, tenantID, orderID)
		if err != nil {
			return notFound("order", err)
		}
		if order.Status == model.OrderCancelled {
			return fmt.Errorf("%w: order %s is cancelled", ErrInvalidTransition, orderID)
		}

		if err := s.orders.UpdateStatusTx(ctx, tx, tenantID, orderID, status); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		order.Status = status

		rows = nil
		if order.InventoryProcessed {
			return nil
		}
		rows, err = s.processor.processLoaded(ctx, tx, order, actor, true)
		if err != nil {
			return err
		}
		now := s.now()
		if err := s.orders.MarkInventoryProcessedTx(ctx, tx, tenantID, orderID, now); err != nil {
			return fmt.Errorf("mark inventory processed: %w", err)
		}
		order.InventoryProcessed = true
		order.InventoryProcessedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orderInventoryResponse(order, rows), nil
}

func (s *orderService) ProcessOrderInventory(ctx context.Context, tenantID, orderID uuid.UUID, actor *uuid.UUID, allowNegative bool) (*dto.OrderInventoryResponse, error) {
	var (
		order *model.Order
		rows  []model.StockTransaction
	)
	err := s.processor.ledger.Transaction(ctx, s.orders.DB(), func(ctx context.Context, tx *gorm.DB) error {
		var err error
		order, err = s.orders.FindByID(ctx, tx, tenantID, orderID)
		if err != nil {
			return notFound("order", err)
		}
		rows, err = s.processor.processLoaded(ctx, tx, order, actor, allowNegative)
		return err
	})
	if err != nil {
		return nil, err
	}
	return orderInventoryResponse(order, rows), nil
}

func orderInventoryResponse(o *model.Order, rows []model.StockTransaction) *dto.OrderInventoryResponse {
	txs := make([]dto.StockTransactionResponse, 0, len(rows))
	for i := range rows {
		txs = append(txs, stockTransactionToResponse(&rows[i]))
	}
	return &dto.OrderInventoryResponse{
		OrderID:            o.ID.String(),
		Status:             string(o.Status),
		InventoryProcessed: o.InventoryProcessed,
		Transactions:       txs,
	}
}
