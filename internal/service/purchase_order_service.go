package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"restonext/internal/dto"
	"restonext/internal/model"
	"restonext/internal/repository"
	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrderService drives draft → pending → approved → received, with
// cancellation allowed from any state but received.
type PurchaseOrderService interface {
	Create(ctx context.Context, tenantID uuid.UUID, actor *uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	// CreateFromSuggestions turns one supplier group of a fresh suggestion
	// report into a draft purchase order.
	CreateFromSuggestions(ctx context.Context, tenantID uuid.UUID, actor *uuid.UUID, req dto.CreateFromSuggestionsRequest) (*dto.PurchaseOrderResponse, error)
	Submit(ctx context.Context, tenantID, id uuid.UUID) (*dto.PurchaseOrderResponse, error)
	Approve(ctx context.Context, tenantID, id uuid.UUID, actor *uuid.UUID) (*dto.PurchaseOrderResponse, error)
	Receive(ctx context.Context, tenantID, id uuid.UUID, actor *uuid.UUID, req dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error)
	Cancel(ctx context.Context, tenantID, id uuid.UUID) (*dto.PurchaseOrderResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.PurchaseOrderResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) (*dto.PurchaseOrderListResponse, error)
}

type purchaseOrderService struct {
	orders      repository.PurchaseOrderRepository
	suppliers   repository.SupplierRepository
	ingredients repository.IngredientRepository
	ledger      *StockLedger
	procurement ProcurementService
	taxRate     decimal.Decimal
	now         func() time.Time
}

func NewPurchaseOrderService(
	orders repository.PurchaseOrderRepository,
	suppliers repository.SupplierRepository,
	ingredients repository.IngredientRepository,
	ledger *StockLedger,
	procurement ProcurementService,
	taxRate decimal.Decimal,
) PurchaseOrderService {
	return &purchaseOrderService{
		orders:      orders,
		suppliers:   suppliers,
		ingredients: ingredients,
		ledger:      ledger,
		procurement: procurement,
		taxRate:     taxRate,
		now:         time.Now,
	}
}

func (s *purchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, actor *uuid.UUID, req dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, invalid("supplier_id %q is not a uuid", req.SupplierID)
	}
	supplier, err := s.suppliers.FindByID(ctx, tenantID, supplierID)
	if err != nil {
		return nil, notFound("supplier", err)
	}
	if !supplier.IsActive {
		return nil, invalid("supplier %s is inactive", supplier.Name)
	}
	if len(req.Items) == 0 {
		return nil, invalid("purchase order needs at least one item")
	}

	po := &model.PurchaseOrder{
		TenantID:           tenantID,
		SupplierID:         supplierID,
		Status:             model.PODraft,
		Notes:              req.Notes,
		ExpectedDeliveryAt: req.ExpectedDeliveryAt,
		CreatedBy:          actor,
		Supplier:           supplier,
	}
	subtotal := decimal.Zero
	for _, in := range req.Items {
		ingID, err := uuid.Parse(in.IngredientID)
		if err != nil {
			return nil, invalid("ingredient_id %q is not a uuid", in.IngredientID)
		}
		if !in.Quantity.IsPositive() {
			return nil, invalid("item quantity must be greater than zero")
		}
		if in.UnitCost.IsNegative() {
			return nil, invalid("unit_cost cannot be negative")
		}
		ing, err := s.ingredients.FindByID(ctx, tenantID, ingID)
		if err != nil {
			return nil, notFound("ingredient", err)
		}
		unit := ing.Unit
		if in.Unit != "" {
			if unit, err = units.Parse(in.Unit); err != nil {
				return nil, invalid("%s", err.Error())
			}
			if _, err := units.Convert(decimal.Zero, unit, ing.Unit); err != nil {
				return nil, fmt.Errorf("ingredient %s: %w", ing.Name, err)
			}
		}
		lineTotal := in.Quantity.Mul(in.UnitCost).Round(2)
		subtotal = subtotal.Add(lineTotal)
		po.Items = append(po.Items, model.PurchaseOrderItem{
			IngredientID:     ingID,
			Unit:             unit,
			QuantityOrdered:  in.Quantity,
			QuantityReceived: decimal.Zero,
			UnitCost:         in.UnitCost,
			TotalCost:        lineTotal,
			Ingredient:       ing,
		})
	}
	po.Subtotal = subtotal.Round(2)
	po.Tax = po.Subtotal.Mul(s.taxRate).Round(2)
	po.Total = po.Subtotal.Add(po.Tax)

	err = runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		return s.orders.CreateTx(ctx, tx, po)
	})
	if err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}
	log.Info().
		Str("tenant_id", tenantID.String()).
		Str("purchase_order_id", po.ID.String()).
		Str("total", po.Total.String()).
		Msg("purchase order drafted")
	return purchaseOrderToResponse(po), nil
}

func (s *purchaseOrderService) CreateFromSuggestions(ctx context.Context, tenantID uuid.UUID, actor *uuid.UUID, req dto.CreateFromSuggestionsRequest) (*dto.PurchaseOrderResponse, error) {
	if s.procurement == nil {
		return nil, fmt.Errorf("procurement recommender not configured")
	}
	report, err := s.procurement.GenerateSuggestions(ctx, tenantID, req.HorizonDays)
	if err != nil {
		return nil, err
	}
	group := report.Group(req.SupplierID)
	if group == nil || len(group.Items) == 0 {
		return nil, invalid("no suggestions for supplier %s", req.SupplierID)
	}

	items := make([]dto.PurchaseOrderItemInput, 0, len(group.Items))
	for _, sug := range group.Items {
		items = append(items, dto.PurchaseOrderItemInput{
			IngredientID: sug.IngredientID,
			Quantity:     sug.SuggestedQuantity,
			Unit:         sug.Unit,
			UnitCost:     sug.UnitCost,
		})
	}
	return s.Create(ctx, tenantID, actor, dto.CreatePurchaseOrderRequest{
		SupplierID: req.SupplierID,
		Notes:      fmt.Sprintf("generated from procurement suggestions (%d-day horizon)", report.HorizonDays),
		Items:      items,
	})
}

// mutate locks the purchase order, applies fn and persists the header.
func (s *purchaseOrderService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(ctx context.Context, tx *gorm.DB, po *model.PurchaseOrder) error) (*model.PurchaseOrder, error) {
	var po *model.PurchaseOrder
	err := s.ledger.Transaction(ctx, s.orders.DB(), func(ctx context.Context, tx *gorm.DB) error {
		var err error
		po, err = s.orders.FindByIDForUpdate(ctx, tx, tenantID, id)
		if err != nil {
			return notFound("purchase order", err)
		}
		if err := fn(ctx, tx, po); err != nil {
			return err
		}
		po.UpdatedAt = s.now()
		return s.orders.UpdateTx(ctx, tx, po)
	})
	return po, err
}

func transitionError(po *model.PurchaseOrder, action string) error {
	return fmt.Errorf("%w: cannot %s purchase order in status %s", ErrInvalidTransition, action, po.Status)
}

func (s *purchaseOrderService) Submit(ctx context.Context, tenantID, id uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	po, err := s.mutate(ctx, tenantID, id, func(_ context.Context, _ *gorm.DB, po *model.PurchaseOrder) error {
		if po.Status != model.PODraft {
			return transitionError(po, "submit")
		}
		po.Status = model.POPending
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchaseOrderToResponse(po), nil
}

func (s *purchaseOrderService) Approve(ctx context.Context, tenantID, id uuid.UUID, actor *uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	po, err := s.mutate(ctx, tenantID, id, func(_ context.Context, _ *gorm.DB, po *model.PurchaseOrder) error {
		if po.Status != model.PODraft && po.Status != model.POPending {
			return transitionError(po, "approve")
		}
		now := s.now()
		po.Status = model.POApproved
		po.ApprovedBy = actor
		po.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchaseOrderToResponse(po), nil
}

// Cancel is rejected once the order is received. Cancelling an already
// cancelled order is a no-op.
func (s *purchaseOrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	po, err := s.mutate(ctx, tenantID, id, func(_ context.Context, _ *gorm.DB, po *model.PurchaseOrder) error {
		if po.Status == model.POReceived {
			return transitionError(po, "cancel")
		}
		po.Status = model.POCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchaseOrderToResponse(po), nil
}

// Receive books goods against the order. Each line adds to quantity_received
// and appends a purchase ledger row; over-receipt is accepted. Once every
// line is satisfied the order becomes received.
func (s *purchaseOrderService) Receive(ctx context.Context, tenantID, id uuid.UUID, actor *uuid.UUID, req dto.ReceivePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, invalid("nothing to receive")
	}
	type receipt struct {
		itemID uuid.UUID
		qty    decimal.Decimal
	}
	receipts := make([]receipt, 0, len(req.Items))
	for _, in := range req.Items {
		itemID, err := uuid.Parse(in.ItemID)
		if err != nil {
			return nil, invalid("item_id %q is not a uuid", in.ItemID)
		}
		if !in.Quantity.IsPositive() {
			return nil, invalid("received quantity must be greater than zero")
		}
		receipts = append(receipts, receipt{itemID: itemID, qty: in.Quantity})
	}

	po, err := s.mutate(ctx, tenantID, id, func(ctx context.Context, tx *gorm.DB, po *model.PurchaseOrder) error {
		if !po.Status.CanReceive() {
			return transitionError(po, "receive")
		}
		items := make(map[uuid.UUID]*model.PurchaseOrderItem, len(po.Items))
		for i := range po.Items {
			items[po.Items[i].ID] = &po.Items[i]
		}
		for _, r := range receipts {
			if _, ok := items[r.itemID]; !ok {
				return invalid("item %s does not belong to purchase order %s", r.itemID, po.ID)
			}
		}
		// Same ingredient lock order as order processing.
		sort.SliceStable(receipts, func(i, j int) bool {
			a, b := items[receipts[i].itemID].IngredientID, items[receipts[j].itemID].IngredientID
			return bytes.Compare(a[:], b[:]) < 0
		})

		ref := po.ID
		for _, r := range receipts {
			item := items[r.itemID]
			item.QuantityReceived = item.QuantityReceived.Add(r.qty)
			if err := s.orders.UpdateItemReceivedTx(ctx, tx, item.ID, item.QuantityReceived); err != nil {
				return fmt.Errorf("update received quantity: %w", err)
			}
			_, err := s.ledger.Record(ctx, tx, LedgerEntry{
				TenantID:      tenantID,
				IngredientID:  item.IngredientID,
				Delta:         r.qty,
				Unit:          item.Unit,
				Type:          model.TxPurchase,
				ReferenceType: model.RefPurchaseOrder,
				ReferenceID:   &ref,
				Notes:         fmt.Sprintf("purchase order %s", po.ID),
				Actor:         actor,
			})
			if err != nil {
				return err
			}
		}

		if po.FullyReceived() {
			now := s.now()
			po.Status = model.POReceived
			po.ActualDeliveryAt = &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("tenant_id", tenantID.String()).
		Str("purchase_order_id", id.String()).
		Str("status", string(po.Status)).
		Int("lines", len(receipts)).
		Msg("purchase order receipt booked")
	return purchaseOrderToResponse(po), nil
}

func (s *purchaseOrderService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.PurchaseOrderResponse, error) {
	po, err := s.orders.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound("purchase order", err)
	}
	return purchaseOrderToResponse(po), nil
}

func (s *purchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) (*dto.PurchaseOrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.SupplierID != "" {
		if _, err := uuid.Parse(filter.SupplierID); err != nil {
			return nil, invalid("supplier_id %q is not a uuid", filter.SupplierID)
		}
	}
	rows, total, err := s.orders.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PurchaseOrderResponse, 0, len(rows))
	for i := range rows {
		data = append(data, *purchaseOrderToResponse(&rows[i]))
	}
	return &dto.PurchaseOrderListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
