package service

import (
	"context"
	"fmt"

	"restonext/internal/model"
	"restonext/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OrderInventoryProcessor books the stock consumed by a fulfilled order.
//
// It does not guard against processing the same order twice: every call
// deducts again. Callers enforce at-most-once (OrderService.CompleteOrder
// uses the order's inventory_processed flag).
type OrderInventoryProcessor struct {
	orders      repository.OrderRepository
	ingredients repository.IngredientRepository
	resolver    *RecipeResolver
	ledger      *StockLedger
}

func NewOrderInventoryProcessor(
	orders repository.OrderRepository,
	ingredients repository.IngredientRepository,
	resolver *RecipeResolver,
	ledger *StockLedger,
) *OrderInventoryProcessor {
	return &OrderInventoryProcessor{orders: orders, ingredients: ingredients, resolver: resolver, ledger: ledger}
}

// Process deducts the order's ingredients inside tx and returns the created
// sale transactions. With allowNegative=false the whole call fails with
// *InsufficientStockError before anything is written if any ingredient
// would go below zero.
func (p *OrderInventoryProcessor) Process(ctx context.Context, tx *gorm.DB, tenantID, orderID uuid.UUID, actor *uuid.UUID, allowNegative bool) ([]model.StockTransaction, error) {
	order, err := p.orders.FindByID(ctx, tx, tenantID, orderID)
	if err != nil {
		return nil, notFound("order", err)
	}
	return p.processLoaded(ctx, tx, order, actor, allowNegative)
}

func (p *OrderInventoryProcessor) processLoaded(ctx context.Context, tx *gorm.DB, order *model.Order, actor *uuid.UUID, allowNegative bool) ([]model.StockTransaction, error) {
	logger := log.With().
		Str("tenant_id", order.TenantID.String()).
		Str("order_id", order.ID.String()).
		Logger()

	if !order.Status.Fulfilled() {
		logger.Info().Str("status", string(order.Status)).Msg("order not fulfilled, inventory untouched")
		return []model.StockTransaction{}, nil
	}

	lines := make([]ResolveLine, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, ResolveLine{MenuItemID: it.MenuItemID, Quantity: it.Quantity, Modifiers: it.Modifiers})
	}
	set, err := p.resolver.Resolve(ctx, order.TenantID, lines)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return []model.StockTransaction{}, nil
	}

	// Lock every ingredient of the set up front, in id order.
	locked, err := p.ingredients.FindManyForUpdate(ctx, tx, order.TenantID, set.IDs())
	if err != nil {
		return nil, fmt.Errorf("lock ingredients: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Ingredient, len(locked))
	for i := range locked {
		byID[locked[i].ID] = &locked[i]
	}

	if !allowNegative {
		for _, id := range set.IDs() {
			ing, ok := byID[id]
			if !ok {
				continue
			}
			need, _ := set.Get(id)
			if need.GreaterThan(ing.StockQuantity) {
				return nil, &InsufficientStockError{
					Ingredient: ing.Name,
					Required:   need,
					Available:  ing.StockQuantity,
				}
			}
		}
	}

	ref := order.ID
	out := make([]model.StockTransaction, 0, set.Len())
	for _, id := range set.IDs() {
		ing, ok := byID[id]
		if !ok {
			logger.Warn().Str("ingredient_id", id.String()).Msg("recipe references a missing ingredient, skipping")
			continue
		}
		need, _ := set.Get(id)
		row, err := p.ledger.apply(ctx, tx, ing, LedgerEntry{
			TenantID:       order.TenantID,
			IngredientID:   id,
			Delta:          need.Neg(),
			Type:           model.TxSale,
			ReferenceType:  model.RefOrder,
			ReferenceID:    &ref,
			Notes:          fmt.Sprintf("order %s", order.ID),
			Actor:          actor,
			ForbidNegative: !allowNegative,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, nil
}
