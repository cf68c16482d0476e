package service

import (
	"context"
	"fmt"

	"restonext/internal/dto"
	"restonext/internal/model"
	"restonext/internal/repository"
	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowStockSignal is emitted whenever a ledger write leaves an ingredient at
// or below its alert threshold.
type LowStockSignal struct {
	TenantID      uuid.UUID       `json:"tenant_id"`
	IngredientID  uuid.UUID       `json:"ingredient_id"`
	Name          string          `json:"name"`
	Unit          units.Unit      `json:"unit"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	MinStockAlert decimal.Decimal `json:"min_stock_alert"`
}

// LowStockNotifier receives low-stock signals. Writes booked through
// StockLedger.Transaction signal only after commit; consumers still re-read
// the ingredient because later movements may have restocked it.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, sig LowStockSignal) error
}

// LedgerEntry describes one stock movement. Delta is signed and expressed in
// Unit; an empty Unit means the ingredient's own unit.
type LedgerEntry struct {
	TenantID       uuid.UUID
	IngredientID   uuid.UUID
	Delta          decimal.Decimal
	Unit           units.Unit
	Type           model.StockTransactionType
	ReferenceType  string
	ReferenceID    *uuid.UUID
	Notes          string
	Actor          *uuid.UUID
	ForbidNegative bool
}

// StockLedger is the only writer of ingredient balances. Each Record call
// locks the ingredient row, moves the cached balance and appends the
// matching immutable transaction, all inside the caller's transaction.
type StockLedger struct {
	ingredients  repository.IngredientRepository
	transactions repository.StockTransactionRepository
	notifier     LowStockNotifier
}

func NewStockLedger(
	ingredients repository.IngredientRepository,
	transactions repository.StockTransactionRepository,
	notifier LowStockNotifier,
) *StockLedger {
	return &StockLedger{ingredients: ingredients, transactions: transactions, notifier: notifier}
}

// Record books e. tx must be the caller's open transaction (nil in unit tests).
func (l *StockLedger) Record(ctx context.Context, tx *gorm.DB, e LedgerEntry) (*model.StockTransaction, error) {
	ing, err := l.ingredients.FindByIDForUpdate(ctx, tx, e.TenantID, e.IngredientID)
	if err != nil {
		return nil, notFound("ingredient", err)
	}
	return l.apply(ctx, tx, ing, e)
}

// apply books e against ing, which the caller has already locked. ing's
// StockQuantity is advanced so the caller's copy stays current.
func (l *StockLedger) apply(ctx context.Context, tx *gorm.DB, ing *model.Ingredient, e LedgerEntry) (*model.StockTransaction, error) {
	if !e.Type.Valid() {
		return nil, invalid("unknown transaction type %q", e.Type)
	}
	delta := e.Delta
	if e.Unit != "" && e.Unit != ing.Unit {
		converted, err := units.Convert(delta, e.Unit, ing.Unit)
		if err != nil {
			return nil, fmt.Errorf("ingredient %s: %w", ing.Name, err)
		}
		delta = converted
	}

	after := ing.StockQuantity.Add(delta)
	if e.ForbidNegative && delta.IsNegative() && after.IsNegative() {
		return nil, &InsufficientStockError{
			Ingredient: ing.Name,
			Required:   delta.Neg(),
			Available:  ing.StockQuantity,
		}
	}

	if err := l.ingredients.UpdateStockTx(ctx, tx, ing.TenantID, ing.ID, delta); err != nil {
		return nil, fmt.Errorf("update stock of %s: %w", ing.Name, err)
	}
	row := &model.StockTransaction{
		TenantID:      ing.TenantID,
		IngredientID:  ing.ID,
		Type:          e.Type,
		Quantity:      delta,
		Unit:          ing.Unit,
		StockAfter:    after,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		Notes:         e.Notes,
		CreatedBy:     e.Actor,
	}
	if err := l.transactions.CreateTx(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("append stock transaction for %s: %w", ing.Name, err)
	}
	ing.StockQuantity = after

	if after.LessThanOrEqual(ing.MinStockAlert) {
		sig := LowStockSignal{
			TenantID:      ing.TenantID,
			IngredientID:  ing.ID,
			Name:          ing.Name,
			Unit:          ing.Unit,
			StockAfter:    after,
			MinStockAlert: ing.MinStockAlert,
		}
		if box, ok := ctx.Value(outboxKey{}).(*signalOutbox); ok {
			box.add(sig)
		} else {
			l.signal(ctx, sig)
		}
	}
	return row, nil
}

type outboxKey struct{}

// signalOutbox holds the low-stock signals of one transaction attempt,
// one per ingredient, last write wins.
type signalOutbox struct {
	order   []uuid.UUID
	signals map[uuid.UUID]LowStockSignal
}

func (b *signalOutbox) add(sig LowStockSignal) {
	if b.signals == nil {
		b.signals = make(map[uuid.UUID]LowStockSignal)
	}
	if _, seen := b.signals[sig.IngredientID]; !seen {
		b.order = append(b.order, sig.IngredientID)
	}
	b.signals[sig.IngredientID] = sig
}

// Transaction runs fn in a database transaction, retried on serialization
// failures, and sends the low-stock signals raised by fn's ledger writes once
// the transaction has committed. Ledger writes must use the ctx passed to fn.
// Nothing is sent when fn or the commit fails.
func (l *StockLedger) Transaction(ctx context.Context, db *gorm.DB, fn func(ctx context.Context, tx *gorm.DB) error) error {
	var box *signalOutbox
	err := runTxRetry(ctx, db, func(tx *gorm.DB) error {
		box = &signalOutbox{}
		return fn(context.WithValue(ctx, outboxKey{}, box), tx)
	})
	if err != nil {
		return err
	}
	for _, id := range box.order {
		l.signal(ctx, box.signals[id])
	}
	return nil
}

func (l *StockLedger) signal(ctx context.Context, sig LowStockSignal) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.NotifyLowStock(ctx, sig); err != nil {
		log.Warn().Err(err).
			Str("tenant_id", sig.TenantID.String()).
			Str("ingredient_id", sig.IngredientID.String()).
			Msg("low-stock signal not delivered")
	}
}

// Verify recomputes the ledger sum for one ingredient and compares it with
// the cached balance.
func (l *StockLedger) Verify(ctx context.Context, tenantID, ingredientID uuid.UUID) (*dto.LedgerCheckResponse, error) {
	ing, err := l.ingredients.FindByID(ctx, tenantID, ingredientID)
	if err != nil {
		return nil, notFound("ingredient", err)
	}
	sum, err := l.transactions.SumByIngredient(ctx, tenantID, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("sum ledger: %w", err)
	}
	drift := ing.StockQuantity.Sub(sum)
	if !drift.IsZero() {
		log.Error().
			Str("tenant_id", tenantID.String()).
			Str("ingredient_id", ingredientID.String()).
			Str("stock_quantity", ing.StockQuantity.String()).
			Str("ledger_sum", sum.String()).
			Msg("stock balance drifted from ledger")
	}
	return &dto.LedgerCheckResponse{
		IngredientID:  ingredientID.String(),
		StockQuantity: ing.StockQuantity,
		LedgerSum:     sum,
		Drift:         drift,
		Consistent:    drift.IsZero(),
	}, nil
}
