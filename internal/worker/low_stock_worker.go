package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restonext/internal/model"
	"restonext/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowStockAlert is the active alert kept for one ingredient.
type LowStockAlert struct {
	IngredientID  string          `json:"ingredient_id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStockAlert decimal.Decimal `json:"min_stock_alert"`
	RaisedAt      time.Time       `json:"raised_at"`
}

// AlertStore keeps the set of active low-stock alerts per tenant.
type AlertStore interface {
	Raise(ctx context.Context, tenantID uuid.UUID, alert LowStockAlert) error
	Clear(ctx context.Context, tenantID, ingredientID uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID) ([]LowStockAlert, error)
}

// IngredientReader is the slice of the ingredient repository the worker needs.
type IngredientReader interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Ingredient, error)
}

// LowStockWorker turns ledger low-stock signals into active alerts. Signals
// arrive after commit but later movements may have restocked the ingredient,
// so it is re-read and the alert reflects the current balance.
type LowStockWorker struct {
	ingredients IngredientReader
	alerts      AlertStore
	now         func() time.Time
}

func NewLowStockWorker(ingredients IngredientReader, alerts AlertStore) *LowStockWorker {
	return &LowStockWorker{ingredients: ingredients, alerts: alerts, now: time.Now}
}

func (w *LowStockWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var sig service.LowStockSignal
	if err := json.Unmarshal(raw, &sig); err != nil {
		return fmt.Errorf("low_stock_worker: invalid payload: %w", err)
	}

	ing, err := w.ingredients.FindByID(ctx, sig.TenantID, sig.IngredientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return w.alerts.Clear(ctx, sig.TenantID, sig.IngredientID)
	}
	if err != nil {
		return fmt.Errorf("low_stock_worker: load ingredient: %w", err)
	}

	if !ing.IsActive || !ing.IsLowStock() {
		log.Debug().
			Str("tenant_id", sig.TenantID.String()).
			Str("ingredient_id", ing.ID.String()).
			Msg("low_stock_worker: stock recovered, clearing alert")
		return w.alerts.Clear(ctx, sig.TenantID, ing.ID)
	}

	err = w.alerts.Raise(ctx, sig.TenantID, LowStockAlert{
		IngredientID:  ing.ID.String(),
		Name:          ing.Name,
		Unit:          string(ing.Unit),
		StockQuantity: ing.StockQuantity,
		MinStockAlert: ing.MinStockAlert,
		RaisedAt:      w.now().UTC(),
	})
	if err != nil {
		return err
	}
	log.Info().
		Str("tenant_id", sig.TenantID.String()).
		Str("ingredient_id", ing.ID.String()).
		Str("stock", ing.StockQuantity.String()).
		Msg("low_stock_worker: alert raised")
	return nil
}

// RedisAlertStore keeps alerts in one hash per tenant, keyed by ingredient id.
type RedisAlertStore struct {
	rdb redis.Cmdable
}

func NewRedisAlertStore(rdb redis.Cmdable) *RedisAlertStore {
	return &RedisAlertStore{rdb: rdb}
}

func alertsKey(tenantID uuid.UUID) string { return "alerts:low_stock:" + tenantID.String() }

func (s *RedisAlertStore) Raise(ctx context.Context, tenantID uuid.UUID, alert LowStockAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return s.rdb.HSet(ctx, alertsKey(tenantID), alert.IngredientID, data).Err()
}

func (s *RedisAlertStore) Clear(ctx context.Context, tenantID, ingredientID uuid.UUID) error {
	return s.rdb.HDel(ctx, alertsKey(tenantID), ingredientID.String()).Err()
}

func (s *RedisAlertStore) List(ctx context.Context, tenantID uuid.UUID) ([]LowStockAlert, error) {
	fields, err := s.rdb.HGetAll(ctx, alertsKey(tenantID)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]LowStockAlert, 0, len(fields))
	for id, raw := range fields {
		var a LowStockAlert
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			log.Warn().Err(err).Str("ingredient_id", id).Msg("alert store: dropping unreadable alert")
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
