package repository

import (
	"context"
	"time"

	"restonext/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockTransactionFilter defines filters for listing ledger rows.
type StockTransactionFilter struct {
	IngredientID *uuid.UUID
	Type         model.StockTransactionType
	Page         int
	Limit        int
}

// StockTransactionRepository is append-only: there is deliberately no Update
// or Delete. The database enforces the same with a trigger (see infra).
type StockTransactionRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, t *model.StockTransaction) error
	List(ctx context.Context, tenantID uuid.UUID, filter StockTransactionFilter) ([]model.StockTransaction, int64, error)
	SumByIngredient(ctx context.Context, tenantID, ingredientID uuid.UUID) (decimal.Decimal, error)
	DailyConsumption(ctx context.Context, tenantID, ingredientID uuid.UUID, since time.Time) ([]model.DailyConsumption, error)
}

type stockTransactionRepo struct{ db *gorm.DB }

func NewStockTransactionRepository(db *gorm.DB) StockTransactionRepository {
	return &stockTransactionRepo{db: db}
}

func (r *stockTransactionRepo) CreateTx(ctx context.Context, tx *gorm.DB, t *model.StockTransaction) error {
	return conn(ctx, r.db, tx).Create(t).Error
}

func (r *stockTransactionRepo) List(ctx context.Context, tenantID uuid.UUID, filter StockTransactionFilter) ([]model.StockTransaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockTransaction{}).
		Preload("Ingredient").
		Where("tenant_id = ?", tenantID)
	if filter.IngredientID != nil {
		q = q.Where("ingredient_id = ?", *filter.IngredientID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginate(filter.Page, filter.Limit, 100, 500)
	var rows []model.StockTransaction
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *stockTransactionRepo) SumByIngredient(ctx context.Context, tenantID, ingredientID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.StockTransaction{}).
		Where("tenant_id = ? AND ingredient_id = ?", tenantID, ingredientID).
		Select("SUM(quantity)").
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// DailyConsumption aggregates sale outflows per calendar day (UTC) as
// positive quantities. Days without sales are absent.
func (r *stockTransactionRepo) DailyConsumption(ctx context.Context, tenantID, ingredientID uuid.UUID, since time.Time) ([]model.DailyConsumption, error) {
	var rows []model.DailyConsumption
	err := r.db.WithContext(ctx).Model(&model.StockTransaction{}).
		Select("date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, -SUM(quantity) AS quantity").
		Where("tenant_id = ? AND ingredient_id = ? AND type = ? AND created_at >= ?",
			tenantID, ingredientID, model.TxSale, since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}
