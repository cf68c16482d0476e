package repository

import (
	"context"

	"restonext/internal/dto"
	"restonext/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IngredientRepository is the data access contract for ingredients.
// Every query is tenant-scoped; a row owned by another tenant is reported
// as gorm.ErrRecordNotFound.
//
// stock_quantity is never written by Update: the only path that moves it is
// UpdateStockTx, called by the stock ledger inside its transaction.
type IngredientRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, ing *model.Ingredient) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Ingredient, error)
	List(ctx context.Context, tenantID uuid.UUID, filter dto.IngredientFilter) ([]model.Ingredient, int64, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]model.Ingredient, error)
	ListModifierLinked(ctx context.Context, tenantID uuid.UUID) ([]model.Ingredient, error)
	ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]model.Ingredient, error)
	Update(ctx context.Context, ing *model.Ingredient) error
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)

	// Row-locking reads; tx must be a live transaction in production.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*model.Ingredient, error)
	FindManyForUpdate(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, ids []uuid.UUID) ([]model.Ingredient, error)
	UpdateStockTx(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID, delta decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ingredientRepo struct{ db *gorm.DB }

func NewIngredientRepository(db *gorm.DB) IngredientRepository { return &ingredientRepo{db: db} }

func (r *ingredientRepo) DB() *gorm.DB { return r.db }

func (r *ingredientRepo) CreateTx(ctx context.Context, tx *gorm.DB, ing *model.Ingredient) error {
	return conn(ctx, r.db, tx).Create(ing).Error
}

func (r *ingredientRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Ingredient, error) {
	var ing model.Ingredient
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&ing).Error
	return &ing, err
}

func (r *ingredientRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*model.Ingredient, error) {
	var ing model.Ingredient
	err := conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ing).Error
	return &ing, err
}

// FindManyForUpdate locks the rows in ascending id order so two transactions
// touching overlapping ingredient sets always acquire locks in the same order.
// Ids that do not exist for the tenant are simply absent from the result.
func (r *ingredientRepo) FindManyForUpdate(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, ids []uuid.UUID) ([]model.Ingredient, error) {
	var out []model.Ingredient
	if len(ids) == 0 {
		return out, nil
	}
	err := conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *ingredientRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.IngredientFilter) ([]model.Ingredient, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Ingredient{}).Where("tenant_id = ?", tenantID)

	switch filter.Active {
	case "false":
		q = q.Where("is_active = false")
	case "all":
	default:
		q = q.Where("is_active = true")
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginate(filter.Page, filter.Limit, 50, 500)
	var out []model.Ingredient
	err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&out).Error
	return out, total, err
}

func (r *ingredientRepo) ListActive(ctx context.Context, tenantID uuid.UUID) ([]model.Ingredient, error) {
	var out []model.Ingredient
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = true", tenantID).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

func (r *ingredientRepo) ListModifierLinked(ctx context.Context, tenantID uuid.UUID) ([]model.Ingredient, error) {
	var out []model.Ingredient
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = true AND modifier_group_name <> '' AND modifier_option_id <> ''", tenantID).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

func (r *ingredientRepo) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]model.Ingredient, error) {
	var out []model.Ingredient
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = true AND stock_quantity <= min_stock_alert", tenantID).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

// Update persists descriptive columns only.
func (r *ingredientRepo) Update(ctx context.Context, ing *model.Ingredient) error {
	return r.db.WithContext(ctx).Model(ing).
		Where("tenant_id = ?", ing.TenantID).
		Select("name", "unit", "min_stock_alert", "cost_per_unit",
			"modifier_group_name", "modifier_option_id", "modifier_quantity", "is_active").
		Updates(ing).Error
}

func (r *ingredientRepo) UpdateStockTx(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID, delta decimal.Decimal) error {
	return conn(ctx, r.db, tx).Model(&model.Ingredient{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta)).Error
}

func (r *ingredientRepo) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Ingredient{}).
		Where("is_active = true").
		Distinct("tenant_id").
		Pluck("tenant_id", &ids).Error
	return ids, err
}
