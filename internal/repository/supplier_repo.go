package repository

import (
	"context"

	"restonext/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.Supplier, error)
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error

	// ListIngredientLinks returns every supplier link of the given
	// ingredients, supplier preloaded, oldest first.
	ListIngredientLinks(ctx context.Context, tenantID uuid.UUID, ingredientIDs []uuid.UUID) ([]model.SupplierIngredient, error)
	UpsertLinkTx(ctx context.Context, tx *gorm.DB, link *model.SupplierIngredient) error
	ClearPreferredTx(ctx context.Context, tx *gorm.DB, tenantID, ingredientID uuid.UUID) error
	DB() *gorm.DB
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) DB() *gorm.DB { return r.db }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&s).Error
	return &s, err
}

func (r *supplierRepo) List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.Supplier, error) {
	var out []model.Supplier
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *supplierRepo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Supplier{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *supplierRepo) ListIngredientLinks(ctx context.Context, tenantID uuid.UUID, ingredientIDs []uuid.UUID) ([]model.SupplierIngredient, error) {
	var links []model.SupplierIngredient
	if len(ingredientIDs) == 0 {
		return links, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("tenant_id = ? AND ingredient_id IN ?", tenantID, ingredientIDs).
		Order("created_at ASC").
		Find(&links).Error
	return links, err
}

// UpsertLinkTx inserts the link or, when (supplier, ingredient) already
// exists, overwrites its commercial terms.
func (r *supplierRepo) UpsertLinkTx(ctx context.Context, tx *gorm.DB, link *model.SupplierIngredient) error {
	return conn(ctx, r.db, tx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "supplier_id"}, {Name: "ingredient_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"unit_cost", "is_preferred", "min_order_quantity", "lead_time_days", "is_active", "updated_at",
		}),
	}).Create(link).Error
}

func (r *supplierRepo) ClearPreferredTx(ctx context.Context, tx *gorm.DB, tenantID, ingredientID uuid.UUID) error {
	return conn(ctx, r.db, tx).Model(&model.SupplierIngredient{}).
		Where("tenant_id = ? AND ingredient_id = ? AND is_preferred = true", tenantID, ingredientID).
		Update("is_preferred", false).Error
}
