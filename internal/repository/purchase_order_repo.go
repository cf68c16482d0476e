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

type PurchaseOrderRepository interface {
	// CreateTx inserts the header and its items.
	CreateTx(ctx context.Context, tx *gorm.DB, po *model.PurchaseOrder) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PurchaseOrder, error)
	// FindByIDForUpdate locks the header row; items are read under the same lock.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*model.PurchaseOrder, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, po *model.PurchaseOrder) error
	UpdateItemReceivedTx(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, received decimal.Decimal) error
	List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error)
	DB() *gorm.DB
}

type purchaseOrderRepo struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) DB() *gorm.DB { return r.db }

func (r *purchaseOrderRepo) CreateTx(ctx context.Context, tx *gorm.DB, po *model.PurchaseOrder) error {
	return conn(ctx, r.db, tx).Create(po).Error
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Ingredient").
		Preload("Supplier").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&po).Error
	return &po, err
}

func (r *purchaseOrderRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	db := conn(ctx, r.db, tx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&po).Error
	if err != nil {
		return &po, err
	}
	err = db.Where("purchase_order_id = ?", po.ID).Order("id ASC").Find(&po.Items).Error
	return &po, err
}

// UpdateTx persists header columns; items are written individually.
func (r *purchaseOrderRepo) UpdateTx(ctx context.Context, tx *gorm.DB, po *model.PurchaseOrder) error {
	return conn(ctx, r.db, tx).Model(po).
		Where("tenant_id = ?", po.TenantID).
		Select("status", "approved_by", "approved_at", "actual_delivery_at", "updated_at").
		Updates(po).Error
}

func (r *purchaseOrderRepo) UpdateItemReceivedTx(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, received decimal.Decimal) error {
	return conn(ctx, r.db, tx).Model(&model.PurchaseOrderItem{}).
		Where("id = ?", itemID).
		Update("quantity_received", received).Error
}

func (r *purchaseOrderRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginate(filter.Page, filter.Limit, 50, 200)
	var out []model.PurchaseOrder
	err := q.Preload("Items").Preload("Supplier").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&out).Error
	return out, total, err
}
