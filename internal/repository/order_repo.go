package repository

import (
	"context"
	"time"

	"restonext/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository reads orders owned by the ordering subsystem. The engine
// only ever writes status and the inventory-processed marker.
type OrderRepository interface {
	FindByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*model.Order, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*model.Order, error)
	UpdateStatusTx(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID, status model.OrderStatus) error
	MarkInventoryProcessedTx(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID, at time.Time) error
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) FindByID(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := conn(ctx, r.db, tx).Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&o).Error
	return &o, err
}

func (r *orderRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	db := conn(ctx, r.db, tx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&o).Error
	if err != nil {
		return &o, err
	}
	err = db.Where("order_id = ?", o.ID).Find(&o.Items).Error
	return &o, err
}

func (r *orderRepo) UpdateStatusTx(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID, status model.OrderStatus) error {
	return conn(ctx, r.db, tx).Model(&model.Order{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("status", status).Error
}

func (r *orderRepo) MarkInventoryProcessedTx(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID, at time.Time) error {
	return conn(ctx, r.db, tx).Model(&model.Order{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"inventory_processed":    true,
			"inventory_processed_at": at,
		}).Error
}
