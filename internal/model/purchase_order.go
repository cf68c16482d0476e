package model

import (
	"time"

	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order.
type PurchaseOrderStatus string

const (
	PODraft     PurchaseOrderStatus = "draft"
	POPending   PurchaseOrderStatus = "pending"
	POApproved  PurchaseOrderStatus = "approved"
	POReceived  PurchaseOrderStatus = "received"
	POCancelled PurchaseOrderStatus = "cancelled"
)

// CanReceive reports whether goods may be booked against an order in this state.
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == POPending || s == POApproved
}

type PurchaseOrder struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status             PurchaseOrderStatus `gorm:"type:varchar(16);not null;default:'draft';index"`
	Subtotal           decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Tax                decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Total              decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Notes              string
	ExpectedDeliveryAt *time.Time
	ActualDeliveryAt   *time.Time
	CreatedBy          *uuid.UUID `gorm:"type:uuid"`
	ApprovedBy         *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Items    []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
	Supplier *Supplier           `gorm:"foreignKey:SupplierID"`
}

// FullyReceived reports whether every line has received at least what was ordered.
func (po *PurchaseOrder) FullyReceived() bool {
	for _, it := range po.Items {
		if !it.Satisfied() {
			return false
		}
	}
	return len(po.Items) > 0
}

type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientID     uuid.UUID       `gorm:"type:uuid;not null"`
	Unit             units.Unit      `gorm:"type:varchar(16);not null"`
	QuantityOrdered  decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	QuantityReceived decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// Satisfied reports quantity_received >= quantity_ordered.
func (it PurchaseOrderItem) Satisfied() bool {
	return it.QuantityReceived.GreaterThanOrEqual(it.QuantityOrdered)
}
