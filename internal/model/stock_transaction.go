package model

import (
	"time"

	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockTransactionType classifies a ledger row.
type StockTransactionType string

const (
	TxPurchase   StockTransactionType = "purchase"
	TxSale       StockTransactionType = "sale"
	TxAdjustment StockTransactionType = "adjustment"
	TxWaste      StockTransactionType = "waste"
)

// Valid reports whether t is a known transaction type.
func (t StockTransactionType) Valid() bool {
	switch t {
	case TxPurchase, TxSale, TxAdjustment, TxWaste:
		return true
	}
	return false
}

// Reference types written by the engine.
const (
	RefOrder         = "order"
	RefPurchaseOrder = "purchase_order"
	RefManual        = "manual"
)

// StockTransaction is an immutable ledger row. Quantity is signed
// (positive = stock in, negative = stock out) and expressed in the
// ingredient's unit; StockAfter is the balance right after this row.
type StockTransaction struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	IngredientID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Type          StockTransactionType `gorm:"type:varchar(16);not null;index"`
	Quantity      decimal.Decimal      `gorm:"type:decimal(14,4);not null"`
	Unit          units.Unit           `gorm:"type:varchar(16);not null"`
	StockAfter    decimal.Decimal      `gorm:"type:decimal(14,4);not null"`
	ReferenceType string               `gorm:"type:varchar(32)"`
	ReferenceID   *uuid.UUID           `gorm:"type:uuid;index"`
	Notes         string
	CreatedBy     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time  `gorm:"index"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// DailyConsumption is the aggregated outflow of one ingredient on one day,
// used as forecasting history.
type DailyConsumption struct {
	Day      time.Time
	Quantity decimal.Decimal
}
