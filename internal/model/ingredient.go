package model

import (
	"errors"
	"strings"
	"time"

	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is a stock-tracked raw material owned by one tenant.
// StockQuantity is a cached balance: it must always equal the sum of the
// ingredient's StockTransaction quantities and is only written by the ledger.
type Ingredient struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"not null"`
	Unit          units.Unit      `gorm:"type:varchar(16);not null"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	MinStockAlert decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	CostPerUnit   decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	ModifierLink  ModifierLink    `gorm:"embedded"`
	IsActive      bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock reports whether the balance is at or below the alert threshold.
func (i *Ingredient) IsLowStock() bool {
	return i.StockQuantity.LessThanOrEqual(i.MinStockAlert)
}

// ModifierLink ties an ingredient to a menu modifier option: choosing the
// option (GroupName, OptionID) consumes Quantity of the ingredient per unit
// of the ordered item. A zero link means "not linked".
type ModifierLink struct {
	GroupName string          `gorm:"column:modifier_group_name"`
	OptionID  string          `gorm:"column:modifier_option_id"`
	Quantity  decimal.Decimal `gorm:"column:modifier_quantity;type:decimal(14,4);not null;default:0"`
}

// IsZero reports an unset link.
func (l ModifierLink) IsZero() bool {
	return l.GroupName == "" && l.OptionID == "" && l.Quantity.IsZero()
}

// Validate rejects half-filled links. A zero link is valid.
func (l ModifierLink) Validate() error {
	if l.IsZero() {
		return nil
	}
	if strings.TrimSpace(l.GroupName) == "" || strings.TrimSpace(l.OptionID) == "" {
		return errors.New("modifier link requires group name and option id")
	}
	if !l.Quantity.IsPositive() {
		return errors.New("modifier link quantity must be greater than zero")
	}
	return nil
}
