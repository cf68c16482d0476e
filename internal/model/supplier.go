package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supplier is a vendor the tenant buys ingredients from.
type Supplier struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"not null"`
	ContactName  *string
	Phone        *string
	Email        *string
	PaymentTerms *string
	IsActive     bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SupplierIngredient links a supplier to an ingredient it sells. At most one
// link per ingredient is preferred.
type SupplierIngredient struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_supplier_ingredient"`
	IngredientID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_supplier_ingredient;index"`
	UnitCost         decimal.Decimal     `gorm:"type:decimal(12,4);not null"`
	IsPreferred      bool                `gorm:"not null;default:false"`
	MinOrderQuantity decimal.NullDecimal `gorm:"type:decimal(14,4)"`
	LeadTimeDays     int                 `gorm:"not null;default:1"`
	IsActive         bool                `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
