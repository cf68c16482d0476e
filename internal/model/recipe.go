package model

import (
	"time"

	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeLine is one row of a menu item's recipe: producing one unit of the
// menu item consumes Quantity (in Unit) of the ingredient.
type RecipeLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MenuItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	IngredientID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	Unit         units.Unit      `gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}
