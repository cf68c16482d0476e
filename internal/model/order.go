package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus mirrors the POS order lifecycle. Only paid and delivered orders
// consume inventory.
type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderPreparing OrderStatus = "preparing"
	OrderPaid      OrderStatus = "paid"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Fulfilled reports whether an order in this status has left the kitchen.
func (s OrderStatus) Fulfilled() bool {
	return s == OrderPaid || s == OrderDelivered
}

// Order is owned by the ordering subsystem; this engine reads its items and
// flips Status and InventoryProcessed on completion.
type Order struct {
	ID                   uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID             uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status               OrderStatus `gorm:"type:varchar(16);not null;default:'open'"`
	InventoryProcessed   bool        `gorm:"not null;default:false"`
	InventoryProcessedAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	MenuItemID uuid.UUID          `gorm:"type:uuid;not null"`
	Quantity   int                `gorm:"not null"`
	Modifiers  []SelectedModifier `gorm:"serializer:json;type:jsonb"`
}

// SelectedModifier is one modifier option chosen on an order line.
type SelectedModifier struct {
	GroupName string `json:"group_name"`
	OptionID  string `json:"option_id"`
}
