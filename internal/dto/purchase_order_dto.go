package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PurchaseOrderItemInput struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"      validate:"gt=0"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unit_cost"     validate:"min=0"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID         string                   `json:"supplier_id"          validate:"required,uuid"`
	ExpectedDeliveryAt *time.Time               `json:"expected_delivery_at"`
	Notes              string                   `json:"notes"`
	Items              []PurchaseOrderItemInput `json:"items"                validate:"required,min=1,dive"`
}

type CreateFromSuggestionsRequest struct {
	SupplierID  string `json:"supplier_id"  validate:"required,uuid"`
	HorizonDays int    `json:"horizon_days" validate:"omitempty,min=1,max=90"`
}

type ReceivedLineInput struct {
	ItemID   string          `json:"item_id"  validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

type ReceivePurchaseOrderRequest struct {
	Items []ReceivedLineInput `json:"items" validate:"required,min=1,dive"`
}

type PurchaseOrderFilter struct {
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseOrderItemResponse struct {
	ID               string          `json:"id"`
	IngredientID     string          `json:"ingredient_id"`
	Ingredient       string          `json:"ingredient,omitempty"`
	Unit             string          `json:"unit"`
	QuantityOrdered  decimal.Decimal `json:"quantity_ordered"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

type PurchaseOrderResponse struct {
	ID                 string                      `json:"id"`
	SupplierID         string                      `json:"supplier_id"`
	Supplier           string                      `json:"supplier,omitempty"`
	Status             string                      `json:"status"`
	Subtotal           decimal.Decimal             `json:"subtotal"`
	Tax                decimal.Decimal             `json:"tax"`
	Total              decimal.Decimal             `json:"total"`
	Notes              string                      `json:"notes,omitempty"`
	ExpectedDeliveryAt *string                     `json:"expected_delivery_at"`
	ActualDeliveryAt   *string                     `json:"actual_delivery_at"`
	ApprovedBy         *string                     `json:"approved_by"`
	ApprovedAt         *string                     `json:"approved_at"`
	Items              []PurchaseOrderItemResponse `json:"items"`
	CreatedAt          string                      `json:"created_at"`
}

type PurchaseOrderListResponse struct {
	Data  []PurchaseOrderResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
