package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ModifierLinkInput struct {
	GroupName string          `json:"group_name" validate:"required"`
	OptionID  string          `json:"option_id"  validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"gt=0"`
}

type CreateIngredientRequest struct {
	Name          string             `json:"name"            validate:"required,min=1"`
	Unit          string             `json:"unit"            validate:"required"`
	MinStockAlert decimal.Decimal    `json:"min_stock_alert" validate:"min=0"`
	CostPerUnit   decimal.Decimal    `json:"cost_per_unit"   validate:"min=0"`
	InitialStock  decimal.Decimal    `json:"initial_stock"   validate:"min=0"`
	ModifierLink  *ModifierLinkInput `json:"modifier_link"`
}

type UpdateIngredientRequest struct {
	Name          *string          `json:"name"            validate:"omitempty,min=1"`
	MinStockAlert *decimal.Decimal `json:"min_stock_alert"`
	CostPerUnit   *decimal.Decimal `json:"cost_per_unit"`
}

type IngredientFilter struct {
	Name   string `form:"name"`
	Active string `form:"active"` // "true" (default) | "false" | "all"
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// AdjustStockRequest is a manual stock movement. Quantity is signed for
// adjustments; waste is always booked as an outflow.
type AdjustStockRequest struct {
	Quantity       decimal.Decimal `json:"quantity"        validate:"required"`
	Unit           string          `json:"unit"`
	Type           string          `json:"type"            validate:"required,oneof=adjustment waste purchase"`
	Notes          string          `json:"notes"`
	ForbidNegative bool            `json:"forbid_negative"`
}

type RecipeLineInput struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	Quantity     decimal.Decimal `json:"quantity"      validate:"gt=0"`
	Unit         string          `json:"unit"          validate:"required"`
}

type SetRecipeRequest struct {
	Lines []RecipeLineInput `json:"lines" validate:"dive"`
}

type TransactionFilter struct {
	IngredientID string `form:"ingredient_id"`
	Type         string `form:"type"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ModifierLinkResponse struct {
	GroupName string          `json:"group_name"`
	OptionID  string          `json:"option_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type IngredientResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Unit          string                `json:"unit"`
	StockQuantity decimal.Decimal       `json:"stock_quantity"`
	MinStockAlert decimal.Decimal       `json:"min_stock_alert"`
	CostPerUnit   decimal.Decimal       `json:"cost_per_unit"`
	ModifierLink  *ModifierLinkResponse `json:"modifier_link,omitempty"`
	IsActive      bool                  `json:"is_active"`
	IsLowStock    bool                  `json:"is_low_stock"`
	CreatedAt     string                `json:"created_at"`
}

type IngredientListResponse struct {
	Data  []IngredientResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type StockTransactionResponse struct {
	ID            string          `json:"id"`
	IngredientID  string          `json:"ingredient_id"`
	Ingredient    string          `json:"ingredient,omitempty"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     *string         `json:"created_by,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type TransactionListResponse struct {
	Data  []StockTransactionResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

type LowStockAlertResponse struct {
	IngredientID  string          `json:"ingredient_id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStockAlert decimal.Decimal `json:"min_stock_alert"`
	Deficit       decimal.Decimal `json:"deficit"`
}

// LedgerCheckResponse compares the cached balance with the ledger sum.
type LedgerCheckResponse struct {
	IngredientID  string          `json:"ingredient_id"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	LedgerSum     decimal.Decimal `json:"ledger_sum"`
	Drift         decimal.Decimal `json:"drift"`
	Consistent    bool            `json:"consistent"`
}

type RecipeLineResponse struct {
	IngredientID string          `json:"ingredient_id"`
	Ingredient   string          `json:"ingredient"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

type RecipeResponse struct {
	MenuItemID string               `json:"menu_item_id"`
	Lines      []RecipeLineResponse `json:"lines"`
}
