package dto

import "github.com/shopspring/decimal"

type CreateSupplierRequest struct {
	Name         string  `json:"name"          validate:"required,min=2"`
	ContactName  *string `json:"contact_name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	PaymentTerms *string `json:"payment_terms"`
}

type LinkIngredientRequest struct {
	IngredientID     string           `json:"ingredient_id"      validate:"required,uuid"`
	UnitCost         decimal.Decimal  `json:"unit_cost"          validate:"min=0"`
	IsPreferred      bool             `json:"is_preferred"`
	MinOrderQuantity *decimal.Decimal `json:"min_order_quantity"`
	LeadTimeDays     int              `json:"lead_time_days"     validate:"min=0"`
	IsActive         *bool            `json:"is_active"`
}

type SupplierResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ContactName  *string `json:"contact_name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	PaymentTerms *string `json:"payment_terms"`
	IsActive     bool    `json:"is_active"`
}

type SupplierIngredientResponse struct {
	ID               string           `json:"id"`
	SupplierID       string           `json:"supplier_id"`
	IngredientID     string           `json:"ingredient_id"`
	UnitCost         decimal.Decimal  `json:"unit_cost"`
	IsPreferred      bool             `json:"is_preferred"`
	MinOrderQuantity *decimal.Decimal `json:"min_order_quantity"`
	LeadTimeDays     int              `json:"lead_time_days"`
	IsActive         bool             `json:"is_active"`
}
