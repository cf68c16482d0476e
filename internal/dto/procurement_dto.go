package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Demand sources reported on each suggestion.
const (
	DemandForecast = "forecast"
	DemandFallback = "fallback"
)

// Suggestion is one recommended purchase line.
type Suggestion struct {
	IngredientID      string          `json:"ingredient_id"`
	IngredientName    string          `json:"ingredient_name"`
	Unit              string          `json:"unit"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	MinStockAlert     decimal.Decimal `json:"min_stock_alert"`
	PredictedDemand   decimal.Decimal `json:"predicted_demand"`
	DemandSource      string          `json:"demand_source"`
	FallbackReason    string          `json:"fallback_reason,omitempty"`
	Shortage          decimal.Decimal `json:"shortage"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
	SupplierID        *string         `json:"supplier_id"`
	SupplierName      string          `json:"supplier_name,omitempty"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	LeadTimeDays      int             `json:"lead_time_days,omitempty"`
}

type SupplierGroup struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Items        []Suggestion    `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type SuggestionReport struct {
	TenantID           string          `json:"tenant_id"`
	HorizonDays        int             `json:"horizon_days"`
	GeneratedAt        time.Time       `json:"generated_at"`
	Suppliers          []SupplierGroup `json:"suppliers"`
	Unassigned         []Suggestion    `json:"unassigned"`
	UnassignedSubtotal decimal.Decimal `json:"unassigned_subtotal"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
	ForecasterUsed     bool            `json:"forecaster_used"`
}

// Group returns the supplier group with the given id, or nil.
func (r *SuggestionReport) Group(supplierID string) *SupplierGroup {
	for i := range r.Suppliers {
		if r.Suppliers[i].SupplierID == supplierID {
			return &r.Suppliers[i]
		}
	}
	return nil
}
