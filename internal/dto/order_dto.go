package dto

type CompleteOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=paid delivered"`
}

// ProcessInventoryRequest drives the raw inventory boundary. AllowNegative
// defaults to true when omitted.
type ProcessInventoryRequest struct {
	AllowNegative *bool `json:"allow_negative"`
}

type OrderInventoryResponse struct {
	OrderID            string                     `json:"order_id"`
	Status             string                     `json:"status"`
	InventoryProcessed bool                       `json:"inventory_processed"`
	Transactions       []StockTransactionResponse `json:"transactions"`
}
