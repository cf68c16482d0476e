package service

import (
	"time"

	"restonext/internal/dto"
	"restonext/internal/model"

	"github.com/google/uuid"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func ingredientToResponse(ing *model.Ingredient) dto.IngredientResponse {
	resp := dto.IngredientResponse{
		ID:            ing.ID.String(),
		Name:          ing.Name,
		Unit:          string(ing.Unit),
		StockQuantity: ing.StockQuantity,
		MinStockAlert: ing.MinStockAlert,
		CostPerUnit:   ing.CostPerUnit,
		IsActive:      ing.IsActive,
		IsLowStock:    ing.IsLowStock(),
		CreatedAt:     ing.CreatedAt.UTC().Format(timeLayout),
	}
	if !ing.ModifierLink.IsZero() {
		resp.ModifierLink = &dto.ModifierLinkResponse{
			GroupName: ing.ModifierLink.GroupName,
			OptionID:  ing.ModifierLink.OptionID,
			Quantity:  ing.ModifierLink.Quantity,
		}
	}
	return resp
}

func stockTransactionToResponse(t *model.StockTransaction) dto.StockTransactionResponse {
	resp := dto.StockTransactionResponse{
		ID:            t.ID.String(),
		IngredientID:  t.IngredientID.String(),
		Type:          string(t.Type),
		Quantity:      t.Quantity,
		Unit:          string(t.Unit),
		StockAfter:    t.StockAfter,
		ReferenceType: t.ReferenceType,
		ReferenceID:   uuidString(t.ReferenceID),
		Notes:         t.Notes,
		CreatedBy:     uuidString(t.CreatedBy),
		CreatedAt:     t.CreatedAt.UTC().Format(timeLayout),
	}
	if t.Ingredient != nil {
		resp.Ingredient = t.Ingredient.Name
	}
	return resp
}

func supplierToResponse(s *model.Supplier) dto.SupplierResponse {
	return dto.SupplierResponse{
		ID:           s.ID.String(),
		Name:         s.Name,
		ContactName:  s.ContactName,
		Phone:        s.Phone,
		Email:        s.Email,
		PaymentTerms: s.PaymentTerms,
		IsActive:     s.IsActive,
	}
}

func supplierIngredientToResponse(l *model.SupplierIngredient) dto.SupplierIngredientResponse {
	resp := dto.SupplierIngredientResponse{
		ID:           l.ID.String(),
		SupplierID:   l.SupplierID.String(),
		IngredientID: l.IngredientID.String(),
		UnitCost:     l.UnitCost,
		IsPreferred:  l.IsPreferred,
		LeadTimeDays: l.LeadTimeDays,
		IsActive:     l.IsActive,
	}
	if l.MinOrderQuantity.Valid {
		moq := l.MinOrderQuantity.Decimal
		resp.MinOrderQuantity = &moq
	}
	return resp
}

func purchaseOrderToResponse(po *model.PurchaseOrder) *dto.PurchaseOrderResponse {
	items := make([]dto.PurchaseOrderItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		item := dto.PurchaseOrderItemResponse{
			ID:               it.ID.String(),
			IngredientID:     it.IngredientID.String(),
			Unit:             string(it.Unit),
			QuantityOrdered:  it.QuantityOrdered,
			QuantityReceived: it.QuantityReceived,
			UnitCost:         it.UnitCost,
			TotalCost:        it.TotalCost,
		}
		if it.Ingredient != nil {
			item.Ingredient = it.Ingredient.Name
		}
		items = append(items, item)
	}
	resp := &dto.PurchaseOrderResponse{
		ID:                 po.ID.String(),
		SupplierID:         po.SupplierID.String(),
		Status:             string(po.Status),
		Subtotal:           po.Subtotal,
		Tax:                po.Tax,
		Total:              po.Total,
		Notes:              po.Notes,
		ExpectedDeliveryAt: formatTime(po.ExpectedDeliveryAt),
		ActualDeliveryAt:   formatTime(po.ActualDeliveryAt),
		ApprovedBy:         uuidString(po.ApprovedBy),
		ApprovedAt:         formatTime(po.ApprovedAt),
		Items:              items,
		CreatedAt:          po.CreatedAt.UTC().Format(timeLayout),
	}
	if po.Supplier != nil {
		resp.Supplier = po.Supplier.Name
	}
	return resp
}
