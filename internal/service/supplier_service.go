package service

import (
	"context"
	"fmt"
	"strings"

	"restonext/internal/dto"
	"restonext/internal/model"
	"restonext/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplierService maintains the supplier catalog and its ingredient links.
type SupplierService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.SupplierResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]dto.SupplierResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	// LinkIngredient upserts the supplier's terms for an ingredient. Marking
	// a link preferred clears the flag on the ingredient's other links.
	LinkIngredient(ctx context.Context, tenantID, supplierID uuid.UUID, req dto.LinkIngredientRequest) (*dto.SupplierIngredientResponse, error)
}

type supplierService struct {
	suppliers   repository.SupplierRepository
	ingredients repository.IngredientRepository
}

func NewSupplierService(suppliers repository.SupplierRepository, ingredients repository.IngredientRepository) SupplierService {
	return &supplierService{suppliers: suppliers, ingredients: ingredients}
}

func (s *supplierService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("supplier name is required")
	}
	sup := &model.Supplier{
		TenantID:     tenantID,
		Name:         name,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Email:        req.Email,
		PaymentTerms: req.PaymentTerms,
		IsActive:     true,
	}
	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func (s *supplierService) Get(ctx context.Context, tenantID, id uuid.UUID) (*dto.SupplierResponse, error) {
	sup, err := s.suppliers.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound("supplier", err)
	}
	resp := supplierToResponse(sup)
	return &resp, nil
}

func (s *supplierService) List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]dto.SupplierResponse, error) {
	rows, err := s.suppliers.List(ctx, tenantID, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(rows))
	for i := range rows {
		out = append(out, supplierToResponse(&rows[i]))
	}
	return out, nil
}

func (s *supplierService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.suppliers.SoftDelete(ctx, tenantID, id); err != nil {
		return notFound("supplier", err)
	}
	return nil
}

func (s *supplierService) LinkIngredient(ctx context.Context, tenantID, supplierID uuid.UUID, req dto.LinkIngredientRequest) (*dto.SupplierIngredientResponse, error) {
	if _, err := s.suppliers.FindByID(ctx, tenantID, supplierID); err != nil {
		return nil, notFound("supplier", err)
	}
	ingID, err := uuid.Parse(req.IngredientID)
	if err != nil {
		return nil, invalid("ingredient_id %q is not a uuid", req.IngredientID)
	}
	if _, err := s.ingredients.FindByID(ctx, tenantID, ingID); err != nil {
		return nil, notFound("ingredient", err)
	}
	if req.UnitCost.IsNegative() {
		return nil, invalid("unit_cost cannot be negative")
	}

	link := &model.SupplierIngredient{
		TenantID:     tenantID,
		SupplierID:   supplierID,
		IngredientID: ingID,
		UnitCost:     req.UnitCost,
		IsPreferred:  req.IsPreferred,
		LeadTimeDays: req.LeadTimeDays,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if req.MinOrderQuantity != nil {
		if !req.MinOrderQuantity.IsPositive() {
			return nil, invalid("min_order_quantity must be greater than zero")
		}
		link.MinOrderQuantity = decimal.NewNullDecimal(*req.MinOrderQuantity)
	}

	err = runTx(ctx, s.suppliers.DB(), func(tx *gorm.DB) error {
		if link.IsPreferred {
			if err := s.suppliers.ClearPreferredTx(ctx, tx, tenantID, ingID); err != nil {
				return err
			}
		}
		return s.suppliers.UpsertLinkTx(ctx, tx, link)
	})
	if err != nil {
		return nil, fmt.Errorf("link ingredient: %w", err)
	}
	resp := supplierIngredientToResponse(link)
	return &resp, nil
}
