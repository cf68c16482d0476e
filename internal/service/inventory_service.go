package service

import (
	"context"
	"fmt"
	"strings"

	"restonext/internal/dto"
	"restonext/internal/model"
	"restonext/internal/repository"
	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryService manages ingredients, recipes and manual stock movements.
type InventoryService interface {
	CreateIngredient(ctx context.Context, tenantID uuid.UUID, actor *uuid.UUID, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error)
	UpdateIngredient(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateIngredientRequest) (*dto.IngredientResponse, error)
	DeactivateIngredient(ctx context.Context, tenantID, id uuid.UUID) error
	GetIngredient(ctx context.Context, tenantID, id uuid.UUID) (*dto.IngredientResponse, error)
	ListIngredients(ctx context.Context, tenantID uuid.UUID, filter dto.IngredientFilter) (*dto.IngredientListResponse, error)

	// SetModifierLink replaces the ingredient's modifier link; nil clears it.
	SetModifierLink(ctx context.Context, tenantID, id uuid.UUID, link *dto.ModifierLinkInput) (*dto.IngredientResponse, error)
	SetRecipe(ctx context.Context, tenantID, menuItemID uuid.UUID, req dto.SetRecipeRequest) (*dto.RecipeResponse, error)

	AdjustStock(ctx context.Context, tenantID, ingredientID uuid.UUID, actor *uuid.UUID, req dto.AdjustStockRequest) (*dto.StockTransactionResponse, error)
	ListTransactions(ctx context.Context, tenantID uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	LowStockAlerts(ctx context.Context, tenantID uuid.UUID) ([]dto.LowStockAlertResponse, error)
	VerifyLedger(ctx context.Context, tenantID, ingredientID uuid.UUID) (*dto.LedgerCheckResponse, error)
}

type inventoryService struct {
	ingredients  repository.IngredientRepository
	transactions repository.StockTransactionRepository
	recipes      repository.RecipeRepository
	ledger       *StockLedger
}

func NewInventoryService(
	ingredients repository.IngredientRepository,
	transactions repository.StockTransactionRepository,
	recipes repository.RecipeRepository,
	ledger *StockLedger,
) InventoryService {
	return &inventoryService{
		ingredients:  ingredients,
		transactions: transactions,
		recipes:      recipes,
		ledger:       ledger,
	}
}

func modifierLinkFromInput(in *dto.ModifierLinkInput) (model.ModifierLink, error) {
	if in == nil {
		return model.ModifierLink{}, nil
	}
	link := model.ModifierLink{
		GroupName: strings.TrimSpace(in.GroupName),
		OptionID:  strings.TrimSpace(in.OptionID),
		Quantity:  in.Quantity,
	}
	if link.IsZero() {
		return link, invalid("modifier link is empty")
	}
	if err := link.Validate(); err != nil {
		return link, invalid("%s", err.Error())
	}
	return link, nil
}

// CreateIngredient creates the ingredient at zero stock. A positive
// initial_stock is booked through the ledger as an adjustment, in the same
// transaction.
func (s *inventoryService) CreateIngredient(ctx context.Context, tenantID uuid.UUID, actor *uuid.UUID, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	unit, err := units.Parse(req.Unit)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	link, err := modifierLinkFromInput(req.ModifierLink)
	if err != nil {
		return nil, err
	}
	if req.InitialStock.IsNegative() {
		return nil, invalid("initial_stock cannot be negative")
	}

	ing := &model.Ingredient{
		TenantID:      tenantID,
		Name:          strings.TrimSpace(req.Name),
		Unit:          unit,
		StockQuantity: decimal.Zero,
		MinStockAlert: req.MinStockAlert,
		CostPerUnit:   req.CostPerUnit,
		ModifierLink:  link,
		IsActive:      true,
	}
	err = s.ledger.Transaction(ctx, s.ingredients.DB(), func(ctx context.Context, tx *gorm.DB) error {
		if err := s.ingredients.CreateTx(ctx, tx, ing); err != nil {
			return fmt.Errorf("create ingredient: %w", err)
		}
		if !req.InitialStock.IsPositive() {
			return nil
		}
		_, err := s.ledger.Record(ctx, tx, LedgerEntry{
			TenantID:      tenantID,
			IngredientID:  ing.ID,
			Delta:         req.InitialStock,
			Type:          model.TxAdjustment,
			ReferenceType: model.RefManual,
			Notes:         "initial stock",
			Actor:         actor,
		})
		if err != nil {
			return err
		}
		ing.StockQuantity = req.InitialStock
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ingredientToResponse(ing)
	return &resp, nil
}

func (s *inventoryService) UpdateIngredient(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateIngredientRequest) (*dto.IngredientResponse, error) {
	ing, err := s.ingredients.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound("ingredient", err)
	}
	if req.Name != nil {
		ing.Name = strings.TrimSpace(*req.Name)
	}
	if req.MinStockAlert != nil {
		if req.MinStockAlert.IsNegative() {
			return nil, invalid("min_stock_alert cannot be negative")
		}
		ing.MinStockAlert = *req.MinStockAlert
	}
	if req.CostPerUnit != nil {
		if req.CostPerUnit.IsNegative() {
			return nil, invalid("cost_per_unit cannot be negative")
		}
		ing.CostPerUnit = *req.CostPerUnit
	}
	if err := s.ingredients.Update(ctx, ing); err != nil {
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	resp := ingredientToResponse(ing)
	return &resp, nil
}

func (s *inventoryService) DeactivateIngredient(ctx context.Context, tenantID, id uuid.UUID) error {
	ing, err := s.ingredients.FindByID(ctx, tenantID, id)
	if err != nil {
		return notFound("ingredient", err)
	}
	ing.IsActive = false
	return s.ingredients.Update(ctx, ing)
}

func (s *inventoryService) GetIngredient(ctx context.Context, tenantID, id uuid.UUID) (*dto.IngredientResponse, error) {
	ing, err := s.ingredients.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound("ingredient", err)
	}
	resp := ingredientToResponse(ing)
	return &resp, nil
}

func (s *inventoryService) ListIngredients(ctx context.Context, tenantID uuid.UUID, filter dto.IngredientFilter) (*dto.IngredientListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	rows, total, err := s.ingredients.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.IngredientResponse, 0, len(rows))
	for i := range rows {
		data = append(data, ingredientToResponse(&rows[i]))
	}
	return &dto.IngredientListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) SetModifierLink(ctx context.Context, tenantID, id uuid.UUID, in *dto.ModifierLinkInput) (*dto.IngredientResponse, error) {
	link, err := modifierLinkFromInput(in)
	if err != nil {
		return nil, err
	}
	ing, err := s.ingredients.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFound("ingredient", err)
	}
	ing.ModifierLink = link
	if err := s.ingredients.Update(ctx, ing); err != nil {
		return nil, fmt.Errorf("update modifier link: %w", err)
	}
	resp := ingredientToResponse(ing)
	return &resp, nil
}

// SetRecipe replaces the recipe of a menu item. Every line must reference an
// ingredient of the tenant whose unit is convertible from the line's unit.
func (s *inventoryService) SetRecipe(ctx context.Context, tenantID, menuItemID uuid.UUID, req dto.SetRecipeRequest) (*dto.RecipeResponse, error) {
	lines := make([]model.RecipeLine, 0, len(req.Lines))
	resp := &dto.RecipeResponse{MenuItemID: menuItemID.String(), Lines: make([]dto.RecipeLineResponse, 0, len(req.Lines))}
	seen := make(map[uuid.UUID]bool, len(req.Lines))

	for _, in := range req.Lines {
		ingID, err := uuid.Parse(in.IngredientID)
		if err != nil {
			return nil, invalid("ingredient_id %q is not a uuid", in.IngredientID)
		}
		if seen[ingID] {
			return nil, invalid("ingredient %s appears twice in the recipe", ingID)
		}
		seen[ingID] = true
		if !in.Quantity.IsPositive() {
			return nil, invalid("recipe quantity must be greater than zero")
		}
		unit, err := units.Parse(in.Unit)
		if err != nil {
			return nil, invalid("%s", err.Error())
		}
		ing, err := s.ingredients.FindByID(ctx, tenantID, ingID)
		if err != nil {
			return nil, notFound("ingredient", err)
		}
		if !units.Compatible(unit, ing.Unit) {
			return nil, &units.ConversionError{
				From: unit, To: ing.Unit,
				FromCategory: units.CategoryOf(unit), ToCategory: units.CategoryOf(ing.Unit),
			}
		}
		lines = append(lines, model.RecipeLine{
			TenantID:     tenantID,
			MenuItemID:   menuItemID,
			IngredientID: ingID,
			Quantity:     in.Quantity,
			Unit:         unit,
		})
		resp.Lines = append(resp.Lines, dto.RecipeLineResponse{
			IngredientID: ingID.String(),
			Ingredient:   ing.Name,
			Quantity:     in.Quantity,
			Unit:         string(unit),
		})
	}

	err := runTx(ctx, s.recipes.DB(), func(tx *gorm.DB) error {
		return s.recipes.ReplaceTx(ctx, tx, tenantID, menuItemID, lines)
	})
	if err != nil {
		return nil, fmt.Errorf("replace recipe: %w", err)
	}
	return resp, nil
}

// AdjustStock books a manual movement. Waste is always an outflow whatever
// the sign sent; purchase is always an inflow.
func (s *inventoryService) AdjustStock(ctx context.Context, tenantID, ingredientID uuid.UUID, actor *uuid.UUID, req dto.AdjustStockRequest) (*dto.StockTransactionResponse, error) {
	txType := model.StockTransactionType(req.Type)
	if !txType.Valid() || txType == model.TxSale {
		return nil, invalid("type must be adjustment, waste or purchase")
	}
	if req.Quantity.IsZero() {
		return nil, invalid("quantity cannot be zero")
	}
	delta := req.Quantity
	switch txType {
	case model.TxWaste:
		delta = delta.Abs().Neg()
	case model.TxPurchase:
		delta = delta.Abs()
	}

	var unit units.Unit
	if req.Unit != "" {
		u, err := units.Parse(req.Unit)
		if err != nil {
			return nil, invalid("%s", err.Error())
		}
		unit = u
	}

	var row *model.StockTransaction
	err := s.ledger.Transaction(ctx, s.ingredients.DB(), func(ctx context.Context, tx *gorm.DB) error {
		var err error
		row, err = s.ledger.Record(ctx, tx, LedgerEntry{
			TenantID:       tenantID,
			IngredientID:   ingredientID,
			Delta:          delta,
			Unit:           unit,
			Type:           txType,
			ReferenceType:  model.RefManual,
			Notes:          req.Notes,
			Actor:          actor,
			ForbidNegative: req.ForbidNegative,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("tenant_id", tenantID.String()).
		Str("ingredient_id", ingredientID.String()).
		Str("type", string(txType)).
		Str("quantity", row.Quantity.String()).
		Msg("manual stock movement")
	resp := stockTransactionToResponse(row)
	return &resp, nil
}

func (s *inventoryService) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 100
	}
	repoFilter := repository.StockTransactionFilter{
		Type:  model.StockTransactionType(filter.Type),
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if filter.IngredientID != "" {
		id, err := uuid.Parse(filter.IngredientID)
		if err != nil {
			return nil, invalid("ingredient_id %q is not a uuid", filter.IngredientID)
		}
		repoFilter.IngredientID = &id
	}
	rows, total, err := s.transactions.List(ctx, tenantID, repoFilter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockTransactionResponse, 0, len(rows))
	for i := range rows {
		data = append(data, stockTransactionToResponse(&rows[i]))
	}
	return &dto.TransactionListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) LowStockAlerts(ctx context.Context, tenantID uuid.UUID) ([]dto.LowStockAlertResponse, error) {
	rows, err := s.ingredients.ListLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockAlertResponse, 0, len(rows))
	for _, ing := range rows {
		out = append(out, dto.LowStockAlertResponse{
			IngredientID:  ing.ID.String(),
			Name:          ing.Name,
			Unit:          string(ing.Unit),
			StockQuantity: ing.StockQuantity,
			MinStockAlert: ing.MinStockAlert,
			Deficit:       ing.MinStockAlert.Sub(ing.StockQuantity),
		})
	}
	return out, nil
}

func (s *inventoryService) VerifyLedger(ctx context.Context, tenantID, ingredientID uuid.UUID) (*dto.LedgerCheckResponse, error) {
	return s.ledger.Verify(ctx, tenantID, ingredientID)
}
