package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restonext/internal/dto"
	"restonext/internal/forecast"
	"restonext/internal/model"
	"restonext/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	safetyFactor     = decimal.RequireFromString("1.2")
	minSuggestion    = decimal.NewFromInt(1)
	fallbackMultiple = decimal.NewFromInt(2)
)

// SuggestionCache keeps the last generated report per tenant.
type SuggestionCache interface {
	Store(ctx context.Context, tenantID uuid.UUID, report *dto.SuggestionReport) error
	// Load returns (nil, nil) when nothing is cached.
	Load(ctx context.Context, tenantID uuid.UUID) (*dto.SuggestionReport, error)
}

// ProcurementService computes purchase suggestions. It only reads: stock
// and purchase orders are never written from here.
type ProcurementService interface {
	GenerateSuggestions(ctx context.Context, tenantID uuid.UUID, horizonDays int) (*dto.SuggestionReport, error)
	CachedSuggestions(ctx context.Context, tenantID uuid.UUID) (*dto.SuggestionReport, error)
	// RefreshCache regenerates the report with the default horizon and stores it.
	RefreshCache(ctx context.Context, tenantID uuid.UUID) (*dto.SuggestionReport, error)
}

type ProcurementConfig struct {
	DefaultHorizonDays int
	ForecastTimeout    time.Duration
}

type procurementService struct {
	ingredients repository.IngredientRepository
	suppliers   repository.SupplierRepository
	forecaster  forecast.Forecaster
	cache       SuggestionCache
	cfg         ProcurementConfig
	now         func() time.Time
}

func NewProcurementService(
	ingredients repository.IngredientRepository,
	suppliers repository.SupplierRepository,
	forecaster forecast.Forecaster,
	cache SuggestionCache,
	cfg ProcurementConfig,
) ProcurementService {
	if cfg.DefaultHorizonDays <= 0 {
		cfg.DefaultHorizonDays = 7
	}
	if cfg.ForecastTimeout <= 0 {
		cfg.ForecastTimeout = 5 * time.Second
	}
	return &procurementService{
		ingredients: ingredients,
		suppliers:   suppliers,
		forecaster:  forecaster,
		cache:       cache,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *procurementService) GenerateSuggestions(ctx context.Context, tenantID uuid.UUID, horizonDays int) (*dto.SuggestionReport, error) {
	if horizonDays <= 0 {
		horizonDays = s.cfg.DefaultHorizonDays
	}
	ings, err := s.ingredients.ListActive(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(ings))
	for _, ing := range ings {
		ids = append(ids, ing.ID)
	}
	links, err := s.suppliers.ListIngredientLinks(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("list supplier links: %w", err)
	}
	linksByIngredient := make(map[uuid.UUID][]model.SupplierIngredient, len(ings))
	for _, l := range links {
		linksByIngredient[l.IngredientID] = append(linksByIngredient[l.IngredientID], l)
	}

	available := s.forecasterAvailable(ctx)
	report := &dto.SuggestionReport{
		TenantID:           tenantID.String(),
		HorizonDays:        horizonDays,
		GeneratedAt:        s.now().UTC(),
		Suppliers:          []dto.SupplierGroup{},
		Unassigned:         []dto.Suggestion{},
		UnassignedSubtotal: decimal.Zero,
		GrandTotal:         decimal.Zero,
		ForecasterUsed:     available,
	}
	groupIdx := make(map[uuid.UUID]int)

	for i := range ings {
		ing := &ings[i]
		demand, source, reason := s.predictDemand(ctx, tenantID, ing, horizonDays, available)

		projected := ing.StockQuantity.Sub(demand)
		shortage := ing.MinStockAlert.Sub(projected)
		if !shortage.IsPositive() {
			continue
		}

		qty := decimal.Max(shortage.Mul(safetyFactor), minSuggestion)
		link := chooseSupplierLink(linksByIngredient[ing.ID])
		unitCost := ing.CostPerUnit
		if link != nil {
			unitCost = link.UnitCost
			if link.MinOrderQuantity.Valid && qty.LessThan(link.MinOrderQuantity.Decimal) {
				qty = link.MinOrderQuantity.Decimal
			}
		}
		qty = qty.Round(4)

		sug := dto.Suggestion{
			IngredientID:      ing.ID.String(),
			IngredientName:    ing.Name,
			Unit:              string(ing.Unit),
			CurrentStock:      ing.StockQuantity,
			MinStockAlert:     ing.MinStockAlert,
			PredictedDemand:   demand,
			DemandSource:      source,
			FallbackReason:    reason,
			Shortage:          shortage,
			SuggestedQuantity: qty,
			UnitCost:          unitCost,
			EstimatedCost:     qty.Mul(unitCost).Round(2),
		}

		if link == nil {
			report.Unassigned = append(report.Unassigned, sug)
			report.UnassignedSubtotal = report.UnassignedSubtotal.Add(sug.EstimatedCost)
			report.GrandTotal = report.GrandTotal.Add(sug.EstimatedCost)
			continue
		}

		supplierID := link.SupplierID.String()
		sug.SupplierID = &supplierID
		sug.LeadTimeDays = link.LeadTimeDays
		if link.Supplier != nil {
			sug.SupplierName = link.Supplier.Name
		}
		idx, ok := groupIdx[link.SupplierID]
		if !ok {
			idx = len(report.Suppliers)
			groupIdx[link.SupplierID] = idx
			report.Suppliers = append(report.Suppliers, dto.SupplierGroup{
				SupplierID:   supplierID,
				SupplierName: sug.SupplierName,
				Items:        []dto.Suggestion{},
				Subtotal:     decimal.Zero,
			})
		}
		g := &report.Suppliers[idx]
		g.Items = append(g.Items, sug)
		g.Subtotal = g.Subtotal.Add(sug.EstimatedCost)
		report.GrandTotal = report.GrandTotal.Add(sug.EstimatedCost)
	}
	return report, nil
}

func (s *procurementService) forecasterAvailable(ctx context.Context) bool {
	if s.forecaster == nil {
		return false
	}
	cctx, cancel := context.WithTimeout(ctx, s.cfg.ForecastTimeout)
	defer cancel()
	return s.forecaster.IsAvailable(cctx)
}

// predictDemand returns the horizon demand and where it came from. Any
// forecaster failure degrades to 2 × min_stock_alert.
func (s *procurementService) predictDemand(ctx context.Context, tenantID uuid.UUID, ing *model.Ingredient, horizon int, available bool) (decimal.Decimal, string, string) {
	fallback := ing.MinStockAlert.Mul(fallbackMultiple)
	if !available {
		return fallback, dto.DemandFallback, "forecaster unavailable"
	}

	fctx, cancel := context.WithTimeout(ctx, s.cfg.ForecastTimeout)
	defer cancel()
	days, err := s.forecaster.Forecast(fctx, forecast.Request{
		TenantID:     tenantID,
		IngredientID: ing.ID,
		HorizonDays:  horizon,
	})
	if err == nil && len(days) > 0 {
		total := forecast.Total(days)
		if total.IsNegative() {
			total = decimal.Zero
		}
		return total, dto.DemandForecast, ""
	}

	var reason string
	switch {
	case err == nil:
		reason = "forecaster returned no days"
	case errors.Is(err, forecast.ErrInsufficientData):
		reason = "insufficient history"
	case errors.Is(err, context.DeadlineExceeded):
		reason = "forecast timed out"
	default:
		reason = "forecaster error"
	}
	log.Warn().Err(err).
		Str("tenant_id", tenantID.String()).
		Str("ingredient_id", ing.ID.String()).
		Str("reason", reason).
		Msg("using fallback demand heuristic")
	return fallback, dto.DemandFallback, reason
}

// chooseSupplierLink picks the active preferred link, else the first active
// link, else nil. A link whose supplier is deactivated counts as inactive.
func chooseSupplierLink(links []model.SupplierIngredient) *model.SupplierIngredient {
	var first *model.SupplierIngredient
	for i := range links {
		l := &links[i]
		if !l.IsActive || (l.Supplier != nil && !l.Supplier.IsActive) {
			continue
		}
		if l.IsPreferred {
			return l
		}
		if first == nil {
			first = l
		}
	}
	return first
}

func (s *procurementService) CachedSuggestions(ctx context.Context, tenantID uuid.UUID) (*dto.SuggestionReport, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("suggestion cache: %w", ErrNotFound)
	}
	report, err := s.cache.Load(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load cached suggestions: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("cached suggestions: %w", ErrNotFound)
	}
	return report, nil
}

func (s *procurementService) RefreshCache(ctx context.Context, tenantID uuid.UUID) (*dto.SuggestionReport, error) {
	report, err := s.GenerateSuggestions(ctx, tenantID, s.cfg.DefaultHorizonDays)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Store(ctx, tenantID, report); err != nil {
			return report, fmt.Errorf("store suggestions: %w", err)
		}
	}
	return report, nil
}
