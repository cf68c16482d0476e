// cmd/seeddemo/main.go: creates a demo tenant (ingredients, a supplier,
// a recipe with a modifier, one paid order) and prints a development token.
// Usage: go run ./cmd/seeddemo
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"restonext/internal/config"
	"restonext/internal/dto"
	"restonext/internal/infra"
	"restonext/internal/middleware"
	"restonext/internal/model"
	"restonext/internal/repository"
	"restonext/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required to sign the demo token")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	ingredientRepo := repository.NewIngredientRepository(db)
	transactionRepo := repository.NewStockTransactionRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)

	// No notifier: seeding runs without Redis.
	ledger := service.NewStockLedger(ingredientRepo, transactionRepo, nil)
	inventory := service.NewInventoryService(ingredientRepo, transactionRepo, recipeRepo, ledger)
	suppliers := service.NewSupplierService(supplierRepo, ingredientRepo)

	must := func(what string, err error) {
		if err != nil {
			log.Fatal().Err(err).Msg(what)
		}
	}

	ingredients := map[string]*dto.IngredientResponse{}
	for _, in := range []dto.CreateIngredientRequest{
		{Name: "Tomato", Unit: "kg", MinStockAlert: dec("2"), CostPerUnit: dec("1.80"), InitialStock: dec("10")},
		{Name: "Tortilla", Unit: "piece", MinStockAlert: dec("50"), CostPerUnit: dec("0.40"), InitialStock: dec("200")},
		{Name: "Queso Oaxaca", Unit: "kg", MinStockAlert: dec("1"), CostPerUnit: dec("9.50"), InitialStock: dec("3"),
			ModifierLink: &dto.ModifierLinkInput{GroupName: "Extras", OptionID: "queso", Quantity: dec("0.15")}},
	} {
		resp, err := inventory.CreateIngredient(ctx, tenantID, &userID, in)
		must("create ingredient "+in.Name, err)
		ingredients[in.Name] = resp
	}

	sup, err := suppliers.Create(ctx, tenantID, dto.CreateSupplierRequest{Name: "Central de Abasto"})
	must("create supplier", err)
	for name, cost := range map[string]string{"Tomato": "1.60", "Tortilla": "0.35", "Queso Oaxaca": "9.00"} {
		moq := dec("5")
		_, err := suppliers.LinkIngredient(ctx, tenantID, uuid.MustParse(sup.ID), dto.LinkIngredientRequest{
			IngredientID:     ingredients[name].ID,
			UnitCost:         dec(cost),
			IsPreferred:      true,
			MinOrderQuantity: &moq,
			LeadTimeDays:     1,
		})
		must("link "+name, err)
	}

	taco := uuid.New()
	_, err = inventory.SetRecipe(ctx, tenantID, taco, dto.SetRecipeRequest{Lines: []dto.RecipeLineInput{
		{IngredientID: ingredients["Tomato"].ID, Quantity: dec("50"), Unit: "g"},
		{IngredientID: ingredients["Tortilla"].ID, Quantity: dec("2"), Unit: "piece"},
	}})
	must("set recipe", err)

	// Orders belong to the POS; the demo order is inserted directly.
	order := model.Order{
		TenantID: tenantID,
		Status:   model.OrderOpen,
		Items: []model.OrderItem{{
			MenuItemID: taco,
			Quantity:   3,
			Modifiers:  []model.SelectedModifier{{GroupName: "Extras", OptionID: "queso"}},
		}},
	}
	must("create order", db.WithContext(ctx).Create(&order).Error)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.JWTClaims{
		TenantID: tenantID.String(),
		UserID:   userID.String(),
		Role:     middleware.RoleOwner,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}).SignedString([]byte(cfg.JWTSecret))
	must("sign token", err)

	fmt.Printf("tenant:   %s\n", tenantID)
	fmt.Printf("supplier: %s\n", sup.ID)
	fmt.Printf("menu item (taco): %s\n", taco)
	fmt.Printf("open order: %s  (POST /v1/orders/%s/complete {\"status\":\"paid\"})\n", order.ID, order.ID)
	fmt.Printf("token (24h, owner): %s\n", token)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
