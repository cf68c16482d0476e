package router

import (
	"fmt"
	"time"

	"restonext/internal/config"
	"restonext/internal/forecast"
	"restonext/internal/handler"
	"restonext/internal/infra"
	"restonext/internal/middleware"
	"restonext/internal/repository"
	"restonext/internal/service"
	"restonext/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the wired service layer, shared by the HTTP routes and the
// background workers started in main.
type Services struct {
	Ingredients repository.IngredientRepository

	Inventory      service.InventoryService
	Orders         service.OrderService
	Suppliers      service.SupplierService
	Procurement    service.ProcurementService
	PurchaseOrders service.PurchaseOrderService

	Alerts worker.AlertStore
}

// NewServices wires the dependency graph: Service ← Repository ← DB/Redis.
func NewServices(cfg *config.Config, db *gorm.DB, rdb redis.Cmdable, forecaster forecast.Forecaster) (*Services, error) {
	taxRate, err := cfg.TaxRate()
	if err != nil {
		return nil, fmt.Errorf("PURCHASE_TAX_RATE: %w", err)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	ingredientRepo := repository.NewIngredientRepository(db)
	transactionRepo := repository.NewStockTransactionRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	purchaseOrderRepo := repository.NewPurchaseOrderRepository(db)

	// ── Core ─────────────────────────────────────────────────────────────────
	// Low-stock signals leave through the Redis job queue.
	dispatcher := worker.NewDispatcher(rdb)
	ledger := service.NewStockLedger(ingredientRepo, transactionRepo, dispatcher)
	resolver := service.NewRecipeResolver(recipeRepo, ingredientRepo)
	processor := service.NewOrderInventoryProcessor(orderRepo, ingredientRepo, resolver, ledger)

	// ── Services ─────────────────────────────────────────────────────────────
	procurementSvc := service.NewProcurementService(
		ingredientRepo, supplierRepo, forecaster,
		worker.NewRedisSuggestionCache(rdb, cfg.SuggestionCacheTTL()),
		service.ProcurementConfig{
			DefaultHorizonDays: cfg.ProcurementHorizonDays,
			ForecastTimeout:    cfg.ForecastTimeout(),
		},
	)

	return &Services{
		Ingredients:    ingredientRepo,
		Inventory:      service.NewInventoryService(ingredientRepo, transactionRepo, recipeRepo, ledger),
		Orders:         service.NewOrderService(orderRepo, processor),
		Suppliers:      service.NewSupplierService(supplierRepo, ingredientRepo),
		Procurement:    procurementSvc,
		PurchaseOrders: service.NewPurchaseOrderService(purchaseOrderRepo, supplierRepo, ingredientRepo, ledger, procurementSvc, taxRate),
		Alerts:         worker.NewRedisAlertStore(rdb),
	}, nil
}

// New returns a configured Gin engine serving svc.
func New(cfg *config.Config, db *gorm.DB, rdb redis.Cmdable, forecastCB *infra.CircuitBreaker, svc *Services) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// Public
	r.GET("/health", handler.Health(db, rdb, forecastCB))

	registerRoutes(r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret)), svc)

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// registerRoutes mounts the protected API on v1.
func registerRoutes(v1 *gin.RouterGroup, svc *Services) {
	ingredientsH := handler.NewIngredientsHandler(svc.Inventory, svc.Alerts)
	ordersH := handler.NewOrdersHandler(svc.Orders)
	suppliersH := handler.NewSuppliersHandler(svc.Suppliers)
	procurementH := handler.NewProcurementHandler(svc.Procurement)
	purchaseOrdersH := handler.NewPurchaseOrdersHandler(svc.PurchaseOrders)

	anyRole := middleware.RequireRole(middleware.RoleStaff, middleware.RoleManager, middleware.RoleOwner)
	managers := middleware.RequireRole(middleware.RoleManager, middleware.RoleOwner)

	// Reads: every role
	v1.GET("/ingredients", anyRole, ingredientsH.List)
	v1.GET("/ingredients/:id", anyRole, ingredientsH.Get)
	v1.GET("/inventory/alerts", anyRole, ingredientsH.LowStockAlerts)
	v1.GET("/inventory/alerts/active", anyRole, ingredientsH.ActiveAlerts)

	// Stock movements from the floor: staff book waste, managers adjust
	v1.POST("/ingredients/:id/stock", anyRole, ingredientsH.AdjustStock)

	ing := v1.Group("/ingredients", managers)
	{
		ing.POST("", ingredientsH.Create)
		ing.PUT("/:id", ingredientsH.Update)
		ing.DELETE("/:id", ingredientsH.Deactivate)
		ing.PUT("/:id/modifier-link", ingredientsH.SetModifierLink)
		ing.DELETE("/:id/modifier-link", ingredientsH.ClearModifierLink)
		ing.GET("/:id/ledger-check", ingredientsH.LedgerCheck)
	}
	v1.PUT("/menu-items/:id/recipe", managers, ingredientsH.SetRecipe)
	v1.GET("/inventory/transactions", managers, ingredientsH.ListTransactions)

	// Called by the POS when an order is settled
	orders := v1.Group("/orders", anyRole)
	{
		orders.POST("/:id/complete", ordersH.Complete)
		orders.POST("/:id/inventory", ordersH.ProcessInventory)
	}

	proc := v1.Group("/procurement", managers)
	{
		proc.GET("/suggestions", procurementH.Suggestions)
		proc.GET("/suggestions/cached", procurementH.Cached)
	}

	po := v1.Group("/purchase-orders", managers)
	{
		po.POST("", purchaseOrdersH.Create)
		po.GET("", purchaseOrdersH.List)
		po.POST("/from-suggestions", purchaseOrdersH.CreateFromSuggestions)
		po.GET("/:id", purchaseOrdersH.Get)
		po.POST("/:id/submit", purchaseOrdersH.Submit)
		po.POST("/:id/approve", purchaseOrdersH.Approve)
		po.POST("/:id/receive", purchaseOrdersH.Receive)
		po.POST("/:id/cancel", purchaseOrdersH.Cancel)
	}

	sup := v1.Group("/suppliers", managers)
	{
		sup.POST("", suppliersH.Create)
		sup.GET("", suppliersH.List)
		sup.GET("/:id", suppliersH.Get)
		sup.DELETE("/:id", suppliersH.Deactivate)
		sup.PUT("/:id/ingredients", suppliersH.LinkIngredient)
	}
}
