package service_test

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"restonext/internal/dto"
	"restonext/internal/forecast"
	"restonext/internal/model"
	"restonext/internal/repository"
	"restonext/internal/service"
	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory store shared by every stub repository ──────────────────────────
// Reads always hand out copies, like rows scanned from a real database.

type memDB struct {
	mu           sync.Mutex
	ingredients  map[uuid.UUID]*model.Ingredient
	transactions []model.StockTransaction
	recipes      []model.RecipeLine
	orders       map[uuid.UUID]*model.Order
	suppliers    map[uuid.UUID]*model.Supplier
	links        []model.SupplierIngredient
	pos          map[uuid.UUID]*model.PurchaseOrder
}

func newMemDB() *memDB {
	return &memDB{
		ingredients: make(map[uuid.UUID]*model.Ingredient),
		orders:      make(map[uuid.UUID]*model.Order),
		suppliers:   make(map[uuid.UUID]*model.Supplier),
		pos:         make(map[uuid.UUID]*model.PurchaseOrder),
	}
}

func uuidLess(a, b uuid.UUID) bool { return bytes.Compare(a[:], b[:]) < 0 }

// ── IngredientRepository ─────────────────────────────────────────────────────

type stubIngredientRepo struct{ db *memDB }

func (r *stubIngredientRepo) DB() *gorm.DB { return nil }

func (r *stubIngredientRepo) CreateTx(_ context.Context, _ *gorm.DB, ing *model.Ingredient) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if ing.ID == uuid.Nil {
		ing.ID = uuid.New()
	}
	ing.CreatedAt = time.Now()
	cp := *ing
	r.db.ingredients[ing.ID] = &cp
	return nil
}

func (r *stubIngredientRepo) find(tenantID, id uuid.UUID) (*model.Ingredient, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ing, ok := r.db.ingredients[id]
	if !ok || ing.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ing
	return &cp, nil
}

func (r *stubIngredientRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Ingredient, error) {
	return r.find(tenantID, id)
}

func (r *stubIngredientRepo) FindByIDForUpdate(_ context.Context, _ *gorm.DB, tenantID, id uuid.UUID) (*model.Ingredient, error) {
	return r.find(tenantID, id)
}

func (r *stubIngredientRepo) FindManyForUpdate(_ context.Context, _ *gorm.DB, tenantID uuid.UUID, ids []uuid.UUID) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, id := range ids {
		if ing, err := r.find(tenantID, id); err == nil {
			out = append(out, *ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return uuidLess(out[i].ID, out[j].ID) })
	return out, nil
}

func (r *stubIngredientRepo) filter(tenantID uuid.UUID, keep func(*model.Ingredient) bool) []model.Ingredient {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.Ingredient
	for _, ing := range r.db.ingredients {
		if ing.TenantID == tenantID && keep(ing) {
			out = append(out, *ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *stubIngredientRepo) List(_ context.Context, tenantID uuid.UUID, f dto.IngredientFilter) ([]model.Ingredient, int64, error) {
	out := r.filter(tenantID, func(i *model.Ingredient) bool {
		return i.IsActive && (f.Name == "" || strings.Contains(strings.ToLower(i.Name), strings.ToLower(f.Name)))
	})
	return out, int64(len(out)), nil
}

func (r *stubIngredientRepo) ListActive(_ context.Context, tenantID uuid.UUID) ([]model.Ingredient, error) {
	return r.filter(tenantID, func(i *model.Ingredient) bool { return i.IsActive }), nil
}

func (r *stubIngredientRepo) ListModifierLinked(_ context.Context, tenantID uuid.UUID) ([]model.Ingredient, error) {
	return r.filter(tenantID, func(i *model.Ingredient) bool { return i.IsActive && !i.ModifierLink.IsZero() }), nil
}

func (r *stubIngredientRepo) ListLowStock(_ context.Context, tenantID uuid.UUID) ([]model.Ingredient, error) {
	return r.filter(tenantID, func(i *model.Ingredient) bool { return i.IsActive && i.IsLowStock() }), nil
}

func (r *stubIngredientRepo) Update(_ context.Context, ing *model.Ingredient) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.ingredients[ing.ID]
	if !ok || cur.TenantID != ing.TenantID {
		return gorm.ErrRecordNotFound
	}
	cp := *ing
	cp.StockQuantity = cur.StockQuantity
	r.db.ingredients[ing.ID] = &cp
	return nil
}

func (r *stubIngredientRepo) UpdateStockTx(_ context.Context, _ *gorm.DB, tenantID, id uuid.UUID, delta decimal.Decimal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ing, ok := r.db.ingredients[id]
	if !ok || ing.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	ing.StockQuantity = ing.StockQuantity.Add(delta)
	return nil
}

func (r *stubIngredientRepo) ListTenantIDs(context.Context) ([]uuid.UUID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, ing := range r.db.ingredients {
		if ing.IsActive && !seen[ing.TenantID] {
			seen[ing.TenantID] = true
			out = append(out, ing.TenantID)
		}
	}
	return out, nil
}

// ── StockTransactionRepository ───────────────────────────────────────────────

type stubTransactionRepo struct{ db *memDB }

func (r *stubTransactionRepo) CreateTx(_ context.Context, _ *gorm.DB, t *model.StockTransaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.db.transactions = append(r.db.transactions, *t)
	return nil
}

func (r *stubTransactionRepo) List(_ context.Context, tenantID uuid.UUID, f repository.StockTransactionFilter) ([]model.StockTransaction, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.StockTransaction
	for _, t := range r.db.transactions {
		if t.TenantID != tenantID {
			continue
		}
		if f.IngredientID != nil && t.IngredientID != *f.IngredientID {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTransactionRepo) SumByIngredient(_ context.Context, tenantID, ingredientID uuid.UUID) (decimal.Decimal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	sum := decimal.Zero
	for _, t := range r.db.transactions {
		if t.TenantID == tenantID && t.IngredientID == ingredientID {
			sum = sum.Add(t.Quantity)
		}
	}
	return sum, nil
}

func (r *stubTransactionRepo) DailyConsumption(context.Context, uuid.UUID, uuid.UUID, time.Time) ([]model.DailyConsumption, error) {
	return nil, nil
}

// ── RecipeRepository ─────────────────────────────────────────────────────────

type stubRecipeRepo struct{ db *memDB }

func (r *stubRecipeRepo) DB() *gorm.DB { return nil }

func (r *stubRecipeRepo) ListByMenuItems(_ context.Context, tenantID uuid.UUID, menuItemIDs []uuid.UUID) ([]model.RecipeLine, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range menuItemIDs {
		want[id] = true
	}
	var out []model.RecipeLine
	for _, rl := range r.db.recipes {
		if rl.TenantID != tenantID || !want[rl.MenuItemID] {
			continue
		}
		if ing, ok := r.db.ingredients[rl.IngredientID]; ok {
			cp := *ing
			rl.Ingredient = &cp
		}
		out = append(out, rl)
	}
	return out, nil
}

func (r *stubRecipeRepo) ReplaceTx(_ context.Context, _ *gorm.DB, tenantID, menuItemID uuid.UUID, lines []model.RecipeLine) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	kept := r.db.recipes[:0]
	for _, rl := range r.db.recipes {
		if !(rl.TenantID == tenantID && rl.MenuItemID == menuItemID) {
			kept = append(kept, rl)
		}
	}
	r.db.recipes = append(kept, lines...)
	return nil
}

// ── OrderRepository ──────────────────────────────────────────────────────────

type stubOrderRepo struct{ db *memDB }

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

func (r *stubOrderRepo) FindByID(_ context.Context, _ *gorm.DB, tenantID, id uuid.UUID) (*model.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (r *stubOrderRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, tenantID, id uuid.UUID) (*model.Order, error) {
	return r.FindByID(ctx, tx, tenantID, id)
}

func (r *stubOrderRepo) UpdateStatusTx(_ context.Context, _ *gorm.DB, tenantID, id uuid.UUID, status model.OrderStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok || o.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) MarkInventoryProcessedTx(_ context.Context, _ *gorm.DB, tenantID, id uuid.UUID, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok || o.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	o.InventoryProcessed = true
	o.InventoryProcessedAt = &at
	return nil
}

// ── SupplierRepository ───────────────────────────────────────────────────────

type stubSupplierRepo struct{ db *memDB }

func (r *stubSupplierRepo) DB() *gorm.DB { return nil }

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.db.suppliers[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Supplier, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.suppliers[id]
	if !ok || s.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSupplierRepo) List(_ context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.Supplier, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.Supplier
	for _, s := range r.db.suppliers {
		if s.TenantID == tenantID && (includeInactive || s.IsActive) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubSupplierRepo) SoftDelete(_ context.Context, tenantID, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.suppliers[id]
	if !ok || s.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	s.IsActive = false
	return nil
}

func (r *stubSupplierRepo) ListIngredientLinks(_ context.Context, tenantID uuid.UUID, ingredientIDs []uuid.UUID) ([]model.SupplierIngredient, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range ingredientIDs {
		want[id] = true
	}
	var out []model.SupplierIngredient
	for _, l := range r.db.links {
		if l.TenantID != tenantID || !want[l.IngredientID] {
			continue
		}
		if s, ok := r.db.suppliers[l.SupplierID]; ok {
			cp := *s
			l.Supplier = &cp
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *stubSupplierRepo) UpsertLinkTx(_ context.Context, _ *gorm.DB, link *model.SupplierIngredient) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, l := range r.db.links {
		if l.SupplierID == link.SupplierID && l.IngredientID == link.IngredientID {
			link.ID = l.ID
			r.db.links[i] = *link
			return nil
		}
	}
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	r.db.links = append(r.db.links, *link)
	return nil
}

func (r *stubSupplierRepo) ClearPreferredTx(_ context.Context, _ *gorm.DB, tenantID, ingredientID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.links {
		if r.db.links[i].TenantID == tenantID && r.db.links[i].IngredientID == ingredientID {
			r.db.links[i].IsPreferred = false
		}
	}
	return nil
}

// ── PurchaseOrderRepository ──────────────────────────────────────────────────

type stubPurchaseOrderRepo struct{ db *memDB }

func (r *stubPurchaseOrderRepo) DB() *gorm.DB { return nil }

func clonePO(po *model.PurchaseOrder) *model.PurchaseOrder {
	cp := *po
	cp.Items = append([]model.PurchaseOrderItem(nil), po.Items...)
	return &cp
}

func (r *stubPurchaseOrderRepo) CreateTx(_ context.Context, _ *gorm.DB, po *model.PurchaseOrder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	po.CreatedAt = time.Now()
	for i := range po.Items {
		if po.Items[i].ID == uuid.Nil {
			po.Items[i].ID = uuid.New()
		}
		po.Items[i].PurchaseOrderID = po.ID
	}
	r.db.pos[po.ID] = clonePO(po)
	return nil
}

func (r *stubPurchaseOrderRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.PurchaseOrder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	po, ok := r.db.pos[id]
	if !ok || po.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return clonePO(po), nil
}

func (r *stubPurchaseOrderRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, tenantID, id uuid.UUID) (*model.PurchaseOrder, error) {
	return r.FindByID(ctx, tenantID, id)
}

func (r *stubPurchaseOrderRepo) UpdateTx(_ context.Context, _ *gorm.DB, po *model.PurchaseOrder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.pos[po.ID]
	if !ok || cur.TenantID != po.TenantID {
		return gorm.ErrRecordNotFound
	}
	cur.Status = po.Status
	cur.ApprovedBy = po.ApprovedBy
	cur.ApprovedAt = po.ApprovedAt
	cur.ActualDeliveryAt = po.ActualDeliveryAt
	cur.UpdatedAt = po.UpdatedAt
	return nil
}

func (r *stubPurchaseOrderRepo) UpdateItemReceivedTx(_ context.Context, _ *gorm.DB, itemID uuid.UUID, received decimal.Decimal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, po := range r.db.pos {
		for i := range po.Items {
			if po.Items[i].ID == itemID {
				po.Items[i].QuantityReceived = received
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPurchaseOrderRepo) List(_ context.Context, tenantID uuid.UUID, f dto.PurchaseOrderFilter) ([]model.PurchaseOrder, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.PurchaseOrder
	for _, po := range r.db.pos {
		if po.TenantID != tenantID {
			continue
		}
		if f.Status != "" && string(po.Status) != f.Status {
			continue
		}
		out = append(out, *clonePO(po))
	}
	return out, int64(len(out)), nil
}

// ── Collaborator stubs ───────────────────────────────────────────────────────

type recordingNotifier struct {
	mu      sync.Mutex
	signals []service.LowStockSignal
}

func (n *recordingNotifier) NotifyLowStock(_ context.Context, sig service.LowStockSignal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.signals = append(n.signals, sig)
	return nil
}

// stubForecaster books each ingredient's whole horizon demand on the first day.
type stubForecaster struct {
	available bool
	totals    map[uuid.UUID]decimal.Decimal
	err       error
	block     bool
	calls     int
}

func (f *stubForecaster) IsAvailable(context.Context) bool { return f.available }

func (f *stubForecaster) Forecast(ctx context.Context, req forecast.Request) ([]forecast.DailyForecast, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	total, ok := f.totals[req.IngredientID]
	if !ok {
		return nil, forecast.ErrInsufficientData
	}
	out := make([]forecast.DailyForecast, req.HorizonDays)
	for i := range out {
		out[i] = forecast.DailyForecast{Date: time.Now().AddDate(0, 0, i+1)}
	}
	out[0].Predicted, out[0].Lower, out[0].Upper = total, total, total
	return out, nil
}

type memSuggestionCache struct {
	reports map[uuid.UUID]*dto.SuggestionReport
}

func (c *memSuggestionCache) Store(_ context.Context, tenantID uuid.UUID, r *dto.SuggestionReport) error {
	c.reports[tenantID] = r
	return nil
}

func (c *memSuggestionCache) Load(_ context.Context, tenantID uuid.UUID) (*dto.SuggestionReport, error) {
	return c.reports[tenantID], nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

var taxRate = decimal.RequireFromString("0.16")

type fixture struct {
	t        *testing.T
	db       *memDB
	tenant   uuid.UUID
	actor    uuid.UUID
	notifier *recordingNotifier
	fc       *stubForecaster
	cache    *memSuggestionCache

	ingredients *stubIngredientRepo
	txRepo      *stubTransactionRepo
	orders      *stubOrderRepo
	suppliers   *stubSupplierRepo
	poRepo      *stubPurchaseOrderRepo

	ledger      *service.StockLedger
	resolver    *service.RecipeResolver
	processor   *service.OrderInventoryProcessor
	inventory   service.InventoryService
	orderSvc    service.OrderService
	procurement service.ProcurementService
	purchasing  service.PurchaseOrderService
	supplierSvc service.SupplierService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newMemDB()
	f := &fixture{
		t:           t,
		db:          db,
		tenant:      uuid.New(),
		actor:       uuid.New(),
		notifier:    &recordingNotifier{},
		fc:          &stubForecaster{available: true, totals: map[uuid.UUID]decimal.Decimal{}},
		cache:       &memSuggestionCache{reports: map[uuid.UUID]*dto.SuggestionReport{}},
		ingredients: &stubIngredientRepo{db: db},
		txRepo:      &stubTransactionRepo{db: db},
		orders:      &stubOrderRepo{db: db},
		suppliers:   &stubSupplierRepo{db: db},
		poRepo:      &stubPurchaseOrderRepo{db: db},
	}
	recipes := &stubRecipeRepo{db: db}

	f.ledger = service.NewStockLedger(f.ingredients, f.txRepo, f.notifier)
	f.resolver = service.NewRecipeResolver(recipes, f.ingredients)
	f.processor = service.NewOrderInventoryProcessor(f.orders, f.ingredients, f.resolver, f.ledger)
	f.inventory = service.NewInventoryService(f.ingredients, f.txRepo, recipes, f.ledger)
	f.orderSvc = service.NewOrderService(f.orders, f.processor)
	f.procurement = service.NewProcurementService(f.ingredients, f.suppliers, f.fc, f.cache,
		service.ProcurementConfig{DefaultHorizonDays: 7, ForecastTimeout: 50 * time.Millisecond})
	f.purchasing = service.NewPurchaseOrderService(f.poRepo, f.suppliers, f.ingredients, f.ledger, f.procurement, taxRate)
	f.supplierSvc = service.NewSupplierService(f.suppliers, f.ingredients)
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// addIngredient seeds an ingredient with a stock balance that is backed by an
// opening adjustment row, keeping the ledger invariant true from the start.
func (f *fixture) addIngredient(name string, unit units.Unit, stock, minAlert string) *model.Ingredient {
	f.t.Helper()
	ing := &model.Ingredient{
		ID:            uuid.New(),
		TenantID:      f.tenant,
		Name:          name,
		Unit:          unit,
		StockQuantity: decimal.Zero,
		MinStockAlert: dec(minAlert),
		CostPerUnit:   dec("1"),
		IsActive:      true,
	}
	f.db.ingredients[ing.ID] = ing
	if s := dec(stock); !s.IsZero() {
		f.db.ingredients[ing.ID].StockQuantity = s
		f.db.transactions = append(f.db.transactions, model.StockTransaction{
			ID:           uuid.New(),
			TenantID:     f.tenant,
			IngredientID: ing.ID,
			Type:         model.TxAdjustment,
			Quantity:     s,
			Unit:         unit,
			StockAfter:   s,
		})
	}
	return ing
}

func (f *fixture) addRecipe(menuItemID uuid.UUID, ing *model.Ingredient, qty string, unit units.Unit) {
	f.db.recipes = append(f.db.recipes, model.RecipeLine{
		ID:           uuid.New(),
		TenantID:     f.tenant,
		MenuItemID:   menuItemID,
		IngredientID: ing.ID,
		Quantity:     dec(qty),
		Unit:         unit,
	})
}

func (f *fixture) addOrder(status model.OrderStatus, items ...model.OrderItem) *model.Order {
	o := &model.Order{ID: uuid.New(), TenantID: f.tenant, Status: status, Items: items}
	f.db.orders[o.ID] = o
	return o
}

func (f *fixture) addSupplier(name string, active bool) *model.Supplier {
	s := &model.Supplier{ID: uuid.New(), TenantID: f.tenant, Name: name, IsActive: active}
	f.db.suppliers[s.ID] = s
	return s
}

func (f *fixture) link(s *model.Supplier, ing *model.Ingredient, unitCost string, preferred bool, moq string) {
	l := model.SupplierIngredient{
		ID:           uuid.New(),
		TenantID:     f.tenant,
		SupplierID:   s.ID,
		IngredientID: ing.ID,
		UnitCost:     dec(unitCost),
		IsPreferred:  preferred,
		LeadTimeDays: 2,
		IsActive:     true,
	}
	if moq != "" {
		l.MinOrderQuantity = decimal.NewNullDecimal(dec(moq))
	}
	f.db.links = append(f.db.links, l)
}

func (f *fixture) stock(ing *model.Ingredient) decimal.Decimal {
	return f.db.ingredients[ing.ID].StockQuantity
}

// rowsFor returns ledger rows of ing, oldest first, excluding the opening balance.
func (f *fixture) rowsFor(ing *model.Ingredient, typ model.StockTransactionType) []model.StockTransaction {
	var out []model.StockTransaction
	for _, t := range f.db.transactions {
		if t.IngredientID == ing.ID && t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

func (f *fixture) ledgerSum(ing *model.Ingredient) decimal.Decimal {
	sum, _ := f.txRepo.SumByIngredient(context.Background(), f.tenant, ing.ID)
	return sum
}

func orderItem(menuItemID uuid.UUID, qty int, mods ...model.SelectedModifier) model.OrderItem {
	return model.OrderItem{ID: uuid.New(), MenuItemID: menuItemID, Quantity: qty, Modifiers: mods}
}
