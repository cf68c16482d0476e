package infra

import (
	"fmt"

	"restonext/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (partial indexes, the ledger immutability trigger).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the schema and applies the patches. Safe to re-run.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Ingredient{},
		&model.RecipeLine{},
		&model.StockTransaction{},
		&model.Supplier{},
		&model.SupplierIngredient{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate
// cannot handle on its own. Each statement uses IF NOT EXISTS / OR REPLACE
// semantics so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Modifier lookups during order processing filter on (tenant, group, option).
		{"modifier link index", `
CREATE INDEX IF NOT EXISTS idx_ingredients_modifier_link
    ON ingredients (tenant_id, modifier_group_name, modifier_option_id)
    WHERE modifier_group_name <> '' AND is_active`},

		// At most one active preferred supplier per ingredient.
		{"one preferred supplier per ingredient", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_supplier_ingredients_preferred
    ON supplier_ingredients (ingredient_id)
    WHERE is_preferred AND is_active`},

		{"recipe line per menu item and ingredient", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_recipe_lines_item_ingredient
    ON recipe_lines (tenant_id, menu_item_id, ingredient_id)`},

		{"ledger history index", `
CREATE INDEX IF NOT EXISTS idx_stock_transactions_history
    ON stock_transactions (tenant_id, ingredient_id, created_at)`},

		// stock_transactions is append-only: corrections are new offsetting rows.
		{"ledger immutability function", `
CREATE OR REPLACE FUNCTION stock_transactions_append_only() RETURNS trigger AS $$
BEGIN
  RAISE EXCEPTION 'stock_transactions rows are immutable';
END;
$$ LANGUAGE plpgsql`},
		{"ledger immutability trigger", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_stock_transactions_append_only') THEN
    CREATE TRIGGER trg_stock_transactions_append_only
        BEFORE UPDATE OR DELETE ON stock_transactions
        FOR EACH ROW EXECUTE FUNCTION stock_transactions_append_only();
  END IF;
END $$`},

		{"purchase order status check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_purchase_orders_status') THEN
    ALTER TABLE purchase_orders ADD CONSTRAINT chk_purchase_orders_status
        CHECK (status IN ('draft', 'pending', 'approved', 'received', 'cancelled'));
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
