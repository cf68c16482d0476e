package repository

import (
	"context"

	"restonext/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipeRepository interface {
	// ListByMenuItems loads the recipe lines of every given menu item in one
	// query, ingredient preloaded.
	ListByMenuItems(ctx context.Context, tenantID uuid.UUID, menuItemIDs []uuid.UUID) ([]model.RecipeLine, error)
	ReplaceTx(ctx context.Context, tx *gorm.DB, tenantID, menuItemID uuid.UUID, lines []model.RecipeLine) error
	DB() *gorm.DB
}

type recipeRepo struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepo{db: db} }

func (r *recipeRepo) DB() *gorm.DB { return r.db }

func (r *recipeRepo) ListByMenuItems(ctx context.Context, tenantID uuid.UUID, menuItemIDs []uuid.UUID) ([]model.RecipeLine, error) {
	var lines []model.RecipeLine
	if len(menuItemIDs) == 0 {
		return lines, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Ingredient").
		Where("tenant_id = ? AND menu_item_id IN ?", tenantID, menuItemIDs).
		Order("created_at ASC").
		Find(&lines).Error
	return lines, err
}

func (r *recipeRepo) ReplaceTx(ctx context.Context, tx *gorm.DB, tenantID, menuItemID uuid.UUID, lines []model.RecipeLine) error {
	db := conn(ctx, r.db, tx)
	if err := db.Where("tenant_id = ? AND menu_item_id = ?", tenantID, menuItemID).
		Delete(&model.RecipeLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return db.Create(&lines).Error
}
