package service

import (
	"context"
	"fmt"

	"restonext/internal/model"
	"restonext/internal/repository"
	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ResolveLine is one sold line: a menu item, how many were sold and which
// modifier options were chosen.
type ResolveLine struct {
	MenuItemID uuid.UUID
	Quantity   int
	Modifiers  []model.SelectedModifier
}

// DeductionSet accumulates ingredient quantities keyed by ingredient id,
// remembering first-insertion order. Quantities are positive and expressed
// in each ingredient's stock unit. A set lives for one processing call.
type DeductionSet struct {
	order []uuid.UUID
	qty   map[uuid.UUID]decimal.Decimal
}

func NewDeductionSet() *DeductionSet {
	return &DeductionSet{qty: make(map[uuid.UUID]decimal.Decimal)}
}

func (d *DeductionSet) Add(ingredientID uuid.UUID, q decimal.Decimal) {
	cur, ok := d.qty[ingredientID]
	if !ok {
		d.order = append(d.order, ingredientID)
	}
	d.qty[ingredientID] = cur.Add(q)
}

func (d *DeductionSet) Get(ingredientID uuid.UUID) (decimal.Decimal, bool) {
	q, ok := d.qty[ingredientID]
	return q, ok
}

func (d *DeductionSet) Len() int { return len(d.order) }

// IDs returns ingredient ids in insertion order.
func (d *DeductionSet) IDs() []uuid.UUID {
	out := make([]uuid.UUID, len(d.order))
	copy(out, d.order)
	return out
}

type modifierKey struct {
	group  string
	option string
}

// RecipeResolver turns sold lines into a DeductionSet from recipe lines and
// modifier-linked ingredients.
type RecipeResolver struct {
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
}

func NewRecipeResolver(recipes repository.RecipeRepository, ingredients repository.IngredientRepository) *RecipeResolver {
	return &RecipeResolver{recipes: recipes, ingredients: ingredients}
}

func (r *RecipeResolver) Resolve(ctx context.Context, tenantID uuid.UUID, lines []ResolveLine) (*DeductionSet, error) {
	set := NewDeductionSet()
	if len(lines) == 0 {
		return set, nil
	}

	menuItems := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	needModifiers := false
	for _, l := range lines {
		if !seen[l.MenuItemID] {
			seen[l.MenuItemID] = true
			menuItems = append(menuItems, l.MenuItemID)
		}
		if len(l.Modifiers) > 0 {
			needModifiers = true
		}
	}

	recipeRows, err := r.recipes.ListByMenuItems(ctx, tenantID, menuItems)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	byItem := make(map[uuid.UUID][]model.RecipeLine, len(menuItems))
	for _, rl := range recipeRows {
		byItem[rl.MenuItemID] = append(byItem[rl.MenuItemID], rl)
	}

	var links map[modifierKey][]model.Ingredient
	if needModifiers {
		linked, err := r.ingredients.ListModifierLinked(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("load modifier links: %w", err)
		}
		links = make(map[modifierKey][]model.Ingredient, len(linked))
		for _, ing := range linked {
			if ing.ModifierLink.IsZero() || !ing.IsActive {
				continue
			}
			k := modifierKey{ing.ModifierLink.GroupName, ing.ModifierLink.OptionID}
			links[k] = append(links[k], ing)
		}
	}

	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		sold := decimal.NewFromInt(int64(l.Quantity))

		recipe := byItem[l.MenuItemID]
		if len(recipe) == 0 {
			log.Debug().
				Str("tenant_id", tenantID.String()).
				Str("menu_item_id", l.MenuItemID.String()).
				Msg("menu item has no recipe, skipping")
		}
		for _, rl := range recipe {
			qty := rl.Quantity
			if rl.Ingredient != nil {
				qty, err = units.Convert(rl.Quantity, rl.Unit, rl.Ingredient.Unit)
				if err != nil {
					return nil, fmt.Errorf("recipe of menu item %s: %w", l.MenuItemID, err)
				}
			}
			set.Add(rl.IngredientID, qty.Mul(sold))
		}

		for _, m := range l.Modifiers {
			for _, ing := range links[modifierKey{m.GroupName, m.OptionID}] {
				set.Add(ing.ID, ing.ModifierLink.Quantity.Mul(sold))
			}
		}
	}
	return set, nil
}
