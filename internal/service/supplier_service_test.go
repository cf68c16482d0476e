package service_test

import (
	"context"
	"testing"

	"restonext/internal/dto"
	"restonext/internal/service"
	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.supplierSvc.Create(ctx, f.tenant, dto.CreateSupplierRequest{Name: "Mill"})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	id := uuid.MustParse(created.ID)

	require.NoError(t, f.supplierSvc.Deactivate(ctx, f.tenant, id))
	active, err := f.supplierSvc.List(ctx, f.tenant, false)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := f.supplierSvc.List(ctx, f.tenant, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, f.supplierSvc.Deactivate(ctx, uuid.New(), id), service.ErrNotFound)
}

func TestLinkIngredient_KeepsOnePreferredSupplier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	flour := f.addIngredient("Flour", units.Kilogram, "0", "0")
	mill := f.addSupplier("Mill", true)
	bakery := f.addSupplier("Bakery Supply", true)

	_, err := f.supplierSvc.LinkIngredient(ctx, f.tenant, mill.ID, dto.LinkIngredientRequest{
		IngredientID: flour.ID.String(), UnitCost: dec("2"), IsPreferred: true,
	})
	require.NoError(t, err)
	moq := dec("25")
	link, err := f.supplierSvc.LinkIngredient(ctx, f.tenant, bakery.ID, dto.LinkIngredientRequest{
		IngredientID: flour.ID.String(), UnitCost: dec("1.8"), IsPreferred: true, MinOrderQuantity: &moq, LeadTimeDays: 3,
	})
	require.NoError(t, err)
	require.NotNil(t, link.MinOrderQuantity)
	assert.Equal(t, "25", link.MinOrderQuantity.String())
	assert.True(t, link.IsActive)

	preferred := 0
	for _, l := range f.db.links {
		if l.IsPreferred {
			preferred++
			assert.Equal(t, bakery.ID, l.SupplierID)
		}
	}
	assert.Equal(t, 1, preferred)

	// Re-linking the same pair updates in place.
	_, err = f.supplierSvc.LinkIngredient(ctx, f.tenant, mill.ID, dto.LinkIngredientRequest{
		IngredientID: flour.ID.String(), UnitCost: dec("2.1"),
	})
	require.NoError(t, err)
	assert.Len(t, f.db.links, 2)
}

func TestLinkIngredient_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	flour := f.addIngredient("Flour", units.Kilogram, "0", "0")
	mill := f.addSupplier("Mill", true)
	zero := dec("0")

	_, err := f.supplierSvc.LinkIngredient(ctx, f.tenant, uuid.New(), dto.LinkIngredientRequest{IngredientID: flour.ID.String()})
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.supplierSvc.LinkIngredient(ctx, f.tenant, mill.ID, dto.LinkIngredientRequest{IngredientID: uuid.NewString()})
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.supplierSvc.LinkIngredient(ctx, f.tenant, mill.ID, dto.LinkIngredientRequest{IngredientID: flour.ID.String(), MinOrderQuantity: &zero})
	assert.ErrorIs(t, err, service.ErrValidation)
	_, err = f.supplierSvc.LinkIngredient(ctx, f.tenant, mill.ID, dto.LinkIngredientRequest{IngredientID: flour.ID.String(), UnitCost: dec("-1")})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Empty(t, f.db.links)
}
