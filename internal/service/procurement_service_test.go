package service_test

import (
	"context"
	"errors"
	"testing"

	"restonext/internal/dto"
	"restonext/internal/service"
	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSuggestions_ShortageWithSafetyBuffer(t *testing.T) {
	f := newFixture(t)
	flour := f.addIngredient("Flour", units.Kilogram, "10", "5")
	mill := f.addSupplier("Mill", true)
	f.link(mill, flour, "2.5", true, "")
	f.fc.totals[flour.ID] = dec("8")

	report, err := f.procurement.GenerateSuggestions(context.Background(), f.tenant, 7)
	require.NoError(t, err)
	assert.True(t, report.ForecasterUsed)
	assert.Equal(t, 7, report.HorizonDays)
	require.Len(t, report.Suppliers, 1)

	g := report.Suppliers[0]
	assert.Equal(t, mill.ID.String(), g.SupplierID)
	assert.Equal(t, "Mill", g.SupplierName)
	require.Len(t, g.Items, 1)
	sug := g.Items[0]
	assert.Equal(t, dto.DemandForecast, sug.DemandSource)
	assert.Equal(t, "8", sug.PredictedDemand.String())
	assert.Equal(t, "3", sug.Shortage.String())
	assert.Equal(t, "3.6", sug.SuggestedQuantity.String())
	assert.Equal(t, "9", sug.EstimatedCost.String())
	assert.Equal(t, 2, sug.LeadTimeDays)
	assert.True(t, g.Subtotal.Equal(dec("9")))
	assert.True(t, report.GrandTotal.Equal(dec("9")))
	assert.Empty(t, report.Unassigned)
}

func TestGenerateSuggestions_ClampsToMinimumOrderQuantity(t *testing.T) {
	f := newFixture(t)
	flour := f.addIngredient("Flour", units.Kilogram, "10", "5")
	mill := f.addSupplier("Mill", true)
	f.link(mill, flour, "2", true, "10")
	f.fc.totals[flour.ID] = dec("8")

	report, err := f.procurement.GenerateSuggestions(context.Background(), f.tenant, 7)
	require.NoError(t, err)
	sug := report.Suppliers[0].Items[0]
	assert.Equal(t, "10", sug.SuggestedQuantity.String())
	assert.Equal(t, "20", sug.EstimatedCost.String())
}

func TestGenerateSuggestions_FloorsAtOneUnit(t *testing.T) {
	f := newFixture(t)
	eggs := f.addIngredient("Eggs", units.Piece, "5", "5")
	f.fc.totals[eggs.ID] = dec("0.5")

	report, err := f.procurement.GenerateSuggestions(context.Background(), f.tenant, 7)
	require.NoError(t, err)
	require.Len(t, report.Unassigned, 1)
	assert.Equal(t, "1", report.Unassigned[0].SuggestedQuantity.String())
}

func TestGenerateSuggestions_NoSuggestionWhenProjectionClearsThreshold(t *testing.T) {
	f := newFixture(t)
	big := f.addIngredient("Potatoes", units.Kilogram, "100", "5")
	exact := f.addIngredient("Onions", units.Kilogram, "100", "5")
	f.fc.totals[big.ID] = dec("90")
	f.fc.totals[exact.ID] = dec("95")

	report, err := f.procurement.GenerateSuggestions(context.Background(), f.tenant, 7)
	require.NoError(t, err)
	assert.Empty(t, report.Suppliers)
	assert.Empty(t, report.Unassigned)
	assert.True(t, report.GrandTotal.IsZero())
}

func TestGenerateSuggestions_FallbackHeuristic(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(f *fixture)
		reason string
	}{
		{"insufficient history", func(f *fixture) {}, "insufficient history"},
		{"backend error", func(f *fixture) { f.fc.err = errors.New("model exploded") }, "forecaster error"},
		{"timeout", func(f *fixture) { f.fc.block = true }, "forecast timed out"},
		{"unavailable", func(f *fixture) { f.fc.available = false }, "forecaster unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			milk := f.addIngredient("Milk", units.Liter, "3", "2")
			tc.setup(f)

			report, err := f.procurement.GenerateSuggestions(context.Background(), f.tenant, 7)
			require.NoError(t, err)
			require.Len(t, report.Unassigned, 1)
			sug := report.Unassigned[0]
			assert.Equal(t, milk.ID.String(), sug.IngredientID)
			assert.Equal(t, dto.DemandFallback, sug.DemandSource)
			assert.Equal(t, tc.reason, sug.FallbackReason)
			// demand = 2 × 2, projected = -1, shortage = 3
			assert.Equal(t, "4", sug.PredictedDemand.String())
			assert.Equal(t, "3.6", sug.SuggestedQuantity.String())
		})
	}
}

func TestGenerateSuggestions_SkipsForecastCallsWhenUnavailable(t *testing.T) {
	f := newFixture(t)
	f.addIngredient("Milk", units.Liter, "3", "2")
	f.fc.available = false

	report, err := f.procurement.GenerateSuggestions(context.Background(), f.tenant, 7)
	require.NoError(t, err)
	assert.False(t, report.ForecasterUsed)
	assert.Zero(t, f.fc.calls)
}

func TestGenerateSuggestions_GroupsBySupplier(t *testing.T) {
	f := newFixture(t)
	avocado := f.addIngredient("Avocado", units.Kilogram, "10", "5")
	beans := f.addIngredient("Beans", units.Kilogram, "10", "5")
	cilantro := f.addIngredient("Cilantro", units.Kilogram, "10", "5")
	f.db.ingredients[cilantro.ID].CostPerUnit = dec("4")
	for _, ing := range []uuid.UUID{avocado.ID, beans.ID, cilantro.ID} {
		f.fc.totals[ing] = dec("8")
	}

	market := f.addSupplier("Market", true)
	farm := f.addSupplier("Farm", true)
	closed := f.addSupplier("Closed Co", false)
	f.link(market, avocado, "3", false, "")
	f.link(farm, avocado, "2", true, "")
	f.link(closed, beans, "0.1", true, "")
	f.link(market, beans, "1.5", false, "")

	report, err := f.procurement.GenerateSuggestions(context.Background(), f.tenant, 7)
	require.NoError(t, err)

	require.Len(t, report.Suppliers, 2)
	assert.Equal(t, "Farm", report.Suppliers[0].SupplierName)
	assert.Equal(t, "7.2", report.Suppliers[0].Subtotal.String())
	assert.Equal(t, "Market", report.Suppliers[1].SupplierName)
	assert.Equal(t, "5.4", report.Suppliers[1].Subtotal.String())
	assert.Equal(t, beans.ID.String(), report.Suppliers[1].Items[0].IngredientID)

	require.Len(t, report.Unassigned, 1)
	un := report.Unassigned[0]
	assert.Nil(t, un.SupplierID)
	assert.Equal(t, "4", un.UnitCost.String())
	assert.Equal(t, "14.4", un.EstimatedCost.String())
	assert.Equal(t, "14.4", report.UnassignedSubtotal.String())
	assert.True(t, report.GrandTotal.Equal(dec("27")))

	assert.NotNil(t, report.Group(farm.ID.String()))
	assert.Nil(t, report.Group(closed.ID.String()))
}

func TestGenerateSuggestions_IsReadOnly(t *testing.T) {
	f := newFixture(t)
	flour := f.addIngredient("Flour", units.Kilogram, "10", "5")
	f.fc.totals[flour.ID] = dec("8")
	before := len(f.db.transactions)

	_, err := f.procurement.GenerateSuggestions(context.Background(), f.tenant, 7)
	require.NoError(t, err)
	assert.Len(t, f.db.transactions, before)
	assert.Empty(t, f.db.pos)
	assert.Equal(t, "10", f.stock(flour).String())
}

func TestSuggestionCache_RefreshThenRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addIngredient("Milk", units.Liter, "3", "2")

	_, err := f.procurement.CachedSuggestions(ctx, f.tenant)
	assert.ErrorIs(t, err, service.ErrNotFound)

	fresh, err := f.procurement.RefreshCache(ctx, f.tenant)
	require.NoError(t, err)
	cached, err := f.procurement.CachedSuggestions(ctx, f.tenant)
	require.NoError(t, err)
	assert.Same(t, fresh, cached)
	assert.Equal(t, 7, cached.HorizonDays)
}
