package service_test

import (
	"context"
	"testing"

	"restonext/internal/model"
	"restonext/internal/service"
	"restonext/internal/units"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteOrder_DeductsOnceAndFlagsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tomato := f.addIngredient("Tomato", units.Kilogram, "10", "0")
	salad := uuid.New()
	f.addRecipe(salad, tomato, "0.5", units.Kilogram)
	order := f.addOrder(model.OrderPreparing, orderItem(salad, 2))

	resp, err := f.orderSvc.CompleteOrder(ctx, f.tenant, order.ID, model.OrderPaid, &f.actor)
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)
	assert.True(t, resp.InventoryProcessed)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "-1", resp.Transactions[0].Quantity.String())

	stored := f.db.orders[order.ID]
	assert.Equal(t, model.OrderPaid, stored.Status)
	assert.True(t, stored.InventoryProcessed)
	assert.NotNil(t, stored.InventoryProcessedAt)

	// paid -> delivered must not deduct again.
	resp, err = f.orderSvc.CompleteOrder(ctx, f.tenant, order.ID, model.OrderDelivered, &f.actor)
	require.NoError(t, err)
	assert.Equal(t, "delivered", resp.Status)
	assert.Empty(t, resp.Transactions)
	assert.Len(t, f.rowsFor(tomato, model.TxSale), 1)
	assert.Equal(t, "9", f.stock(tomato).String())
}

func TestCompleteOrder_AllowsNegativeStock(t *testing.T) {
	f := newFixture(t)
	beef := f.addIngredient("Beef", units.Kilogram, "0", "0")
	burger := uuid.New()
	f.addRecipe(burger, beef, "0.2", units.Kilogram)
	order := f.addOrder(model.OrderOpen, orderItem(burger, 1))

	_, err := f.orderSvc.CompleteOrder(context.Background(), f.tenant, order.ID, model.OrderPaid, nil)
	require.NoError(t, err)
	assert.Equal(t, "-0.2", f.stock(beef).String())
}

func TestCompleteOrder_RejectsBadTargetsAndCancelledOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.addOrder(model.OrderOpen)

	_, err := f.orderSvc.CompleteOrder(ctx, f.tenant, order.ID, model.OrderPreparing, nil)
	assert.ErrorIs(t, err, service.ErrValidation)

	cancelled := f.addOrder(model.OrderCancelled)
	_, err = f.orderSvc.CompleteOrder(ctx, f.tenant, cancelled.ID, model.OrderPaid, nil)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	assert.Equal(t, model.OrderCancelled, f.db.orders[cancelled.ID].Status)

	_, err = f.orderSvc.CompleteOrder(ctx, uuid.New(), order.ID, model.OrderPaid, nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProcessOrderInventory_StrictModeSurfacesInsufficientStock(t *testing.T) {
	f := newFixture(t)
	beef := f.addIngredient("Beef", units.Kilogram, "0.1", "0")
	burger := uuid.New()
	f.addRecipe(burger, beef, "0.2", units.Kilogram)
	order := f.addOrder(model.OrderPaid, orderItem(burger, 1))

	_, err := f.orderSvc.ProcessOrderInventory(context.Background(), f.tenant, order.ID, &f.actor, false)
	assert.ErrorIs(t, err, service.ErrInsufficientStock)
	assert.Equal(t, "0.1", f.stock(beef).String())
	assert.False(t, f.db.orders[order.ID].InventoryProcessed)
}
