package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndolgikh/marketcore/internal/models"
	"github.com/ndolgikh/marketcore/internal/transport"
)

func (env *testEnv) fillCart(t *testing.T, userID uint, items ...transport.AddToCartItem) {
	t.Helper()
	outcomes, err := env.Cart.AddItems(context.Background(), userID, transport.AddToCartRequest{Items: items})
	require.NoError(t, err)
	for _, o := range outcomes {
		require.True(t, o.Accepted, "add item %d rejected: %s", o.ProductID, o.Reason)
	}
}

func TestCheckout_TwoProductsStandardShipping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p1 := env.createProduct(t, "widget", 100, 10)
	p2 := env.createProduct(t, "gadget", 50, 5)
	env.fillCart(t, 1,
		transport.AddToCartItem{ProductID: p1.ID, Quantity: 2},
		transport.AddToCartItem{ProductID: p2.ID, Quantity: 3},
	)

	order, err := env.Orders.Checkout(ctx, 1, "Standard")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, float64(2*100+3*50), order.Total)
	assert.Equal(t, int64(8), env.stockOf(t, p1.ID))
	assert.Equal(t, int64(2), env.stockOf(t, p2.ID))

	// cart and its lines are gone together
	items, err := env.Cart.GetItems(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
	var carts int64
	require.NoError(t, env.Repo.DB.Model(&models.Cart{}).Count(&carts).Error)
	assert.Zero(t, carts)

	rec, err := env.Repo.DeliveryByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.TrackingID)
	assert.Equal(t, models.DeliveryStatusProcessing, rec.Status)
	wantExpected := time.Unix(order.PlacedAt, 0).UTC().AddDate(0, 0, 7)
	assert.True(t, rec.ExpectedDate.Equal(wantExpected), "expected %v, got %v", wantExpected, rec.ExpectedDate)
}

func TestCheckout_TotalMatchesFrozenLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p1 := env.createProduct(t, "widget", 19.99, 10)
	p2 := env.createProduct(t, "gadget", 7.49, 10)
	env.fillCart(t, 1,
		transport.AddToCartItem{ProductID: p1.ID, Quantity: 3},
		transport.AddToCartItem{ProductID: p2.ID, Quantity: 2},
	)

	order, err := env.Orders.Checkout(ctx, 1, "express")
	require.NoError(t, err)

	items, err := env.Repo.OrderItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	var sum float64
	for _, it := range items {
		sum += it.LineTotal
	}
	assert.InDelta(t, sum, order.Total, 0.005)
}

func TestCheckout_InsufficientStockAbortsEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p1 := env.createProduct(t, "widget", 100, 10)
	p2 := env.createProduct(t, "gadget", 50, 5)
	env.fillCart(t, 1,
		transport.AddToCartItem{ProductID: p1.ID, Quantity: 2},
		transport.AddToCartItem{ProductID: p2.ID, Quantity: 4},
	)

	// stock moved between add-to-cart and checkout
	_, err := env.Repo.AdjustStock(ctx, p2.ID, -3)
	require.NoError(t, err)

	_, err = env.Orders.Checkout(ctx, 1, "standard")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	// nothing partially written: no order, no lines, stock untouched,
	// cart intact
	var orders, lines int64
	require.NoError(t, env.Repo.DB.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, env.Repo.DB.Model(&models.OrderItem{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
	assert.Equal(t, int64(10), env.stockOf(t, p1.ID))
	assert.Equal(t, int64(2), env.stockOf(t, p2.ID))

	items, err := env.Cart.GetItems(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCheckout_EmptyOrMissingCart(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Orders.Checkout(context.Background(), 1, "standard")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckout_BadShippingMethod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.createProduct(t, "widget", 10, 10)
	env.fillCart(t, 1, transport.AddToCartItem{ProductID: p.ID, Quantity: 1})

	_, err := env.Orders.Checkout(ctx, 1, "carrier-pigeon")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckout_FreezesPromotionPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.createProduct(t, "widget", 100, 10)
	promo := &models.Promotion{
		Name:            "spring sale",
		DiscountPercent: 20,
		StartsAt:        fixedNow.Add(-time.Hour),
		EndsAt:          fixedNow.Add(time.Hour),
	}
	require.NoError(t, env.Repo.DB.Create(promo).Error)
	require.NoError(t, env.Repo.LinkPromotionProducts(ctx, promo, []uint{p.ID}))

	env.fillCart(t, 1, transport.AddToCartItem{ProductID: p.ID, Quantity: 2})

	order, err := env.Orders.Checkout(ctx, 1, "standard")
	require.NoError(t, err)
	assert.Equal(t, 160.0, order.Total)

	// expire the promotion after checkout; frozen values must not move
	require.NoError(t, env.Repo.DB.Model(promo).Update("ends_at", fixedNow.Add(-time.Minute)).Error)

	reread, err := env.Repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 160.0, reread.Total)

	items, err := env.Repo.OrderItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 20.0, items[0].DiscountPercent)
	assert.Equal(t, 100.0, items[0].UnitPrice)
	assert.Equal(t, 160.0, items[0].LineTotal)
}

func TestCheckout_EmitsOrderCreatedEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.createProduct(t, "widget", 10, 10)
	env.fillCart(t, 1, transport.AddToCartItem{ProductID: p.ID, Quantity: 1})

	_, err := env.Orders.Checkout(ctx, 1, "standard")
	require.NoError(t, err)

	ev := env.Pub.wait(t)
	assert.Equal(t, "audit_events", ev.Topic)
	assert.Equal(t, "orders", ev.Key)
}
