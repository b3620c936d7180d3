package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndolgikh/marketcore/internal/transport"
)

func TestCatalogService_CreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Catalog.CreateProduct(ctx, transport.CreateProductRequest{Price: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Catalog.CreateProduct(ctx, transport.CreateProductRequest{Name: "widget", Price: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Catalog.CreateProduct(ctx, transport.CreateProductRequest{Name: "widget", Price: 10, Stock: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	product, err := env.Catalog.CreateProduct(ctx, transport.CreateProductRequest{Name: "widget", Price: 10, Stock: 3})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestCatalogService_PatchProduct_PriceChangeEmitsEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, "widget", 10, 5)

	newPrice := 12.5
	updated, err := env.Catalog.PatchProduct(ctx, p.ID, transport.PatchProductRequest{Price: &newPrice}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 12.5, updated.Price)

	ev := env.Pub.wait(t)
	assert.Equal(t, "products", ev.Key)
}

func TestCatalogService_PatchProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, "widget", 10, 5)

	bad := -5.0
	_, err := env.Catalog.PatchProduct(ctx, p.ID, transport.PatchProductRequest{Price: &bad}, "admin")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	ok := 5.0
	_, err = env.Catalog.PatchProduct(ctx, 999, transport.PatchProductRequest{Price: &ok}, "admin")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_CreatePromotion_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, "widget", 10, 5)

	tests := []struct {
		name string
		req  transport.CreatePromotionRequest
	}{
		{
			name: "missing name",
			req:  transport.CreatePromotionRequest{DiscountPercent: 10, StartsAt: fixedNow, EndsAt: fixedNow.Add(time.Hour)},
		},
		{
			name: "discount above 100",
			req:  transport.CreatePromotionRequest{Name: "x", DiscountPercent: 101, StartsAt: fixedNow, EndsAt: fixedNow.Add(time.Hour)},
		},
		{
			name: "negative discount",
			req:  transport.CreatePromotionRequest{Name: "x", DiscountPercent: -1, StartsAt: fixedNow, EndsAt: fixedNow.Add(time.Hour)},
		},
		{
			name: "window ends before start",
			req:  transport.CreatePromotionRequest{Name: "x", DiscountPercent: 10, StartsAt: fixedNow, EndsAt: fixedNow.Add(-time.Hour)},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Catalog.CreatePromotion(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := env.Catalog.CreatePromotion(ctx, transport.CreatePromotionRequest{
		Name: "sale", DiscountPercent: 10, StartsAt: fixedNow, EndsAt: fixedNow.Add(time.Hour),
		ProductIDs: []uint{999},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	promo, err := env.Catalog.CreatePromotion(ctx, transport.CreatePromotionRequest{
		Name: "sale", DiscountPercent: 10, StartsAt: fixedNow, EndsAt: fixedNow.Add(time.Hour),
		ProductIDs: []uint{p.ID},
	})
	require.NoError(t, err)
	assert.NotZero(t, promo.ID)
}
