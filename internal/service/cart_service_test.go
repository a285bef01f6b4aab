package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fourways-coffee/storefront/internal/cart"
	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCartService_Reconcile(t *testing.T) {
	svc := NewCartService(testCatalog(), zap.NewNop())

	c := cart.Cart{Lines: []cart.Line{
		{ProductRef: "price_eth", Quantity: 2, Grind: domain.GrindFilter},
		{ProductRef: "price_gone", Quantity: 4, Grind: domain.GrindWholeBeans},
		{ProductRef: "price_col", Quantity: 1, Grind: domain.GrindEspresso},
	}}

	view, err := svc.Reconcile(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "price_eth", view.Items[0].PriceRef)
	assert.Equal(t, domain.GrindFilter, view.Items[0].Grind)
	assert.Equal(t, int64(2400), view.Items[0].LineTotal)
	assert.Equal(t, "price_col", view.Items[1].PriceRef)
	assert.Equal(t, int64(1500), view.Items[1].LineTotal)
	assert.Equal(t, int64(3900), view.Total)
}

func TestCartService_ReconcileEmpty(t *testing.T) {
	svc := NewCartService(failingCatalog{}, zap.NewNop())

	view, err := svc.Reconcile(context.Background(), cart.Cart{})
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Total)

	body, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(body))
}

func TestCartService_ReconcileCatalogError(t *testing.T) {
	svc := NewCartService(failingCatalog{}, zap.NewNop())

	c := cart.Cart{Lines: []cart.Line{{ProductRef: "price_eth", Quantity: 1}}}
	_, err := svc.Reconcile(context.Background(), c)
	assert.ErrorIs(t, err, errBoom)
}

func TestCartService_SameProductDifferentGrinds(t *testing.T) {
	svc := NewCartService(testCatalog(), zap.NewNop())

	c := cart.Cart{Lines: []cart.Line{
		{ProductRef: "price_eth", Quantity: 1, Grind: domain.GrindWholeBeans},
		{ProductRef: "price_eth", Quantity: 3, Grind: domain.GrindEspresso},
	}}

	view, err := svc.Reconcile(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, int64(4800), view.Total)
}
