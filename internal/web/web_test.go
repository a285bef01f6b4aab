package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_ParseAllPages(t *testing.T) {
	tmpl, err := Templates("gbp")
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "product.html", "cart.html", "success.html", "cancel.html",
		"error.html", "login.html", "orders.html", "inventory.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestTemplates_RenderHome(t *testing.T) {
	tmpl, err := Templates("gbp")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "home.html", map[string]interface{}{
		"CartCount": 2,
		"Products": []domain.Product{
			{Name: "Ethiopia Guji", Origin: "Ethiopia", Price250: 1250, PriceRef: "price_eth", RetailAvailable: true},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Ethiopia Guji")
	assert.Contains(t, out, "£12.50 / 250g")
	assert.Contains(t, out, `href="/product/price_eth"`)
	assert.Contains(t, out, `<span id="cart-count">2</span>`)
}

func TestTemplates_RenderOrders(t *testing.T) {
	tmpl, err := Templates("gbp")
	require.NoError(t, err)

	order := domain.Order{
		ID:             "0b7e4a3e-8d4f-4b8e-9d8a-2f1f1c7c0c11",
		ShippingName:   "Ada Lovelace",
		AmountSubtotal: 2400,
		AmountShipping: 355,
		AmountTotal:    2755,
		Currency:       "gbp",
		Status:         domain.OrderStatusPaid,
		CreatedAt:      time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	items := map[string][]domain.OrderItem{
		order.ID: {{Name: "Ethiopia Guji", Quantity: 2, LineTotal: 2400, Grind: domain.GrindEspresso}},
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "orders.html", map[string]interface{}{
		"Admin":           true,
		"Orders":          []domain.Order{order},
		"ItemsByOrderID":  items,
		"SelectedFilter":  domain.FilterAll,
		"Filters":         domain.DashboardFilters,
		"AllowedStatuses": domain.OrderStatuses,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "2 × Ethiopia Guji (Espresso) £24.00")
	assert.Contains(t, out, "Total £27.55")
	assert.Contains(t, out, `<option value="paid" selected>paid</option>`)
	assert.Contains(t, out, "01 Mar 2026 09:30")
}
