package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func paidOrder() domain.Order {
	return domain.Order{
		ID:              "order-1",
		StripeSessionID: "cs_test_1",
		CustomerEmail:   "buyer@example.com",
		ShippingName:    "Ship To",
		ShippingAddress: &domain.Address{Line1: "40 Roast Road", Country: "GB"},
		Status:          domain.OrderStatusPaid,
		AmountTotal:     4255,
		Currency:        "gbp",
	}
}

func TestNewOrderPaidEvent(t *testing.T) {
	items := []domain.OrderItem{{PriceRef: "price_a", Quantity: 2, Grind: domain.GrindFilter}}
	ev := NewOrderPaidEvent(paidOrder(), items, "req-1")

	assert.Equal(t, TypeOrderPaid, ev.Type)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "order-1", ev.OrderID)
	assert.Equal(t, "buyer@example.com", ev.CustomerEmail)
	assert.Equal(t, items, ev.Items)
	assert.Equal(t, "req-1", ev.RequestID)
	assert.WithinDuration(t, time.Now(), ev.Timestamp, time.Minute)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"order.paid"`)
	assert.Contains(t, string(raw), `"grind":"filter"`)
}

func TestNewStatusChangedEvent(t *testing.T) {
	order := paidOrder()
	order.Status = domain.OrderStatusShipped

	ev := NewStatusChangedEvent(order, "")
	assert.Equal(t, TypeOrderStatusChanged, ev.Type)
	assert.Equal(t, domain.OrderStatusShipped, ev.Status)
	assert.Empty(t, ev.Items)

	other := NewStatusChangedEvent(order, "")
	assert.NotEqual(t, ev.EventID, other.EventID)
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(zap.NewNop())
	assert.NoError(t, p.PublishOrderEvent(context.Background(), NewStatusChangedEvent(paidOrder(), "")))
	assert.NoError(t, p.Close())
}

func TestKafkaProducer_HealthCheckNoBrokers(t *testing.T) {
	p := NewKafkaProducer(nil, "order-events", zap.NewNop())
	assert.Error(t, p.HealthCheck(context.Background()))
	assert.NoError(t, NewNoopPublisher(zap.NewNop()).HealthCheck(context.Background()))
}
