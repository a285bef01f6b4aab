package events

import (
	"time"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/google/uuid"
)

const (
	TypeOrderPaid          = "order.paid"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent is published to Kafka when an order is fulfilled or its status
// changes. Consumers send confirmation e-mails and book shipping.
type OrderEvent struct {
	EventID         string             `json:"event_id"`
	Type            string             `json:"type"`
	OrderID         string             `json:"order_id"`
	StripeSessionID string             `json:"stripe_session_id"`
	CustomerEmail   string             `json:"customer_email,omitempty"`
	ShippingName    string             `json:"shipping_name,omitempty"`
	ShippingAddress *domain.Address    `json:"shipping_address,omitempty"`
	Status          domain.OrderStatus `json:"status"`
	AmountTotal     int64              `json:"amount_total"`
	Currency        string             `json:"currency"`
	Items           []domain.OrderItem `json:"items,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
	RequestID       string             `json:"request_id,omitempty"`
}

func NewOrderPaidEvent(order domain.Order, items []domain.OrderItem, requestID string) OrderEvent {
	ev := newOrderEvent(TypeOrderPaid, order, requestID)
	ev.Items = items
	return ev
}

func NewStatusChangedEvent(order domain.Order, requestID string) OrderEvent {
	return newOrderEvent(TypeOrderStatusChanged, order, requestID)
}

func newOrderEvent(eventType string, order domain.Order, requestID string) OrderEvent {
	return OrderEvent{
		EventID:         uuid.New().String(),
		Type:            eventType,
		OrderID:         order.ID,
		StripeSessionID: order.StripeSessionID,
		CustomerEmail:   order.CustomerEmail,
		ShippingName:    order.ShippingName,
		ShippingAddress: order.ShippingAddress,
		Status:          order.Status,
		AmountTotal:     order.AmountTotal,
		Currency:        order.Currency,
		Timestamp:       time.Now().UTC(),
		RequestID:       requestID,
	}
}
