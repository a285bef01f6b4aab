package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, allowed := range OrderStatuses {
		if status == allowed {
			return status, nil
		}
	}
	return "", NewValidationError("status", "unknown order status", s)
}

// DashboardFilter selects which orders the admin dashboard shows.
type DashboardFilter string

const (
	FilterAll     DashboardFilter = "all"
	FilterPaid    DashboardFilter = "paid"
	FilterShipped DashboardFilter = "shipped"
)

var DashboardFilters = []DashboardFilter{FilterAll, FilterPaid, FilterShipped}

// ParseDashboardFilter never fails: anything unrecognised shows all orders.
func ParseDashboardFilter(s string) DashboardFilter {
	f := DashboardFilter(strings.ToLower(strings.TrimSpace(s)))
	for _, allowed := range DashboardFilters {
		if f == allowed {
			return f
		}
	}
	return FilterAll
}

// Status returns the order status the filter matches and false for FilterAll.
func (f DashboardFilter) Status() (OrderStatus, bool) {
	if f == FilterAll {
		return "", false
	}
	return OrderStatus(f), true
}

type Address struct {
	Line1      string `json:"line1,omitempty" dynamodbav:"line1,omitempty"`
	Line2      string `json:"line2,omitempty" dynamodbav:"line2,omitempty"`
	City       string `json:"city,omitempty" dynamodbav:"city,omitempty"`
	State      string `json:"state,omitempty" dynamodbav:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty" dynamodbav:"postal_code,omitempty"`
	Country    string `json:"country,omitempty" dynamodbav:"country,omitempty"`
}

func (a Address) IsZero() bool {
	return a == Address{}
}

type Order struct {
	ID                    string      `json:"id" dynamodbav:"id"`
	StripeSessionID       string      `json:"stripe_session_id" dynamodbav:"stripe_session_id"`
	StripePaymentIntentID string      `json:"stripe_payment_intent_id,omitempty" dynamodbav:"stripe_payment_intent_id,omitempty"`
	CustomerEmail         string      `json:"customer_email,omitempty" dynamodbav:"customer_email,omitempty"`
	ShippingName          string      `json:"shipping_name,omitempty" dynamodbav:"shipping_name,omitempty"`
	ShippingAddress       *Address    `json:"shipping_address,omitempty" dynamodbav:"shipping_address,omitempty"`
	AmountSubtotal        int64       `json:"amount_subtotal" dynamodbav:"amount_subtotal"`
	AmountShipping        int64       `json:"amount_shipping" dynamodbav:"amount_shipping"`
	AmountTotal           int64       `json:"amount_total" dynamodbav:"amount_total"`
	Currency              string      `json:"currency" dynamodbav:"currency"`
	Status                OrderStatus `json:"status" dynamodbav:"status"`
	ItemCount             int         `json:"item_count" dynamodbav:"item_count"`
	CreatedAt             time.Time   `json:"created_at" dynamodbav:"created_at"`
}

type OrderItem struct {
	OrderID   string `json:"order_id" dynamodbav:"order_id"`
	Position  int    `json:"position" dynamodbav:"position"`
	PriceRef  string `json:"stripe_price_id" dynamodbav:"stripe_price_id"`
	Name      string `json:"name" dynamodbav:"name"`
	UnitPrice int64  `json:"unit_price" dynamodbav:"unit_price"`
	Quantity  int64  `json:"quantity" dynamodbav:"quantity"`
	LineTotal int64  `json:"line_total" dynamodbav:"line_total"`
	Grind     Grind  `json:"grind" dynamodbav:"grind"`
}
