// Package payment talks to Stripe: hosted checkout sessions, their line
// items, and signed webhook events.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fourways-coffee/storefront/pkg/config"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"

	// SnapshotMetadataKey holds the cart snapshot on the checkout session.
	SnapshotMetadataKey = "cart_snapshot"

	maxLineItems = 100
)

var (
	ErrInvalidSignature     = errors.New("webhook signature verification failed")
	ErrMissingWebhookSecret = errors.New("stripe webhook secret is not configured")
)

type LineItem struct {
	PriceRef string
	Quantity int64
}

type CheckoutRequest struct {
	LineItems  []LineItem
	Snapshot   string
	SuccessURL string
	CancelURL  string
}

// ProcessorLineItem is a line item as Stripe recorded it on a completed session.
type ProcessorLineItem struct {
	PriceRef    string
	Description string
	UnitAmount  int64
	Quantity    int64
	AmountTotal int64
}

type StripeGateway struct {
	sessions      *session.Client
	webhookSecret string
	shipping      config.Shipping
}

// NewStripeGateway refuses an empty webhook secret: stripe-go would otherwise
// accept events signed with an empty key.
func NewStripeGateway(secretKey, webhookSecret string, shipping config.Shipping) (*StripeGateway, error) {
	if webhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}
	return &StripeGateway{
		sessions: &session.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: secretKey,
		},
		webhookSecret: webhookSecret,
		shipping:      shipping,
	}, nil
}

// CreateCheckoutSession starts a hosted payment session and returns the URL
// the customer is sent to.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	params := g.checkoutParams(req)
	params.Context = ctx

	s, err := g.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return s.URL, nil
}

func (g *StripeGateway) checkoutParams(req CheckoutRequest) *stripe.CheckoutSessionParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(li.PriceRef),
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:      stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: lineItems,
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{g.shipping.Country}),
		},
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type: stripe.String("fixed_amount"),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(g.shipping.Amount),
						Currency: stripe.String(g.shipping.Currency),
					},
					DisplayName: stripe.String(g.shipping.DisplayName),
					DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
						Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(g.shipping.MinBusinessDays),
						},
						Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(g.shipping.MaxBusinessDays),
						},
					},
				},
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.AddMetadata(SnapshotMetadataKey, req.Snapshot)
	return params
}

// ListLineItems returns up to 100 line items Stripe recorded for a session.
func (g *StripeGateway) ListLineItems(ctx context.Context, sessionID string) ([]ProcessorLineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Limit = stripe.Int64(maxLineItems)
	params.Context = ctx

	var items []ProcessorLineItem
	iter := g.sessions.ListLineItems(params)
	for len(items) < maxLineItems && iter.Next() {
		li := iter.LineItem()
		item := ProcessorLineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			AmountTotal: li.AmountTotal,
		}
		if li.Price != nil {
			item.PriceRef = li.Price.ID
			item.UnitAmount = li.Price.UnitAmount
		}
		items = append(items, item)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list line items for %s: %w", sessionID, err)
	}
	return items, nil
}

// Event is a verified webhook event. Session is set only for
// checkout.session.completed.
type Event struct {
	ID      string
	Type    string
	Session *CheckoutSession
}

// VerifyEvent checks the Stripe-Signature header against the raw payload and
// decodes the event.
func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (Event, error) {
	if g.webhookSecret == "" {
		return Event{}, ErrMissingWebhookSecret
	}
	ev, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := Event{ID: ev.ID, Type: string(ev.Type)}
	if out.Type != EventCheckoutSessionCompleted {
		return out, nil
	}
	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return Event{}, fmt.Errorf("event %s has no data object", ev.ID)
	}

	var cs CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
		return Event{}, fmt.Errorf("failed to decode checkout session in event %s: %w", ev.ID, err)
	}
	out.Session = &cs
	return out, nil
}
