package payment

import (
	"errors"
	"testing"
	"time"

	"github.com/fourways-coffee/storefront/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

const testSecret = "whsec_test_secret"

func testShipping() config.Shipping {
	return config.Shipping{
		Country:         "GB",
		Amount:          355,
		Currency:        "gbp",
		DisplayName:     "Royal Mail Tracked 48",
		MinBusinessDays: 3,
		MaxBusinessDays: 5,
	}
}

func newTestGateway(t *testing.T) *StripeGateway {
	t.Helper()
	g, err := NewStripeGateway("sk_test", testSecret, testShipping())
	require.NoError(t, err)
	return g
}

func sign(t *testing.T, payload string, secret string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

const completedEvent = `{
  "id": "evt_1",
  "object": "event",
  "api_version": "2020-08-27",
  "type": "checkout.session.completed",
  "data": {
    "object": {
      "id": "cs_test_1",
      "object": "checkout.session",
      "payment_intent": "pi_1",
      "amount_subtotal": 3900,
      "amount_total": 4255,
      "currency": "gbp",
      "metadata": {"cart_snapshot": "price_a:2:filter|price_b:1:espresso"},
      "customer_details": {
        "email": "buyer@example.com",
        "name": "Payer Name",
        "address": {"line1": "1 Billing St", "city": "Leeds", "postal_code": "LS1 1AA", "country": "GB"}
      },
      "collected_information": {
        "shipping_details": {
          "name": "Ship To",
          "address": {"line1": "40 Roast Road", "line2": null, "city": "Birmingham", "postal_code": "B31 1NG", "country": "GB", "state": null}
        }
      },
      "total_details": {"amount_discount": 0, "amount_shipping": 355, "amount_tax": 0}
    }
  }
}`

func TestVerifyEventCheckoutCompleted(t *testing.T) {
	g := newTestGateway(t)

	ev, err := g.VerifyEvent([]byte(completedEvent), sign(t, completedEvent, testSecret))
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutSessionCompleted, ev.Type)
	require.NotNil(t, ev.Session)

	cs := ev.Session
	assert.Equal(t, "cs_test_1", cs.ID)
	assert.Equal(t, "pi_1", cs.PaymentIntent)
	assert.Equal(t, int64(4255), cs.AmountTotal)
	assert.Equal(t, int64(355), cs.AmountShipping())
	assert.Equal(t, "buyer@example.com", cs.CustomerEmail())
	assert.Equal(t, "price_a:2:filter|price_b:1:espresso", cs.Snapshot())
	assert.Equal(t, "Ship To", cs.ShippingName())
	require.NotNil(t, cs.ShippingAddress())
	assert.Equal(t, "40 Roast Road", cs.ShippingAddress().Line1)
}

func TestVerifyEventRejectsBadSignature(t *testing.T) {
	g := newTestGateway(t)

	_, err := g.VerifyEvent([]byte(completedEvent), sign(t, completedEvent, "whsec_other"))
	assert.True(t, errors.Is(err, ErrInvalidSignature))

	_, err = g.VerifyEvent([]byte(completedEvent), "")
	assert.True(t, errors.Is(err, ErrInvalidSignature))

	tampered := completedEvent[:len(completedEvent)-1] + " }"
	_, err = g.VerifyEvent([]byte(tampered), sign(t, completedEvent, testSecret))
	assert.True(t, errors.Is(err, ErrInvalidSignature))
}

func TestNewStripeGatewayRequiresWebhookSecret(t *testing.T) {
	g, err := NewStripeGateway("sk_test", "", testShipping())
	assert.ErrorIs(t, err, ErrMissingWebhookSecret)
	assert.Nil(t, g)
}

func TestVerifyEventRejectsEmptySecret(t *testing.T) {
	// an event signed with an empty key must never verify
	g := &StripeGateway{shipping: testShipping()}

	ev, err := g.VerifyEvent([]byte(completedEvent), sign(t, completedEvent, ""))
	assert.ErrorIs(t, err, ErrMissingWebhookSecret)
	assert.Nil(t, ev.Session)
}

func TestVerifyEventOtherTypes(t *testing.T) {
	g := newTestGateway(t)
	payload := `{"id":"evt_2","object":"event","type":"payment_intent.created","data":{"object":{"id":"pi_1"}}}`

	ev, err := g.VerifyEvent([]byte(payload), sign(t, payload, testSecret))
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.created", ev.Type)
	assert.Nil(t, ev.Session)
}

func TestShippingFallbacks(t *testing.T) {
	t.Run("legacy shipping_details", func(t *testing.T) {
		cs := CheckoutSession{
			ShippingDetails: &ShippingDetails{Name: "Legacy", Address: &Address{Line1: "2 Old St"}},
			CustomerDetails: &CustomerDetails{Name: "Payer"},
		}
		assert.Equal(t, "Legacy", cs.ShippingName())
		assert.Equal(t, "2 Old St", cs.ShippingAddress().Line1)
	})

	t.Run("customer details", func(t *testing.T) {
		cs := CheckoutSession{
			CustomerDetails: &CustomerDetails{Name: "Payer", Address: &Address{Line1: "3 Pay St"}},
		}
		assert.Equal(t, "Payer", cs.ShippingName())
		assert.Equal(t, "3 Pay St", cs.ShippingAddress().Line1)
	})

	t.Run("nothing collected", func(t *testing.T) {
		var cs CheckoutSession
		assert.Empty(t, cs.ShippingName())
		assert.Nil(t, cs.ShippingAddress())
		assert.Empty(t, cs.CustomerEmail())
		assert.Empty(t, cs.Snapshot())
	})
}

func TestCheckoutParams(t *testing.T) {
	g := newTestGateway(t)

	params := g.checkoutParams(CheckoutRequest{
		LineItems: []LineItem{
			{PriceRef: "price_a", Quantity: 3},
			{PriceRef: "price_b", Quantity: 1},
		},
		Snapshot:   "price_a:2:filter|price_a:1:espresso|price_b:1:whole_beans",
		SuccessURL: "https://shop.example/success",
		CancelURL:  "https://shop.example/",
	})

	assert.Equal(t, string(stripe.CheckoutSessionModePayment), stripe.StringValue(params.Mode))
	require.Len(t, params.LineItems, 2)
	assert.Equal(t, "price_a", stripe.StringValue(params.LineItems[0].Price))
	assert.Equal(t, int64(3), stripe.Int64Value(params.LineItems[0].Quantity))
	assert.Equal(t, "price_a:2:filter|price_a:1:espresso|price_b:1:whole_beans", params.Metadata[SnapshotMetadataKey])
	require.Len(t, params.ShippingAddressCollection.AllowedCountries, 1)
	assert.Equal(t, "GB", stripe.StringValue(params.ShippingAddressCollection.AllowedCountries[0]))

	require.Len(t, params.ShippingOptions, 1)
	rate := params.ShippingOptions[0].ShippingRateData
	assert.Equal(t, int64(355), stripe.Int64Value(rate.FixedAmount.Amount))
	assert.Equal(t, "gbp", stripe.StringValue(rate.FixedAmount.Currency))
	assert.Equal(t, "Royal Mail Tracked 48", stripe.StringValue(rate.DisplayName))
	assert.Equal(t, int64(3), stripe.Int64Value(rate.DeliveryEstimate.Minimum.Value))
	assert.Equal(t, int64(5), stripe.Int64Value(rate.DeliveryEstimate.Maximum.Value))
	assert.Equal(t, "https://shop.example/success", stripe.StringValue(params.SuccessURL))
	assert.Equal(t, "https://shop.example/", stripe.StringValue(params.CancelURL))
}
