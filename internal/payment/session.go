package payment

import "github.com/fourways-coffee/storefront/internal/domain"

// CheckoutSession is the part of a completed Stripe checkout session that
// fulfillment reads. It is decoded from the raw event so fields added by
// newer API versions (collected_information) are still available.
type CheckoutSession struct {
	ID                   string                `json:"id"`
	PaymentIntent        string                `json:"payment_intent"`
	AmountSubtotal       int64                 `json:"amount_subtotal"`
	AmountTotal          int64                 `json:"amount_total"`
	Currency             string                `json:"currency"`
	Metadata             map[string]string     `json:"metadata"`
	CustomerDetails      *CustomerDetails      `json:"customer_details"`
	CollectedInformation *CollectedInformation `json:"collected_information"`
	ShippingDetails      *ShippingDetails      `json:"shipping_details"`
	TotalDetails         *TotalDetails         `json:"total_details"`
}

type CustomerDetails struct {
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Address *Address `json:"address"`
}

type CollectedInformation struct {
	ShippingDetails *ShippingDetails `json:"shipping_details"`
}

type ShippingDetails struct {
	Name    string   `json:"name"`
	Address *Address `json:"address"`
}

type TotalDetails struct {
	AmountShipping int64 `json:"amount_shipping"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (s *CheckoutSession) Snapshot() string {
	return s.Metadata[SnapshotMetadataKey]
}

func (s *CheckoutSession) CustomerEmail() string {
	if s.CustomerDetails == nil {
		return ""
	}
	return s.CustomerDetails.Email
}

func (s *CheckoutSession) AmountShipping() int64 {
	if s.TotalDetails == nil {
		return 0
	}
	return s.TotalDetails.AmountShipping
}

func (s *CheckoutSession) shippingDetails() []*ShippingDetails {
	var out []*ShippingDetails
	if s.CollectedInformation != nil && s.CollectedInformation.ShippingDetails != nil {
		out = append(out, s.CollectedInformation.ShippingDetails)
	}
	if s.ShippingDetails != nil {
		out = append(out, s.ShippingDetails)
	}
	return out
}

// ShippingName prefers the collected shipping name over the payer's name.
func (s *CheckoutSession) ShippingName() string {
	for _, sd := range s.shippingDetails() {
		if sd.Name != "" {
			return sd.Name
		}
	}
	if s.CustomerDetails != nil {
		return s.CustomerDetails.Name
	}
	return ""
}

func (s *CheckoutSession) ShippingAddress() *domain.Address {
	for _, sd := range s.shippingDetails() {
		if sd.Address != nil {
			return sd.Address.toDomain()
		}
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Address != nil {
		return s.CustomerDetails.Address.toDomain()
	}
	return nil
}

func (a *Address) toDomain() *domain.Address {
	return &domain.Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
