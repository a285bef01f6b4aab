package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fourways-coffee/storefront/internal/cart"
	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/payment"
	"go.uber.org/zap"
)

// ErrEmptyCart means there is nothing to check out.
var ErrEmptyCart = errors.New("cart is empty")

type CheckoutService struct {
	catalog CatalogReader
	gateway CheckoutGateway
	logger  *zap.Logger
}

func NewCheckoutService(catalog CatalogReader, gateway CheckoutGateway, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		catalog: catalog,
		gateway: gateway,
		logger:  logger,
	}
}

// Start opens a hosted checkout for the cart and returns its URL. Line items
// are aggregated per product; the snapshot keeps the per-grind lines.
func (s *CheckoutService) Start(ctx context.Context, c cart.Cart, baseURL string) (string, error) {
	if c.IsEmpty() {
		return "", ErrEmptyCart
	}
	aggregated := c.Aggregate()
	if len(aggregated) == 0 {
		return "", ErrEmptyCart
	}

	refs := make([]string, 0, len(aggregated))
	for _, pq := range aggregated {
		refs = append(refs, pq.ProductRef)
	}
	products, err := s.catalog.GetByRefs(ctx, refs)
	if err != nil {
		return "", fmt.Errorf("failed to load products for checkout: %w", err)
	}

	lineItems := make([]payment.LineItem, 0, len(aggregated))
	for _, pq := range aggregated {
		p, ok := products[pq.ProductRef]
		if !ok {
			s.logger.Warn("Skipping unknown product at checkout", zap.String("product_ref", pq.ProductRef))
			continue
		}
		lineItems = append(lineItems, payment.LineItem{
			PriceRef: p.PriceRef,
			Quantity: int64(pq.Quantity),
		})
	}
	if len(lineItems) == 0 {
		return "", domain.NewValidationError("cart", "Unable to create checkout for current cart.", len(c.Lines))
	}

	snapshot := cart.EncodeSnapshot(c.Lines)
	if len(snapshot) > cart.MaxSnapshotLength {
		return "", domain.NewValidationError("cart", "Cart has too many grind selections to process in one checkout.", len(snapshot))
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		LineItems:  lineItems,
		Snapshot:   snapshot,
		SuccessURL: baseURL + "/success",
		CancelURL:  baseURL + "/",
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("Checkout session created",
		zap.Int("line_items", len(lineItems)),
		zap.Int("cart_lines", len(c.Lines)))
	return url, nil
}
