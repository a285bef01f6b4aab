package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fourways-coffee/storefront/internal/cart"
	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/events"
	"github.com/fourways-coffee/storefront/internal/payment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Outcome int

const (
	Fulfilled Outcome = iota
	AlreadyFulfilled
)

func (o Outcome) String() string {
	if o == AlreadyFulfilled {
		return "already_fulfilled"
	}
	return "fulfilled"
}

// FulfillmentService turns completed checkout sessions into orders. It is
// safe to call repeatedly for the same session.
type FulfillmentService struct {
	catalog   CatalogReader
	orders    OrderStore
	lineItems LineItemLister
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewFulfillmentService(catalog CatalogReader, orders OrderStore, lineItems LineItemLister, publisher EventPublisher, logger *zap.Logger) *FulfillmentService {
	return &FulfillmentService{
		catalog:   catalog,
		orders:    orders,
		lineItems: lineItems,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *FulfillmentService) Fulfill(ctx context.Context, cs *payment.CheckoutSession, requestID string) (Outcome, error) {
	if cs == nil || cs.ID == "" {
		return Fulfilled, domain.NewValidationError("session", "checkout session has no id", nil)
	}

	exists, err := s.orders.ExistsForSession(ctx, cs.ID)
	if err != nil {
		return Fulfilled, err
	}
	if exists {
		s.logger.Info("Order already recorded for session", zap.String("session_id", cs.ID))
		return AlreadyFulfilled, nil
	}

	order := domain.Order{
		ID:                    uuid.New().String(),
		StripeSessionID:       cs.ID,
		StripePaymentIntentID: cs.PaymentIntent,
		CustomerEmail:         cs.CustomerEmail(),
		ShippingName:          cs.ShippingName(),
		ShippingAddress:       cs.ShippingAddress(),
		AmountSubtotal:        cs.AmountSubtotal,
		AmountShipping:        cs.AmountShipping(),
		AmountTotal:           cs.AmountTotal,
		Currency:              cs.Currency,
		Status:                domain.OrderStatusPaid,
		CreatedAt:             s.now().UTC(),
	}

	items, err := s.resolveItems(ctx, cs, order.ID)
	if err != nil {
		s.logger.Error("Failed to resolve order items",
			zap.String("session_id", cs.ID),
			zap.Error(err))
		return Fulfilled, err
	}
	order.ItemCount = len(items)

	if err := s.orders.CreateWithItems(ctx, order, items); err != nil {
		if errors.Is(err, domain.ErrDuplicateOrder) {
			s.logger.Info("Concurrent delivery already recorded session", zap.String("session_id", cs.ID))
			return AlreadyFulfilled, nil
		}
		s.logger.Error("Failed to save order",
			zap.String("order_id", order.ID),
			zap.String("session_id", cs.ID),
			zap.Error(err))
		return Fulfilled, err
	}

	if err := s.publisher.PublishOrderEvent(ctx, events.NewOrderPaidEvent(order, items, requestID)); err != nil {
		// the order is already stored; the event is best effort
		s.logger.Error("Failed to publish event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	s.logger.Info("Order created successfully",
		zap.String("order_id", order.ID),
		zap.String("session_id", cs.ID),
		zap.Int("items", len(items)),
		zap.Int64("amount_total", order.AmountTotal))

	return Fulfilled, nil
}

// resolveItems prefers the cart snapshot, which keeps grinds. When the
// snapshot yields nothing it falls back to the line items the processor
// recorded, all as whole beans.
func (s *FulfillmentService) resolveItems(ctx context.Context, cs *payment.CheckoutSession, orderID string) ([]domain.OrderItem, error) {
	items, err := s.itemsFromSnapshot(ctx, cs.Snapshot(), orderID)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	lineItems, err := s.lineItems.ListLineItems(ctx, cs.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	items = make([]domain.OrderItem, 0, len(lineItems))
	for _, li := range lineItems {
		items = append(items, domain.OrderItem{
			OrderID:   orderID,
			Position:  len(items),
			PriceRef:  li.PriceRef,
			Name:      li.Description,
			UnitPrice: li.UnitAmount,
			Quantity:  li.Quantity,
			LineTotal: li.AmountTotal,
			Grind:     domain.GrindWholeBeans,
		})
	}
	return items, nil
}

func (s *FulfillmentService) itemsFromSnapshot(ctx context.Context, snapshot, orderID string) ([]domain.OrderItem, error) {
	lines := cart.DecodeSnapshot(snapshot)
	if len(lines) == 0 {
		return nil, nil
	}

	c := cart.Cart{Lines: lines}
	products, err := s.catalog.GetByRefs(ctx, c.Refs())
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot products: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		p, ok := products[line.ProductRef]
		if !ok {
			s.logger.Warn("Snapshot references unknown product", zap.String("product_ref", line.ProductRef))
			continue
		}
		qty := int64(line.Quantity)
		items = append(items, domain.OrderItem{
			OrderID:   orderID,
			Position:  len(items),
			PriceRef:  p.PriceRef,
			Name:      p.Name,
			UnitPrice: p.Price250,
			Quantity:  qty,
			LineTotal: p.Price250 * qty,
			Grind:     line.Grind.OrDefault(),
		})
	}
	return items, nil
}
