package service

import (
	"context"
	"fmt"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dashboard is everything the admin orders page renders.
type Dashboard struct {
	Orders          []domain.Order
	ItemsByOrderID  map[string][]domain.OrderItem
	SelectedFilter  domain.DashboardFilter
	Filters         []domain.DashboardFilter
	AllowedStatuses []domain.OrderStatus
}

type OrderAdminService struct {
	orders    OrderStore
	publisher EventPublisher
	logger    *zap.Logger
}

func NewOrderAdminService(orders OrderStore, publisher EventPublisher, logger *zap.Logger) *OrderAdminService {
	return &OrderAdminService{
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *OrderAdminService) Dashboard(ctx context.Context, filter domain.DashboardFilter) (Dashboard, error) {
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to list orders: %w", err)
	}
	items, err := s.orders.ItemsForOrders(ctx, orders)
	if err != nil {
		return Dashboard{}, fmt.Errorf("failed to load order items: %w", err)
	}
	return Dashboard{
		Orders:          orders,
		ItemsByOrderID:  items,
		SelectedFilter:  filter,
		Filters:         domain.DashboardFilters,
		AllowedStatuses: domain.OrderStatuses,
	}, nil
}

// UpdateStatus sets an order's status. The id must be a UUID and the status
// one of domain.OrderStatuses; otherwise nothing is written.
func (s *OrderAdminService) UpdateStatus(ctx context.Context, orderID, rawStatus, requestID string) (domain.Order, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return domain.Order{}, domain.NewValidationError("id", "invalid order id", orderID)
	}
	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.publisher.PublishOrderEvent(ctx, events.NewStatusChangedEvent(order, requestID)); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID),
		zap.String("status", string(status)))
	return order, nil
}
