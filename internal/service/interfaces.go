package service

import (
	"context"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/events"
	"github.com/fourways-coffee/storefront/internal/payment"
)

// CatalogReader is implemented by repository.CatalogRepository.
type CatalogReader interface {
	ListSellable(ctx context.Context) ([]domain.Product, error)
	GetByRef(ctx context.Context, ref string) (domain.Product, error)
	GetByRefs(ctx context.Context, refs []string) (map[string]domain.Product, error)
}

// OrderStore is implemented by repository.OrderRepository.
type OrderStore interface {
	ExistsForSession(ctx context.Context, sessionID string) (bool, error)
	CreateWithItems(ctx context.Context, order domain.Order, items []domain.OrderItem) error
	List(ctx context.Context, filter domain.DashboardFilter) ([]domain.Order, error)
	ItemsForOrders(ctx context.Context, orders []domain.Order) (map[string][]domain.OrderItem, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
}

// InventoryStore is implemented by repository.InventoryRepository.
type InventoryStore interface {
	List(ctx context.Context) ([]domain.InventoryRow, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.InventoryRow, error)
	ApplyRoast(ctx context.Context, adjustments []domain.RoastAdjustment) error
}

type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (string, error)
}

type LineItemLister interface {
	ListLineItems(ctx context.Context, sessionID string) ([]payment.ProcessorLineItem, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event events.OrderEvent) error
}
