package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fourways-coffee/storefront/internal/domain"
	"github.com/fourways-coffee/storefront/internal/events"
	"github.com/fourways-coffee/storefront/internal/payment"
	"github.com/fourways-coffee/storefront/internal/repository"
)

var (
	ethiopia = domain.Product{
		ID:              "c-1",
		Name:            "Ethiopia Guji",
		Origin:          "Ethiopia",
		Price250:        1200,
		PriceRef:        "price_eth",
		Available:       true,
		RetailAvailable: true,
	}
	colombia = domain.Product{
		ID:              "c-2",
		Name:            "Colombia Huila",
		Origin:          "Colombia",
		Price250:        1500,
		PriceRef:        "price_col",
		Available:       true,
		RetailAvailable: true,
	}
)

func testCatalog() *repository.MemoryCatalog {
	return repository.NewMemoryCatalog(ethiopia, colombia)
}

type fakeGateway struct {
	mu        sync.Mutex
	requests  []payment.CheckoutRequest
	url       string
	err       error
	lineItems []payment.ProcessorLineItem
	listCalls int
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	return g.url, g.err
}

func (g *fakeGateway) ListLineItems(ctx context.Context, sessionID string) ([]payment.ProcessorLineItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	return g.lineItems, g.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(ctx context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Events() []events.OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.OrderEvent(nil), p.events...)
}

var errBoom = errors.New("boom")

// failingCatalog fails every lookup.
type failingCatalog struct{}

func (failingCatalog) ListSellable(ctx context.Context) ([]domain.Product, error) {
	return nil, errBoom
}

func (failingCatalog) GetByRef(ctx context.Context, ref string) (domain.Product, error) {
	return domain.Product{}, errBoom
}

func (failingCatalog) GetByRefs(ctx context.Context, refs []string) (map[string]domain.Product, error) {
	return nil, errBoom
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
