package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fourways-coffee/storefront/internal/domain"
)

// MemoryCatalog is a thread-safe in-memory catalog for local runs and tests.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewMemoryCatalog(products ...domain.Product) *MemoryCatalog {
	c := &MemoryCatalog{products: make(map[string]domain.Product)}
	for _, p := range products {
		c.products[p.PriceRef] = p
	}
	return c
}

func (c *MemoryCatalog) PutProduct(ctx context.Context, p domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.PriceRef] = p
	return nil
}

func (c *MemoryCatalog) ListSellable(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.Product
	for _, p := range c.products {
		if p.Sellable() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price250 != out[j].Price250 {
			return out[i].Price250 > out[j].Price250
		}
		return out[i].PriceRef < out[j].PriceRef
	})
	return out, nil
}

func (c *MemoryCatalog) GetByRef(ctx context.Context, ref string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[ref]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (c *MemoryCatalog) GetByRefs(ctx context.Context, refs []string) (map[string]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]domain.Product, len(refs))
	for _, ref := range refs {
		if p, ok := c.products[ref]; ok {
			out[ref] = p
		}
	}
	return out, nil
}

// MemoryOrders keeps orders in memory and enforces one order per checkout session.
type MemoryOrders struct {
	mu        sync.RWMutex
	orders    map[string]domain.Order
	items     map[string][]domain.OrderItem
	bySession map[string]string
}

func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{
		orders:    make(map[string]domain.Order),
		items:     make(map[string][]domain.OrderItem),
		bySession: make(map[string]string),
	}
}

func (s *MemoryOrders) ExistsForSession(ctx context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bySession[sessionID]
	return ok, nil
}

func (s *MemoryOrders) CreateWithItems(ctx context.Context, order domain.Order, items []domain.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bySession[order.StripeSessionID]; ok {
		return domain.ErrDuplicateOrder
	}

	order.ItemCount = len(items)
	stored := make([]domain.OrderItem, len(items))
	for i, item := range items {
		item.OrderID = order.ID
		item.Position = i
		stored[i] = item
	}

	s.bySession[order.StripeSessionID] = order.ID
	s.orders[order.ID] = order
	s.items[order.ID] = stored
	return nil
}

func (s *MemoryOrders) List(ctx context.Context, filter domain.DashboardFilter) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, filtered := filter.Status()
	var out []domain.Order
	for _, o := range s.orders {
		if filtered && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryOrders) ItemsForOrders(ctx context.Context, orders []domain.Order) (map[string][]domain.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]domain.OrderItem, len(orders))
	for _, o := range orders {
		if items, ok := s.items[o.ID]; ok && len(items) > 0 {
			out[o.ID] = append([]domain.OrderItem(nil), items...)
		}
	}
	return out, nil
}

func (s *MemoryOrders) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	o.Status = status
	s.orders[orderID] = o
	return o, nil
}

// Get is a read helper for callers inspecting stored state.
func (s *MemoryOrders) Get(orderID string) (domain.Order, []domain.OrderItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	return o, append([]domain.OrderItem(nil), s.items[orderID]...), ok
}

func (s *MemoryOrders) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// MemoryInventory is an in-memory inventory table.
type MemoryInventory struct {
	mu   sync.RWMutex
	rows map[int64]domain.InventoryRow
}

func NewMemoryInventory(rows ...domain.InventoryRow) *MemoryInventory {
	inv := &MemoryInventory{rows: make(map[int64]domain.InventoryRow)}
	for _, r := range rows {
		inv.rows[r.ID] = r
	}
	return inv
}

func (s *MemoryInventory) PutRow(ctx context.Context, row domain.InventoryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.ID] = row
	return nil
}

func (s *MemoryInventory) List(ctx context.Context) ([]domain.InventoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.InventoryRow, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GreenGrams != out[j].GreenGrams {
			return out[i].GreenGrams > out[j].GreenGrams
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryInventory) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.InventoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]domain.InventoryRow, len(ids))
	for _, id := range ids {
		if r, ok := s.rows[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

// ApplyRoast checks every adjustment before writing any of them.
func (s *MemoryInventory) ApplyRoast(ctx context.Context, adjustments []domain.RoastAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, adj := range adjustments {
		r, ok := s.rows[adj.InventoryID]
		if !ok || r.GreenGrams != adj.ExpectedGreen {
			return domain.ErrInventoryConflict
		}
	}
	for _, adj := range adjustments {
		r := s.rows[adj.InventoryID]
		r.GreenGrams = adj.NewGreenGrams
		r.RoastedGrams = adj.NewRoastedGrams
		s.rows[adj.InventoryID] = r
	}
	return nil
}
