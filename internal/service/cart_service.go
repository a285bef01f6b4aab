package service

import (
	"context"
	"fmt"

	"github.com/fourways-coffee/storefront/internal/cart"
	"github.com/fourways-coffee/storefront/internal/domain"
	"go.uber.org/zap"
)

// CartItemView is a cart line joined with its catalog entry.
type CartItemView struct {
	domain.Product
	Grind     domain.Grind `json:"grind"`
	Quantity  int          `json:"quantity"`
	LineTotal int64        `json:"lineTotal"`
}

type CartView struct {
	Items []CartItemView `json:"items"`
	Total int64          `json:"total"`
}

// CartService reconciles session carts against the catalog. The cart page
// and the cart data endpoint both render its output.
type CartService struct {
	catalog CatalogReader
	logger  *zap.Logger
}

func NewCartService(catalog CatalogReader, logger *zap.Logger) *CartService {
	return &CartService{
		catalog: catalog,
		logger:  logger,
	}
}

// Reconcile prices every line with one catalog lookup. Lines whose product
// is no longer in the catalog are left out.
func (s *CartService) Reconcile(ctx context.Context, c cart.Cart) (CartView, error) {
	view := CartView{Items: make([]CartItemView, 0, len(c.Lines))}
	if c.IsEmpty() {
		return view, nil
	}

	products, err := s.catalog.GetByRefs(ctx, c.Refs())
	if err != nil {
		return CartView{}, fmt.Errorf("failed to load cart products: %w", err)
	}

	for _, line := range c.Lines {
		p, ok := products[line.ProductRef]
		if !ok {
			s.logger.Debug("Dropping cart line for unknown product",
				zap.String("product_ref", line.ProductRef))
			continue
		}
		item := CartItemView{
			Product:   p,
			Grind:     line.Grind.OrDefault(),
			Quantity:  line.Quantity,
			LineTotal: p.Price250 * int64(line.Quantity),
		}
		view.Items = append(view.Items, item)
		view.Total += item.LineTotal
	}
	return view, nil
}
