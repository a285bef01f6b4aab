// Package cart holds the per-session basket and the snapshot format that
// carries it through the payment processor.
package cart

import (
	"errors"
	"strings"

	"github.com/fourways-coffee/storefront/internal/domain"
)

var ErrLineNotFound = errors.New("item not found in cart")

// Line is one (product, grind) entry. Quantity is at least 1 while the line
// is in a cart.
type Line struct {
	ProductRef string
	Quantity   int
	Grind      domain.Grind
}

// Cart is owned by a single session and is passed by value through a request.
type Cart struct {
	Lines []Line
}

type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// NormalizeRef trims a product reference and rejects blank ones.
func NormalizeRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", domain.NewValidationError("coffeeId", "must not be empty", ref)
	}
	return ref, nil
}

func (c *Cart) index(ref string, grind domain.Grind) int {
	for i, l := range c.Lines {
		if l.ProductRef == ref && l.Grind.OrDefault() == grind {
			return i
		}
	}
	return -1
}

func (c *Cart) Add(ref string, grind domain.Grind) {
	if i := c.index(ref, grind); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	c.Lines = append(c.Lines, Line{ProductRef: ref, Quantity: 1, Grind: grind})
}

// Update moves a line's quantity by one. A line decreased to zero is removed.
func (c *Cart) Update(ref string, grind domain.Grind, dir Direction) error {
	i := c.index(ref, grind)
	if i < 0 {
		return ErrLineNotFound
	}

	switch dir {
	case Increase:
		c.Lines[i].Quantity++
	case Decrease:
		c.Lines[i].Quantity--
		if c.Lines[i].Quantity <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		}
	default:
		return domain.NewValidationError("action", "must be increase or decrease", dir)
	}
	return nil
}

func (c *Cart) Remove(ref string, grind domain.Grind) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductRef == ref && l.Grind.OrDefault() == grind {
			continue
		}
		kept = append(kept, l)
	}
	c.Lines = kept
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Count is the total quantity across all lines.
func (c Cart) Count() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// Refs returns the distinct product references in first-seen order.
func (c Cart) Refs() []string {
	seen := make(map[string]struct{}, len(c.Lines))
	refs := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		if _, ok := seen[l.ProductRef]; ok {
			continue
		}
		seen[l.ProductRef] = struct{}{}
		refs = append(refs, l.ProductRef)
	}
	return refs
}

// ProductQuantity is a cart total for one product across all grinds.
type ProductQuantity struct {
	ProductRef string
	Quantity   int
}

// Aggregate sums quantities per product, keeping first-seen order. Lines with
// no reference or a non-positive quantity are skipped.
func (c Cart) Aggregate() []ProductQuantity {
	totals := make(map[string]int)
	var order []string
	for _, l := range c.Lines {
		if l.ProductRef == "" || l.Quantity <= 0 {
			continue
		}
		if _, ok := totals[l.ProductRef]; !ok {
			order = append(order, l.ProductRef)
		}
		totals[l.ProductRef] += l.Quantity
	}

	out := make([]ProductQuantity, 0, len(order))
	for _, ref := range order {
		out = append(out, ProductQuantity{ProductRef: ref, Quantity: totals[ref]})
	}
	return out
}
