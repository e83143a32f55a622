package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"storefront-quiz-service/internal/domain"
	"storefront-quiz-service/internal/metrics"
)

// ShippingFee is charged on any non-empty cart.
const ShippingFee = 15.00

// CartStore is a client's cart, mirrored to key-value storage on every mutation.
// It is owned by a single event loop and is not safe for concurrent use.
type CartStore struct {
	kv      KeyValueStore
	key     string
	catalog ProductLookup
	logger  *zap.Logger
	lines   []domain.CartLine
}

// LoadCart restores the cart stored under key. A missing or unreadable
// snapshot yields an empty cart.
func LoadCart(ctx context.Context, kv KeyValueStore, key string, catalog ProductLookup, logger *zap.Logger) *CartStore {
	c := &CartStore{kv: kv, key: key, catalog: catalog, logger: logger}

	raw, err := kv.Get(ctx, key)
	switch {
	case errors.Is(err, domain.ErrKeyNotFound):
		return c
	case err != nil:
		logger.Warn("cart snapshot unavailable, starting empty", zap.String("key", key), zap.Error(err))
		return c
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		logger.Warn("cart snapshot corrupt, starting empty", zap.String("key", key), zap.Error(err))
		return c
	}
	c.lines = sanitizeLines(lines)
	return c
}

// Add puts qty units of a catalog product in the cart. Unknown products are
// ignored; quantities below 1 count as 1.
func (c *CartStore) Add(ctx context.Context, productID, qty int) error {
	product, ok := c.catalog.Product(productID)
	if !ok {
		return nil
	}
	if qty < 1 {
		qty = 1
	}

	next := c.cloneLines()
	if i := indexOf(next, productID); i >= 0 {
		next[i].Quantity += qty
	} else {
		next = append(next, domain.CartLine{Product: product, Quantity: qty})
	}
	return c.commit(ctx, next)
}

// ChangeQuantity adjusts a line by delta and drops it once it reaches zero.
func (c *CartStore) ChangeQuantity(ctx context.Context, productID, delta int) error {
	i := indexOf(c.lines, productID)
	if i < 0 {
		return nil
	}

	next := c.cloneLines()
	next[i].Quantity += delta
	if next[i].Quantity <= 0 {
		next = append(next[:i], next[i+1:]...)
	}
	return c.commit(ctx, next)
}

// Remove deletes a line regardless of its quantity.
func (c *CartStore) Remove(ctx context.Context, productID int) error {
	i := indexOf(c.lines, productID)
	if i < 0 {
		return nil
	}
	next := c.cloneLines()
	next = append(next[:i], next[i+1:]...)
	return c.commit(ctx, next)
}

// Clear empties the cart.
func (c *CartStore) Clear(ctx context.Context) error {
	return c.commit(ctx, []domain.CartLine{})
}

// Lines returns a copy of the cart contents in insertion order.
func (c *CartStore) Lines() []domain.CartLine {
	return c.cloneLines()
}

// Totals computes item count, subtotal, shipping and grand total.
func (c *CartStore) Totals() domain.CartTotals {
	return ComputeTotals(c.lines)
}

// ComputeTotals prices a set of cart lines.
func ComputeTotals(lines []domain.CartLine) domain.CartTotals {
	var totals domain.CartTotals
	for _, line := range lines {
		totals.ItemCount += line.Quantity
		totals.Subtotal += line.Price * float64(line.Quantity)
	}
	totals.Subtotal = roundCents(totals.Subtotal)
	if totals.Subtotal > 0 {
		totals.Shipping = ShippingFee
		totals.Total = roundCents(totals.Subtotal + ShippingFee)
	}
	return totals
}

// commit persists next and only then makes it the current cart, so a failed
// write leaves both copies at the prior snapshot.
func (c *CartStore) commit(ctx context.Context, next []domain.CartLine) error {
	if next == nil {
		next = []domain.CartLine{}
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := c.kv.Set(ctx, c.key, raw); err != nil {
		metrics.PersistFailures.WithLabelValues("cart").Inc()
		return fmt.Errorf("persist cart: %w", err)
	}
	c.lines = next
	return nil
}

func (c *CartStore) cloneLines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func indexOf(lines []domain.CartLine, productID int) int {
	for i := range lines {
		if lines[i].ID == productID {
			return i
		}
	}
	return -1
}

// sanitizeLines drops stored lines that break the quantity invariant and
// merges duplicate product ids.
func sanitizeLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		if i := indexOf(out, line.ID); i >= 0 {
			out[i].Quantity += line.Quantity
			continue
		}
		out = append(out, line)
	}
	return out
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
