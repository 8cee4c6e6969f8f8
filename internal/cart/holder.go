package cart

import (
	"context"
	"fmt"

	"github.com/imrishuroy/bakery-storefront/internal/pricing"
)

// Holder is the cart state container. Each operation loads the session's cart,
// applies one mutation and persists it; concurrent writers to one session are last-write-wins.
type Holder struct {
	store Store
}

// NewHolder returns a Holder over store.
func NewHolder(store Store) *Holder {
	return &Holder{store: store}
}

// Get returns the session's cart.
func (h *Holder) Get(ctx context.Context, session string) (*Cart, error) {
	c, err := h.store.Load(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

// AddItem appends item to the session's cart.
func (h *Holder) AddItem(ctx context.Context, session string, item pricing.LineItem) (*Cart, error) {
	return h.update(ctx, session, func(c *Cart) error { return c.AddItem(item) })
}

// RemoveItem removes the entry at index.
func (h *Holder) RemoveItem(ctx context.Context, session string, index int) (*Cart, error) {
	return h.update(ctx, session, func(c *Cart) error { c.RemoveItem(index); return nil })
}

// IncreaseQuantity increments the entry at index.
func (h *Holder) IncreaseQuantity(ctx context.Context, session string, index int) (*Cart, error) {
	return h.update(ctx, session, func(c *Cart) error { c.IncreaseQuantity(index); return nil })
}

// DecreaseQuantity decrements the entry at index, floored at 1.
func (h *Holder) DecreaseQuantity(ctx context.Context, session string, index int) (*Cart, error) {
	return h.update(ctx, session, func(c *Cart) error { c.DecreaseQuantity(index); return nil })
}

// Clear empties the session's cart.
func (h *Holder) Clear(ctx context.Context, session string) error {
	if err := h.store.Delete(ctx, session); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (h *Holder) update(ctx context.Context, session string, mutate func(*Cart) error) (*Cart, error) {
	c, err := h.Get(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := mutate(c); err != nil {
		return nil, err
	}
	if err := h.store.Save(ctx, session, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}
