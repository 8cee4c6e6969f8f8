// Package cart holds a client's line items between browsing and checkout.
package cart

import (
	"errors"

	"github.com/imrishuroy/bakery-storefront/internal/pricing"
)

var (
	// ErrInvalidItem is returned when a line item's price or quantity is out of range.
	ErrInvalidItem = errors.New("invalid line item")
	// ErrCartFull is returned when the cart already holds pricing.MaxItems entries.
	ErrCartFull = errors.New("cart is full")
)

// Cart is an ordered sequence of line items. Insertion order is preserved.
type Cart struct {
	Items []pricing.LineItem `json:"items"`
}

// AddItem appends item. Identical product/size/flavor entries are not merged.
func (c *Cart) AddItem(item pricing.LineItem) error {
	if !item.InBounds() {
		return ErrInvalidItem
	}
	if len(c.Items) >= pricing.MaxItems {
		return ErrCartFull
	}
	c.Items = append(c.Items, item)
	return nil
}

// RemoveItem removes the entry at index; out-of-range indexes are ignored.
func (c *Cart) RemoveItem(index int) {
	if !c.inRange(index) {
		return
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
}

// IncreaseQuantity adds one to the entry at index, stopping at pricing.MaxQuantity.
func (c *Cart) IncreaseQuantity(index int) {
	if !c.inRange(index) || c.Items[index].Quantity >= pricing.MaxQuantity {
		return
	}
	c.Items[index].Quantity++
}

// DecreaseQuantity subtracts one from the entry at index, never going below 1.
func (c *Cart) DecreaseQuantity(index int) {
	if !c.inRange(index) || c.Items[index].Quantity <= 1 {
		return
	}
	c.Items[index].Quantity--
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Total is Σ unitPrice × quantity, recomputed on every call.
func (c *Cart) Total() int64 {
	return pricing.Subtotal(c.Items)
}

// Summary prices the cart the same way checkout does.
func (c *Cart) Summary() pricing.Summary {
	return pricing.Calculate(c.Items)
}

// Len returns the number of entries.
func (c *Cart) Len() int {
	return len(c.Items)
}

func (c *Cart) inRange(index int) bool {
	return index >= 0 && index < len(c.Items)
}
