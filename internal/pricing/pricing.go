// Package pricing computes cart and order totals. All amounts are whole rupees.
package pricing

const (
	// FreeDeliveryThreshold is the subtotal at or above which delivery is free.
	FreeDeliveryThreshold int64 = 500
	// DeliveryFee is charged below FreeDeliveryThreshold.
	DeliveryFee int64 = 80
	// TaxPercent is GST applied to the subtotal.
	TaxPercent int64 = 5

	// MaxUnitPrice, MaxQuantity and MaxItems bound a cart so totals stay far below int64 range.
	MaxUnitPrice int64 = 1_000_000
	MaxQuantity        = 999
	MaxItems           = 50
)

// LineItem is one product configuration and quantity within a cart or order snapshot.
type LineItem struct {
	ProductID string `json:"productId" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Size      string `json:"size"`
	Flavor    string `json:"flavor"`
	UnitPrice int64  `json:"unitPrice" validate:"gte=0,lte=1000000"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=999"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Total is UnitPrice × Quantity.
func (li LineItem) Total() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// InBounds reports whether the item's price and quantity are within the accepted range.
func (li LineItem) InBounds() bool {
	return li.UnitPrice >= 0 && li.UnitPrice <= MaxUnitPrice &&
		li.Quantity >= 1 && li.Quantity <= MaxQuantity
}

// Summary is the derived pricing of a set of line items.
type Summary struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"deliveryFee"`
	Tax         int64 `json:"tax"`
	GrandTotal  int64 `json:"grandTotal"`
}

// Subtotal sums UnitPrice × Quantity over items.
func Subtotal(items []LineItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Total()
	}
	return sum
}

// DeliveryFeeFor returns 0 when subtotal reaches the free-delivery threshold, else the flat fee.
func DeliveryFeeFor(subtotal int64) int64 {
	if subtotal >= FreeDeliveryThreshold {
		return 0
	}
	return DeliveryFee
}

// TaxFor returns round(subtotal × 5%), rounding halves up (22.5 → 23).
func TaxFor(subtotal int64) int64 {
	return (subtotal*TaxPercent + 50) / 100
}

// Calculate prices items. It is deterministic and has no side effects.
func Calculate(items []LineItem) Summary {
	subtotal := Subtotal(items)
	fee := DeliveryFeeFor(subtotal)
	tax := TaxFor(subtotal)
	return Summary{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		GrandTotal:  subtotal + fee + tax,
	}
}
