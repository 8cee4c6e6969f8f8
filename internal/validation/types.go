package validation

import "github.com/imrishuroy/bakery-storefront/internal/pricing"

// CheckoutForm is the customer's delivery details at checkout.
type CheckoutForm struct {
	Name         string `json:"name" validate:"notblank"`
	Phone        string `json:"phone" validate:"mobile"`
	Email        string `json:"email,omitempty" validate:"omitempty,looseemail"`
	Address      string `json:"address" validate:"notblank"`
	Area         string `json:"area" validate:"notblank"`
	Landmark     string `json:"landmark,omitempty"`
	Pincode      string `json:"pincode" validate:"pincode"`
	DeliveryDate string `json:"deliveryDate" validate:"notblank"` // presence only; the date picker enforces >= today
	DeliveryTime string `json:"deliveryTime" validate:"notblank"`
	Instructions string `json:"instructions,omitempty"`
	FreeCandle   bool   `json:"freeCandle"`
}

// CreateOrderRequest is the payload for POST /orders: the checkout form flattened
// alongside the cart snapshot and the pricing the client displayed.
type CreateOrderRequest struct {
	CheckoutForm
	Items   []pricing.LineItem `json:"items"`
	Pricing *pricing.Summary   `json:"pricing,omitempty"`
}

// StatusRequest is the payload for admin status changes.
type StatusRequest struct {
	Status string `json:"status" validate:"notblank"`
}

// CancelRequest is the payload for customer self-service cancellation.
type CancelRequest struct {
	Phone string `json:"phone" validate:"mobile"`
}

// EnquiryRequest is the payload for POST /customize-cake. Only phone is required.
type EnquiryRequest struct {
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone" validate:"mobile"`
	Email        string `json:"email,omitempty" validate:"omitempty,looseemail"`
	Occasion     string `json:"occasion,omitempty"`
	Budget       string `json:"budget,omitempty"`
	DeliveryDate string `json:"deliveryDate,omitempty"`
	Message      string `json:"message,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// ProductRequest is the payload for creating or replacing a product.
type ProductRequest struct {
	Title          string           `json:"title" validate:"notblank"`
	Description    string           `json:"description,omitempty"`
	Category       string           `json:"category" validate:"notblank"`
	Sizes          map[string]int64 `json:"sizes" validate:"required,min=1,dive,keys,notblank,endkeys,gte=0,lte=1000000"`
	Flavors        []string         `json:"flavors,omitempty" validate:"dive,notblank"`
	Images         []string         `json:"images,omitempty" validate:"dive,url"`
	IsCustomizable bool             `json:"isCustomizable"`
	IsPhotoCake    bool             `json:"isPhotoCake"`
}
