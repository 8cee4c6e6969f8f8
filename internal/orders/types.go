package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/imrishuroy/bakery-storefront/internal/pricing"
)

// PaymentCOD is the only supported payment method.
const PaymentCOD = "cod"

// User is a customer, identified by phone and created lazily on first order.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Order is a placed order. Items and pricing are a snapshot fixed at creation;
// only Status changes afterwards.
type Order struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber   string             `gorm:"type:varchar(20);uniqueIndex;not null" json:"orderNumber"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"userId"`
	User          User               `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name          string             `gorm:"not null" json:"name"`
	Phone         string             `gorm:"type:varchar(10);not null" json:"phone"`
	Email         string             `json:"email,omitempty"`
	Address       string             `gorm:"not null" json:"address"`
	Area          string             `gorm:"not null" json:"area"`
	Landmark      string             `json:"landmark,omitempty"`
	Pincode       string             `gorm:"type:varchar(6);not null" json:"pincode"`
	DeliveryDate  string             `gorm:"not null" json:"deliveryDate"`
	DeliveryTime  string             `gorm:"not null" json:"deliveryTime"`
	Instructions  string             `json:"instructions,omitempty"`
	FreeCandle    bool               `json:"freeCandle"`
	Items         []pricing.LineItem `gorm:"type:jsonb;serializer:json;not null" json:"items"`
	Subtotal      int64              `gorm:"not null" json:"subtotal"`
	DeliveryFee   int64              `gorm:"not null" json:"deliveryFee"`
	Tax           int64              `gorm:"not null" json:"tax"`
	TotalPrice    int64              `gorm:"not null" json:"totalPrice"`
	PaymentMethod string             `gorm:"type:varchar(16);not null" json:"paymentMethod"`
	Status        Status             `gorm:"type:varchar(32);not null;index" json:"status"`
	CreatedAt     time.Time          `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Pricing returns the order's stored pricing summary.
func (o *Order) Pricing() pricing.Summary {
	return pricing.Summary{
		Subtotal:    o.Subtotal,
		DeliveryFee: o.DeliveryFee,
		Tax:         o.Tax,
		GrandTotal:  o.TotalPrice,
	}
}
