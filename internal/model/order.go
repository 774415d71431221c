package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// statusTransitions is the enforced state machine. Delivered and cancelled
// are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s
func (s OrderStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransitionTo reports whether the state machine permits moving from s
// to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ShippingAddress is embedded into the order at creation time. It is a copy,
// not a reference to the user's saved addresses.
type ShippingAddress struct {
	Name    string `json:"name" gorm:"type:varchar(50)"`
	Street  string `json:"street" gorm:"type:varchar(255)"`
	City    string `json:"city" gorm:"type:varchar(100)"`
	State   string `json:"state" gorm:"type:varchar(100)"`
	Zip     string `json:"zip" gorm:"type:varchar(20)"`
	Country string `json:"country" gorm:"type:varchar(100)"`
	Phone   string `json:"phone,omitempty" gorm:"type:varchar(30)"`
}

// PaymentInfo records the external gateway reference for an order
type PaymentInfo struct {
	ID     string `json:"id" gorm:"type:varchar(100)"`
	Status string `json:"status" gorm:"type:varchar(30)"`
	Method string `json:"method" gorm:"type:varchar(30);default:'card'"`
}

// OrderItem is an immutable snapshot of a product at order time. Later
// catalog edits never change historical orders.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	OrderID   uint            `json:"-" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"not null"`
	Name      string          `json:"name" gorm:"type:varchar(200);not null"`
	Image     string          `json:"image" gorm:"type:varchar(255)"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
}

// Order is created atomically with its line items and the matching stock
// mutations. Orders are hard-deleted by admin action only.
type Order struct {
	ID              uint            `json:"id" gorm:"primarykey"`
	UserID          uint            `json:"user_id" gorm:"index;not null"`
	User            *User           `json:"user,omitempty"`
	Items           []OrderItem     `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:ship_"`
	PaymentInfo     PaymentInfo     `json:"payment_info" gorm:"embedded;embeddedPrefix:payment_"`
	ItemsPrice      decimal.Decimal `json:"items_price" gorm:"type:decimal(12,2);not null;default:0"`
	TaxPrice        decimal.Decimal `json:"tax_price" gorm:"type:decimal(12,2);not null;default:0"`
	ShippingPrice   decimal.Decimal `json:"shipping_price" gorm:"type:decimal(12,2);not null;default:0"`
	TotalPrice      decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2);not null;default:0"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	TrackingNumber  string          `json:"tracking_number,omitempty" gorm:"type:varchar(100)"`
	Notes           string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
