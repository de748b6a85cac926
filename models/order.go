package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// PaymentStatus tracks whether the order has been paid for.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

type Order struct {
	ID                  uint                 `json:"id" gorm:"primaryKey"`
	UserID              uint                 `json:"userId" gorm:"not null;index"`
	Items               []OrderItem          `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount         decimal.Decimal      `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	DeliveryAddress     string               `json:"deliveryAddress"`
	PaymentMethod       string               `json:"paymentMethod"`
	SpecialInstructions string               `json:"specialInstructions"`
	Status              OrderStatus          `json:"status" gorm:"not null;default:'PENDING';index"`
	PaymentStatus       PaymentStatus        `json:"paymentStatus" gorm:"not null;default:'PENDING'"`
	OrderTime           time.Time            `json:"orderTime" gorm:"not null"`
	DeliveryTime        *time.Time           `json:"deliveryTime"`
	DeliveryPartnerID   *uint                `json:"deliveryPartnerId" gorm:"index"`
	StatusHistory       []OrderStatusHistory `json:"statusHistory,omitempty" gorm:"foreignKey:OrderID"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

// AssignedTo reports whether the order is held by the given delivery partner.
func (o *Order) AssignedTo(partnerID uint) bool {
	return o.DeliveryPartnerID != nil && *o.DeliveryPartnerID == partnerID
}

// OrderItem is a line item. Name and Price are snapshots taken at order time.
type OrderItem struct {
	ID       uint            `json:"-" gorm:"primaryKey"`
	OrderID  uint            `json:"-" gorm:"not null;index"`
	DishID   uint            `json:"dishId"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity" gorm:"not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

// LineTotal is Price × Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"orderId" gorm:"not null;index"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  uint        `json:"changedBy"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"createdAt"`
}
