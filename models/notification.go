package models

import "time"

type NotificationType string

const (
	// NotificationOrder is addressed to a single user.
	NotificationOrder NotificationType = "ORDER"
	// NotificationAdmin is visible to every admin.
	NotificationAdmin NotificationType = "ADMIN"
	// NotificationDelivery is visible to every delivery partner.
	NotificationDelivery NotificationType = "DELIVERY"
)

type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "NORMAL"
	PriorityHigh   NotificationPriority = "HIGH"
)

type Notification struct {
	ID        uint                 `json:"id" gorm:"primaryKey"`
	UserID    uint                 `json:"userId" gorm:"index"` // 0 for broadcasts
	Type      NotificationType     `json:"type" gorm:"not null;index"`
	Priority  NotificationPriority `json:"priority" gorm:"not null;default:'NORMAL'"`
	Title     string               `json:"title" gorm:"not null"`
	Message   string               `json:"message" gorm:"not null"`
	OrderID   *uint                `json:"orderId"`
	Read      bool                 `json:"read" gorm:"not null"`
	CreatedAt time.Time            `json:"createdAt"`
}
