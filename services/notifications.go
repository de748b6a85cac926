package services

import (
	"context"
	"fmt"

	"tiffin-api/auth"
	"tiffin-api/events"
	"tiffin-api/models"
	"tiffin-api/repository"

	"go.uber.org/zap"
)

var _ events.Publisher = (*NotificationService)(nil)

// NotificationService turns order events into notifications and serves each
// caller the ones addressed to them or broadcast to their role.
type NotificationService struct {
	notifications repository.NotificationRepository
	log           *zap.Logger
}

func NewNotificationService(notifications repository.NotificationRepository, log *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, log: log}
}

// broadcastTypes maps a role to the broadcast notifications it receives.
var broadcastTypes = map[models.UserRole][]models.NotificationType{
	models.RoleAdmin:           {models.NotificationAdmin},
	models.RoleDeliveryPartner: {models.NotificationDelivery},
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, session *auth.Session) ([]models.Notification, error) {
	if err := auth.Authorize(session); err != nil {
		return nil, err
	}
	return s.notifications.ListVisible(ctx, session.UserID, broadcastTypes[session.Role])
}

// Publish implements events.Publisher.
func (s *NotificationService) Publish(ctx context.Context, routingKey string, ev events.OrderEvent) error {
	for _, n := range notificationsFor(routingKey, ev) {
		if err := s.notifications.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func notificationsFor(routingKey string, ev events.OrderEvent) []*models.Notification {
	orderID := ev.OrderID
	toCustomer := func(title, msg string) *models.Notification {
		return &models.Notification{
			UserID:   ev.CustomerID,
			Type:     models.NotificationOrder,
			Priority: models.PriorityNormal,
			Title:    title,
			Message:  msg,
			OrderID:  &orderID,
		}
	}
	broadcast := func(t models.NotificationType, title, msg string) *models.Notification {
		return &models.Notification{
			Type:     t,
			Priority: models.PriorityHigh,
			Title:    title,
			Message:  msg,
			OrderID:  &orderID,
		}
	}

	switch routingKey {
	case events.OrderCreated:
		return []*models.Notification{
			toCustomer("Order placed", fmt.Sprintf("Your order #%d has been placed.", orderID)),
			broadcast(models.NotificationAdmin, "New order", fmt.Sprintf("Order #%d was placed for %s.", orderID, ev.TotalAmount.StringFixed(2))),
		}
	case events.OrderStatusChanged:
		out := []*models.Notification{
			toCustomer("Order update", fmt.Sprintf("Your order #%d is now %s.", orderID, ev.ToStatus)),
		}
		if ev.ToStatus == models.StatusConfirmed {
			out = append(out, broadcast(models.NotificationDelivery, "Order ready for pickup", fmt.Sprintf("Order #%d is confirmed and waiting for a delivery partner.", orderID)))
		}
		return out
	case events.PaymentVerified:
		return []*models.Notification{
			toCustomer("Payment received", fmt.Sprintf("Payment for order #%d was verified.", orderID)),
		}
	}
	return nil
}
