package events

import (
	"context"
	"errors"
	"time"

	"tiffin-api/models"

	"github.com/shopspring/decimal"
)

// Routing keys of order lifecycle events.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	PaymentVerified    = "payment.verified"
)

// OrderEvent describes something that happened to an order after it was
// committed to the store.
type OrderEvent struct {
	OrderID           uint               `json:"orderId"`
	CustomerID        uint               `json:"customerId"`
	FromStatus        models.OrderStatus `json:"fromStatus,omitempty"`
	ToStatus          models.OrderStatus `json:"toStatus"`
	ActorID           uint               `json:"actorId"`
	ActorRole         models.UserRole    `json:"actorRole,omitempty"`
	DeliveryPartnerID *uint              `json:"deliveryPartnerId,omitempty"`
	TotalAmount       decimal.Decimal    `json:"totalAmount"`
	At                time.Time          `json:"at"`
}

// Publisher delivers order events to a subscriber.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event OrderEvent) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, routingKey string, event OrderEvent) error

func (f PublisherFunc) Publish(ctx context.Context, routingKey string, event OrderEvent) error {
	return f(ctx, routingKey, event)
}

// Fanout publishes every event to all of its publishers, in order. A failing
// publisher does not stop the others; their errors are joined.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, routingKey string, event OrderEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, routingKey, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, string, OrderEvent) error { return nil })
