package services

import (
	"context"
	"fmt"
	"time"

	"tiffin-api/apperrors"
	"tiffin-api/auth"
	"tiffin-api/events"
	"tiffin-api/models"
	"tiffin-api/repository"
	"tiffin-api/statemachine"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderItemInput is one requested line. Price is taken as sent by the
// client; it is not re-read from the catalog.
type OrderItemInput struct {
	DishID   uint
	Name     string
	Price    decimal.Decimal
	Quantity int
}

type CreateOrderInput struct {
	Items               []OrderItemInput
	DeliveryAddress     string
	PaymentMethod       string
	SpecialInstructions string
}

// OrderService owns order records and their status lifecycle.
type OrderService struct {
	orders repository.OrderRepository
	events events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewOrderService(orders repository.OrderRepository, publisher events.Publisher, log *zap.Logger) *OrderService {
	if publisher == nil {
		publisher = events.Discard
	}
	return &OrderService{orders: orders, events: publisher, log: log, now: time.Now}
}

// WithClock replaces the clock used for order timestamps.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

// CreateOrder places a PENDING, unpaid, unassigned order for customerID.
// The total is Σ price × quantity over the supplied items.
func (s *OrderService) CreateOrder(ctx context.Context, customerID uint, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("order has no items: %w", apperrors.ErrInvalidInput)
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1: %w", apperrors.ErrInvalidInput)
		}
		item := models.OrderItem{
			DishID:   it.DishID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}

	order := &models.Order{
		UserID:              customerID,
		Items:               items,
		TotalAmount:         total,
		DeliveryAddress:     in.DeliveryAddress,
		PaymentMethod:       in.PaymentMethod,
		SpecialInstructions: in.SpecialInstructions,
		Status:              models.StatusPending,
		PaymentStatus:       models.PaymentPending,
		OrderTime:           s.now(),
	}
	if err := s.orders.Create(ctx, order, "Order placed by customer"); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("customer_id", customerID),
		zap.String("total", order.TotalAmount.String()))
	s.publish(ctx, events.OrderCreated, events.OrderEvent{
		OrderID:     order.ID,
		CustomerID:  customerID,
		ToStatus:    order.Status,
		ActorID:     customerID,
		ActorRole:   models.RoleCustomer,
		TotalAmount: order.TotalAmount,
		At:          order.OrderTime,
	})
	return order, nil
}

// ListOrders returns the orders visible to the caller: everything for
// admins, CONFIRMED plus own assignments for delivery partners, own orders
// for customers.
func (s *OrderService) ListOrders(ctx context.Context, session *auth.Session) ([]models.Order, error) {
	if err := auth.Authorize(session); err != nil {
		return nil, err
	}
	switch session.Role {
	case models.RoleAdmin:
		return s.orders.ListAll(ctx)
	case models.RoleDeliveryPartner:
		return s.orders.ListForPartner(ctx, repository.PartnerScope{
			PartnerID:       session.UserID,
			ClaimableStatus: models.StatusConfirmed,
		})
	default:
		return s.orders.ListByCustomer(ctx, session.UserID)
	}
}

// GetOrder returns one order with its status history, applying the same
// visibility rule as ListOrders.
func (s *OrderService) GetOrder(ctx context.Context, session *auth.Session, id uint) (*models.Order, error) {
	if err := auth.Authorize(session); err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !visibleTo(session, order) {
		return nil, apperrors.ErrNotAuthorized
	}
	return order, nil
}

func visibleTo(session *auth.Session, order *models.Order) bool {
	switch session.Role {
	case models.RoleAdmin:
		return true
	case models.RoleDeliveryPartner:
		return order.Status == models.StatusConfirmed || order.AssignedTo(session.UserID)
	default:
		return order.UserID == session.UserID
	}
}

// TransitionStatus sets the order's status. Customers may only touch their
// own orders; other roles are not restricted beyond authentication and any
// status value is accepted. A delivery partner moving an order to
// OUT_FOR_DELIVERY becomes its assigned partner in the same update,
// replacing any previous assignment.
func (s *OrderService) TransitionStatus(ctx context.Context, session *auth.Session, id uint, newStatus models.OrderStatus) (*models.Order, error) {
	if err := auth.Authorize(session); err != nil {
		return nil, err
	}
	if newStatus == "" {
		return nil, fmt.Errorf("status is required: %w", apperrors.ErrInvalidInput)
	}

	var prev models.OrderStatus
	order, err := s.orders.Update(ctx, id, session.UserID, func(o *models.Order) (string, error) {
		if session.Is(models.RoleCustomer) && o.UserID != session.UserID {
			return "", apperrors.ErrNotAuthorized
		}
		prev = o.Status
		o.Status = newStatus
		if newStatus == models.StatusOutForDelivery && session.Is(models.RoleDeliveryPartner) {
			partnerID := session.UserID
			o.DeliveryPartnerID = &partnerID
		}
		return fmt.Sprintf("Status set by %s", session.Role), nil
	})
	if err != nil {
		return nil, err
	}

	if err := statemachine.CanTransition(prev, newStatus, session.Role); err != nil {
		s.log.Warn("order transition outside lifecycle",
			zap.Uint("order_id", id),
			zap.Uint("actor_id", session.UserID),
			zap.Bool("known_status", statemachine.IsKnown(newStatus)),
			zap.Bool("from_terminal", statemachine.IsTerminal(prev)),
			zap.Error(err))
	}
	s.log.Info("order status updated",
		zap.Uint("order_id", id),
		zap.String("from", string(prev)),
		zap.String("to", string(newStatus)))

	if prev != newStatus {
		s.publish(ctx, events.OrderStatusChanged, events.OrderEvent{
			OrderID:           order.ID,
			CustomerID:        order.UserID,
			FromStatus:        prev,
			ToStatus:          newStatus,
			ActorID:           session.UserID,
			ActorRole:         session.Role,
			DeliveryPartnerID: order.DeliveryPartnerID,
			TotalAmount:       order.TotalAmount,
			At:                s.now(),
		})
	}
	return order, nil
}

// AcceptOrder lets a delivery partner claim a CONFIRMED order: it goes out
// for delivery with the partner assigned. Unlike TransitionStatus the
// update only applies while the order is still CONFIRMED, so one order
// cannot be accepted twice.
func (s *OrderService) AcceptOrder(ctx context.Context, session *auth.Session, id uint) (*models.Order, error) {
	if err := auth.Authorize(session, models.RoleDeliveryPartner); err != nil {
		return nil, err
	}
	order, err := s.orders.Update(ctx, id, session.UserID, func(o *models.Order) (string, error) {
		if o.Status != models.StatusConfirmed {
			return "", apperrors.ErrOrderNotClaimable
		}
		partnerID := session.UserID
		o.Status = models.StatusOutForDelivery
		o.DeliveryPartnerID = &partnerID
		return "Accepted by delivery partner", nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order accepted", zap.Uint("order_id", id), zap.Uint("partner_id", session.UserID))
	s.publish(ctx, events.OrderStatusChanged, events.OrderEvent{
		OrderID:           order.ID,
		CustomerID:        order.UserID,
		FromStatus:        models.StatusConfirmed,
		ToStatus:          models.StatusOutForDelivery,
		ActorID:           session.UserID,
		ActorRole:         session.Role,
		DeliveryPartnerID: order.DeliveryPartnerID,
		TotalAmount:       order.TotalAmount,
		At:                s.now(),
	})
	return order, nil
}

// publish hands the event on; delivery failures are logged, never returned,
// since the order change is already committed.
func (s *OrderService) publish(ctx context.Context, key string, ev events.OrderEvent) {
	if err := s.events.Publish(ctx, key, ev); err != nil {
		s.log.Error("publish order event", zap.String("event", key), zap.Uint("order_id", ev.OrderID), zap.Error(err))
	}
}
