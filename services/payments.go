package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tiffin-api/apperrors"
	"tiffin-api/auth"
	"tiffin-api/events"
	"tiffin-api/models"
	"tiffin-api/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var minorUnits = decimal.NewFromInt(100)

// PaymentService mocks a payment gateway. Verification only checks that the
// gateway fields are present; nothing is cryptographically verified.
type PaymentService struct {
	orders repository.OrderRepository
	events events.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewPaymentService(orders repository.OrderRepository, publisher events.Publisher, log *zap.Logger) *PaymentService {
	if publisher == nil {
		publisher = events.Discard
	}
	return &PaymentService{orders: orders, events: publisher, log: log, now: time.Now}
}

// CreatePaymentOrder returns a gateway order for amount, expressed in the
// currency's minor unit.
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, amount decimal.Decimal, currency, method string) (*models.PaymentOrder, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", apperrors.ErrInvalidInput)
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}
	po := &models.PaymentOrder{
		ID:            fmt.Sprintf("order_%d", s.now().UnixMilli()),
		Amount:        amount.Mul(minorUnits),
		Currency:      currency,
		Status:        models.PaymentOrderCreated,
		PaymentMethod: method,
	}
	s.log.Info("payment order created", zap.String("payment_order_id", po.ID), zap.String("amount", amount.String()), zap.String("currency", currency))
	return po, nil
}

// VerifyPayment accepts the payment when paymentID, orderRef and signature
// are all present, then marks the referenced order COMPLETED and CONFIRMED
// in one update. orderRef is "order_<id>" or a bare order id; an unknown
// reference is still reported as verified.
func (s *PaymentService) VerifyPayment(ctx context.Context, session *auth.Session, paymentID, orderRef, signature string) error {
	if err := auth.Authorize(session); err != nil {
		return err
	}
	if paymentID == "" || orderRef == "" || signature == "" {
		s.log.Info("payment verification failed", zap.String("order_ref", orderRef))
		return apperrors.ErrVerificationFailed
	}

	orderID, ok := parseOrderRef(orderRef)
	if !ok {
		s.log.Warn("payment verified for unknown order reference", zap.String("order_ref", orderRef))
		return nil
	}

	var prev models.OrderStatus
	order, err := s.orders.Update(ctx, orderID, session.UserID, func(o *models.Order) (string, error) {
		prev = o.Status
		o.PaymentStatus = models.PaymentCompleted
		o.Status = models.StatusConfirmed
		return "Payment verified: " + paymentID, nil
	})
	if errors.Is(err, apperrors.ErrOrderNotFound) {
		s.log.Warn("payment verified for unknown order", zap.Uint("order_id", orderID))
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Info("payment verified", zap.Uint("order_id", order.ID), zap.String("payment_id", paymentID))
	ev := events.OrderEvent{
		OrderID:     order.ID,
		CustomerID:  order.UserID,
		FromStatus:  prev,
		ToStatus:    order.Status,
		ActorID:     session.UserID,
		ActorRole:   session.Role,
		TotalAmount: order.TotalAmount,
		At:          s.now(),
	}
	if err := s.events.Publish(ctx, events.PaymentVerified, ev); err != nil {
		s.log.Error("publish payment event", zap.Uint("order_id", order.ID), zap.Error(err))
	}
	if prev != order.Status {
		if err := s.events.Publish(ctx, events.OrderStatusChanged, ev); err != nil {
			s.log.Error("publish order event", zap.Uint("order_id", order.ID), zap.Error(err))
		}
	}
	return nil
}

func parseOrderRef(ref string) (uint, bool) {
	if _, after, found := strings.Cut(ref, "_"); found {
		ref = after
	}
	id, err := strconv.ParseUint(ref, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
