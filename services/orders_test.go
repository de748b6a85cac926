package services

import (
	"context"
	"testing"

	"tiffin-api/apperrors"
	"tiffin-api/events"
	"tiffin-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateOrder_TotalIsSumOfLines(t *testing.T) {
	e := newTestEnv(t)
	customer := e.session(t, models.RoleCustomer)

	order, err := e.orders.CreateOrder(context.Background(), customer.UserID, CreateOrderInput{
		Items: []OrderItemInput{
			{DishID: 1, Name: "Chicken Biryani", Price: decimal.RequireFromString("10"), Quantity: 2},
			{DishID: 3, Name: "Dal Tadka", Price: decimal.RequireFromString("2.50"), Quantity: 3},
		},
		DeliveryAddress:     "12 Curry Lane",
		PaymentMethod:       "UPI",
		SpecialInstructions: "extra pickle",
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("27.5").Equal(order.TotalAmount), "total %s", order.TotalAmount)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Nil(t, order.DeliveryPartnerID)
	assert.Nil(t, order.DeliveryTime)
	assert.Equal(t, e.now, order.OrderTime)

	stored, err := e.orderRepo.FindByID(context.Background(), order.ID, true)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.True(t, decimal.RequireFromString("27.5").Equal(stored.TotalAmount))
	require.Len(t, stored.StatusHistory, 1)
	assert.Equal(t, models.StatusPending, stored.StatusHistory[0].ToStatus)

	assert.Equal(t, []string{events.OrderCreated}, e.events.keys)
}

func TestCreateOrder_IDsAreMonotonic(t *testing.T) {
	e := newTestEnv(t)
	customer := e.session(t, models.RoleCustomer)

	first := e.placeOrder(t, customer, "5", 1)
	second := e.placeOrder(t, customer, "5", 1)
	assert.Greater(t, second.ID, first.ID)
}

func TestCreateOrder_InvalidInput(t *testing.T) {
	e := newTestEnv(t)
	customer := e.session(t, models.RoleCustomer)

	_, err := e.orders.CreateOrder(context.Background(), customer.UserID, CreateOrderInput{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = e.orders.CreateOrder(context.Background(), customer.UserID, CreateOrderInput{
		Items: []OrderItemInput{{Name: "Dosa", Price: decimal.NewFromInt(3), Quantity: 0}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestListOrders_ScopedByRole(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.session(t, models.RoleCustomer)
	bob := e.session(t, models.RoleCustomer)
	admin := e.session(t, models.RoleAdmin)
	p1 := e.session(t, models.RoleDeliveryPartner)
	p2 := e.session(t, models.RoleDeliveryPartner)

	a1 := e.placeOrder(t, alice, "10", 1)
	a2 := e.placeOrder(t, alice, "10", 1)
	b1 := e.placeOrder(t, bob, "10", 1)

	empty, err := e.orders.ListOrders(ctx, p1)
	require.NoError(t, err)
	assert.Empty(t, empty)

	e.setStatus(t, admin, a2.ID, models.StatusConfirmed)
	e.setStatus(t, admin, b1.ID, models.StatusConfirmed)
	e.setStatus(t, p1, b1.ID, models.StatusOutForDelivery)

	all, err := e.orders.ListOrders(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, []uint{a1.ID, a2.ID, b1.ID}, orderIDs(all))

	mine, err := e.orders.ListOrders(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []uint{a1.ID, a2.ID}, orderIDs(mine))

	bobs, err := e.orders.ListOrders(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []uint{b1.ID}, orderIDs(bobs))

	p1Orders, err := e.orders.ListOrders(ctx, p1)
	require.NoError(t, err)
	assert.Equal(t, []uint{a2.ID, b1.ID}, orderIDs(p1Orders))

	p2Orders, err := e.orders.ListOrders(ctx, p2)
	require.NoError(t, err)
	assert.Equal(t, []uint{a2.ID}, orderIDs(p2Orders))

	_, err = e.orders.ListOrders(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrAccessTokenRequired)
}

func TestTransitionStatus_CustomerCannotTouchOthersOrder(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.session(t, models.RoleCustomer)
	intruder := e.session(t, models.RoleCustomer)
	order := e.placeOrder(t, owner, "10", 1)

	_, err := e.orders.TransitionStatus(ctx, intruder, order.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)

	stored, err := e.orderRepo.FindByID(ctx, order.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Len(t, stored.StatusHistory, 1)

	cancelled := e.setStatus(t, owner, order.ID, models.StatusCancelled)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
}

func TestTransitionStatus_PartnerAssignmentLastWriterWins(t *testing.T) {
	e := newTestEnv(t)
	customer := e.session(t, models.RoleCustomer)
	admin := e.session(t, models.RoleAdmin)
	p1 := e.session(t, models.RoleDeliveryPartner)
	p2 := e.session(t, models.RoleDeliveryPartner)
	order := e.placeOrder(t, customer, "10", 1)

	e.setStatus(t, admin, order.ID, models.StatusConfirmed)

	claimed := e.setStatus(t, p1, order.ID, models.StatusOutForDelivery)
	require.NotNil(t, claimed.DeliveryPartnerID)
	assert.Equal(t, p1.UserID, *claimed.DeliveryPartnerID)

	// No compare-and-set: a second partner's claim replaces the first.
	reclaimed := e.setStatus(t, p2, order.ID, models.StatusOutForDelivery)
	require.NotNil(t, reclaimed.DeliveryPartnerID)
	assert.Equal(t, p2.UserID, *reclaimed.DeliveryPartnerID)

	delivered := e.setStatus(t, p2, order.ID, models.StatusDelivered)
	assert.Equal(t, p2.UserID, *delivered.DeliveryPartnerID)
	assert.Equal(t, models.StatusDelivered, delivered.Status)
}

func TestTransitionStatus_OnlyPartnersGetAssigned(t *testing.T) {
	e := newTestEnv(t)
	customer := e.session(t, models.RoleCustomer)
	admin := e.session(t, models.RoleAdmin)
	order := e.placeOrder(t, customer, "10", 1)

	updated := e.setStatus(t, admin, order.ID, models.StatusOutForDelivery)
	assert.Nil(t, updated.DeliveryPartnerID)
}

func TestTransitionStatus_IsPermissive(t *testing.T) {
	e := newTestEnv(t)
	customer := e.session(t, models.RoleCustomer)
	admin := e.session(t, models.RoleAdmin)
	order := e.placeOrder(t, customer, "10", 1)

	e.setStatus(t, admin, order.ID, models.StatusDelivered)
	back := e.setStatus(t, admin, order.ID, models.StatusPending)
	assert.Equal(t, models.StatusPending, back.Status)

	odd := e.setStatus(t, customer, order.ID, "TELEPORTED")
	assert.Equal(t, models.OrderStatus("TELEPORTED"), odd.Status)

	stored, err := e.orders.GetOrder(context.Background(), admin, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.StatusHistory, 4)
}

func TestTransitionStatus_Failures(t *testing.T) {
	e := newTestEnv(t)
	admin := e.session(t, models.RoleAdmin)
	ctx := context.Background()

	_, err := e.orders.TransitionStatus(ctx, admin, 999, models.StatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)

	_, err = e.orders.TransitionStatus(ctx, nil, 1, models.StatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrAccessTokenRequired)

	_, err = e.orders.TransitionStatus(ctx, admin, 1, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestTransitionStatus_PublishesOnlyRealChanges(t *testing.T) {
	e := newTestEnv(t)
	customer := e.session(t, models.RoleCustomer)
	admin := e.session(t, models.RoleAdmin)
	order := e.placeOrder(t, customer, "10", 1)

	e.setStatus(t, admin, order.ID, models.StatusConfirmed)
	e.setStatus(t, admin, order.ID, models.StatusConfirmed)

	assert.Equal(t, []string{events.OrderCreated, events.OrderStatusChanged}, e.events.keys)
	last := e.events.events[1]
	assert.Equal(t, models.StatusPending, last.FromStatus)
	assert.Equal(t, models.StatusConfirmed, last.ToStatus)
	assert.Equal(t, admin.UserID, last.ActorID)
}

func TestGetOrder_Visibility(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.session(t, models.RoleCustomer)
	other := e.session(t, models.RoleCustomer)
	admin := e.session(t, models.RoleAdmin)
	partner := e.session(t, models.RoleDeliveryPartner)
	order := e.placeOrder(t, owner, "10", 1)

	_, err := e.orders.GetOrder(ctx, owner, order.ID)
	assert.NoError(t, err)
	_, err = e.orders.GetOrder(ctx, admin, order.ID)
	assert.NoError(t, err)
	_, err = e.orders.GetOrder(ctx, other, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)
	_, err = e.orders.GetOrder(ctx, partner, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthorized)

	e.setStatus(t, admin, order.ID, models.StatusConfirmed)
	_, err = e.orders.GetOrder(ctx, partner, order.ID)
	assert.NoError(t, err)

	_, err = e.orders.GetOrder(ctx, admin, 404)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestAcceptOrder(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	customer := e.session(t, models.RoleCustomer)
	admin := e.session(t, models.RoleAdmin)
	p1 := e.session(t, models.RoleDeliveryPartner)
	p2 := e.session(t, models.RoleDeliveryPartner)
	order := e.placeOrder(t, customer, "10", 1)

	_, err := e.orders.AcceptOrder(ctx, p1, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotClaimable, "pending orders are not claimable")

	e.setStatus(t, admin, order.ID, models.StatusConfirmed)
	accepted, err := e.orders.AcceptOrder(ctx, p1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOutForDelivery, accepted.Status)
	require.NotNil(t, accepted.DeliveryPartnerID)
	assert.Equal(t, p1.UserID, *accepted.DeliveryPartnerID)

	_, err = e.orders.AcceptOrder(ctx, p2, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotClaimable)
	_, err = e.orders.AcceptOrder(ctx, p1, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotClaimable)

	got, err := e.orders.GetOrder(ctx, admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.UserID, *got.DeliveryPartnerID)
	last := got.StatusHistory[len(got.StatusHistory)-1]
	assert.Equal(t, models.StatusOutForDelivery, last.ToStatus)
	assert.Equal(t, p1.UserID, last.ChangedBy)

	ev := e.events.events[len(e.events.events)-1]
	assert.Equal(t, events.OrderStatusChanged, e.events.keys[len(e.events.keys)-1])
	assert.Equal(t, models.StatusConfirmed, ev.FromStatus)
	assert.Equal(t, models.StatusOutForDelivery, ev.ToStatus)
	assert.Equal(t, p1.UserID, ev.ActorID)
}

func TestAcceptOrder_Failures(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	customer := e.session(t, models.RoleCustomer)
	partner := e.session(t, models.RoleDeliveryPartner)

	_, err := e.orders.AcceptOrder(ctx, nil, 1)
	assert.ErrorIs(t, err, apperrors.ErrAccessTokenRequired)
	_, err = e.orders.AcceptOrder(ctx, customer, 1)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	_, err = e.orders.AcceptOrder(ctx, partner, 404)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestNewOrderService_NilPublisher(t *testing.T) {
	e := newTestEnv(t)
	customer := e.session(t, models.RoleCustomer)
	admin := e.session(t, models.RoleAdmin)
	svc := NewOrderService(e.orderRepo, nil, zap.NewNop())

	order, err := svc.CreateOrder(context.Background(), customer.UserID, CreateOrderInput{
		Items:           []OrderItemInput{{DishID: 1, Name: "Dal Tadka", Price: decimal.NewFromInt(9), Quantity: 1}},
		DeliveryAddress: "12 Curry Lane",
	})
	require.NoError(t, err)
	_, err = svc.TransitionStatus(context.Background(), admin, order.ID, models.StatusConfirmed)
	assert.NoError(t, err)
}
