package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tiffin-api/auth"
	"tiffin-api/config"
	"tiffin-api/events"
	"tiffin-api/models"
	"tiffin-api/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type recorder struct {
	mu     sync.Mutex
	keys   []string
	events []events.OrderEvent
}

func (r *recorder) Publish(_ context.Context, key string, ev events.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	r.events = append(r.events, ev)
	return nil
}

type testEnv struct {
	db            *gorm.DB
	users         repository.UserRepository
	orderRepo     repository.OrderRepository
	profiles      repository.DeliveryProfileRepository
	hasher        auth.PasswordHasher
	now           time.Time
	events        *recorder
	notifications *NotificationService
	orders        *OrderService
	delivery      *DeliveryService
	payments      *PaymentService
	admin         *AdminService
	catalog       *CatalogService
	phones        int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := config.InitDB(":memory:")
	require.NoError(t, err)

	e := &testEnv{
		db:        db,
		users:     repository.NewUserRepository(db),
		orderRepo: repository.NewOrderRepository(db),
		profiles:  repository.NewDeliveryProfileRepository(db),
		hasher:    &auth.BcryptHasher{Cost: bcrypt.MinCost},
		now:       time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local),
		events:    &recorder{},
	}
	clock := func() time.Time { return e.now }
	log := zap.NewNop()

	e.notifications = NewNotificationService(repository.NewNotificationRepository(db), log)
	publisher := events.Fanout{e.events, e.notifications}
	dishes := repository.NewDishRepository(db)

	e.orders = NewOrderService(e.orderRepo, publisher, log).WithClock(clock)
	e.delivery = NewDeliveryService(e.orderRepo, e.users, e.profiles, DefaultDeliveryRate).WithClock(clock)
	e.payments = NewPaymentService(e.orderRepo, publisher, log)
	e.admin = NewAdminService(e.users, e.orderRepo, dishes, log).WithClock(clock)
	e.catalog = NewCatalogService(dishes)
	return e
}

// session creates a user with role and returns a session for it.
func (e *testEnv) session(t *testing.T, role models.UserRole) *auth.Session {
	t.Helper()
	e.phones++
	u := &models.User{
		Name:     fmt.Sprintf("%s %d", role, e.phones),
		Email:    fmt.Sprintf("u%d@x.com", e.phones),
		Phone:    fmt.Sprintf("+100%d", e.phones),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.users.CreateUnique(context.Background(), u))
	return &auth.Session{UserID: u.ID, Role: u.Role, Name: u.Name, Phone: u.Phone}
}

// placeOrder creates a one-line order of price × qty for the customer.
func (e *testEnv) placeOrder(t *testing.T, customer *auth.Session, price string, qty int) *models.Order {
	t.Helper()
	order, err := e.orders.CreateOrder(context.Background(), customer.UserID, CreateOrderInput{
		Items:           []OrderItemInput{{DishID: 1, Name: "Dal Tadka", Price: decimal.RequireFromString(price), Quantity: qty}},
		DeliveryAddress: "12 Curry Lane",
		PaymentMethod:   "CASH",
	})
	require.NoError(t, err)
	return order
}

func (e *testEnv) setStatus(t *testing.T, s *auth.Session, orderID uint, status models.OrderStatus) *models.Order {
	t.Helper()
	order, err := e.orders.TransitionStatus(context.Background(), s, orderID, status)
	require.NoError(t, err)
	return order
}

func orderIDs(orders []models.Order) []uint {
	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}
