package services

import (
	"context"
	"time"

	"tiffin-api/models"
	"tiffin-api/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	TotalUsers             int64           `json:"totalUsers"`
	TotalOrders            int             `json:"totalOrders"`
	TotalRevenue           decimal.Decimal `json:"totalRevenue"`
	TotalDishes            int64           `json:"totalDishes"`
	ActiveDeliveryPartners int64           `json:"activeDeliveryPartners"`
	OrdersToday            int             `json:"ordersToday"`
}

// AdminService serves the admin dashboard and user management.
type AdminService struct {
	users  repository.UserRepository
	orders repository.OrderRepository
	dishes repository.DishRepository
	log    *zap.Logger
	now    func() time.Time
}

func NewAdminService(users repository.UserRepository, orders repository.OrderRepository, dishes repository.DishRepository, log *zap.Logger) *AdminService {
	return &AdminService{users: users, orders: orders, dishes: dishes, log: log, now: time.Now}
}

// WithClock replaces the clock that decides what "today" is.
func (s *AdminService) WithClock(now func() time.Time) *AdminService {
	s.now = now
	return s
}

// Stats recomputes the dashboard counters. Revenue sums every order total
// regardless of status or payment.
func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	customers, err := s.users.CountByRole(ctx, models.RoleCustomer, false)
	if err != nil {
		return nil, err
	}
	partners, err := s.users.CountByRole(ctx, models.RoleDeliveryPartner, true)
	if err != nil {
		return nil, err
	}
	dishes, err := s.dishes.Count(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &AdminStats{
		TotalUsers:             customers,
		TotalOrders:            len(orders),
		TotalRevenue:           decimal.Zero,
		TotalDishes:            dishes,
		ActiveDeliveryPartners: partners,
	}
	for _, o := range orders {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		if sameLocalDay(o.OrderTime, now) {
			stats.OrdersToday++
		}
	}
	return stats, nil
}

// ListUsers returns every user. Password digests never leave the models
// package in JSON.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// ToggleUserStatus flips a user's active flag.
func (s *AdminService) ToggleUserStatus(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("user status toggled", zap.Uint("user_id", user.ID), zap.Bool("active", user.IsActive))
	return user, nil
}
