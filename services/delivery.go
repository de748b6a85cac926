package services

import (
	"context"
	"math/rand/v2"
	"time"

	"tiffin-api/apperrors"
	"tiffin-api/models"
	"tiffin-api/repository"

	"github.com/shopspring/decimal"
)

// DefaultDeliveryRate is what a partner earns per delivered order.
var DefaultDeliveryRate = decimal.NewFromInt(50)

// PartnerStats summarises a delivery partner's work.
type PartnerStats struct {
	TotalDeliveries int             `json:"totalDeliveries"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	TodayDeliveries int             `json:"todayDeliveries"`
	TodayEarnings   decimal.Decimal `json:"todayEarnings"`
	PendingOrders   int             `json:"pendingOrders"`
	Rating          float64         `json:"rating"`
}

// PartnerProfile is the delivery partner's own profile view.
type PartnerProfile struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	IsActive        bool             `json:"isActive"`
	VehicleNumber   string           `json:"vehicleNumber"`
	LicenseNumber   string           `json:"licenseNumber"`
	Rating          float64          `json:"rating"`
	TotalDeliveries int              `json:"totalDeliveries"`
	IsOnline        bool             `json:"isOnline"`
	CurrentLocation *models.Location `json:"currentLocation"`
}

// DeliveryService is the delivery partner's view over orders plus their
// own availability and position.
type DeliveryService struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	profiles repository.DeliveryProfileRepository
	rate     decimal.Decimal
	rating   func() float64
	now      func() time.Time
}

func NewDeliveryService(orders repository.OrderRepository, users repository.UserRepository, profiles repository.DeliveryProfileRepository, rate decimal.Decimal) *DeliveryService {
	return &DeliveryService{
		orders:   orders,
		users:    users,
		profiles: profiles,
		rate:     rate,
		rating:   mockRating,
		now:      time.Now,
	}
}

// WithClock replaces the clock that decides what "today" is.
func (s *DeliveryService) WithClock(now func() time.Time) *DeliveryService {
	s.now = now
	return s
}

// mockRating stands in for a real ratings system: 4.5 to 5.0.
func mockRating() float64 {
	return 4.5 + rand.Float64()*0.5
}

// AvailableForPartner returns every CONFIRMED order plus the partner's own
// orders that are out for delivery or delivered.
func (s *DeliveryService) AvailableForPartner(ctx context.Context, partnerID uint) ([]models.Order, error) {
	return s.orders.ListForPartner(ctx, repository.PartnerScope{
		PartnerID:        partnerID,
		ClaimableStatus:  models.StatusConfirmed,
		AssignedStatuses: []models.OrderStatus{models.StatusOutForDelivery, models.StatusDelivered},
	})
}

// PartnerStats counts the partner's deliveries and earnings. "Today" is the
// local calendar day the order was placed.
func (s *DeliveryService) PartnerStats(ctx context.Context, partnerID uint) (*PartnerStats, error) {
	assigned, err := s.orders.ListAssignedTo(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &PartnerStats{Rating: s.rating()}
	for _, o := range assigned {
		switch o.Status {
		case models.StatusDelivered:
			stats.TotalDeliveries++
			if sameLocalDay(o.OrderTime, now) {
				stats.TodayDeliveries++
			}
		case models.StatusOutForDelivery:
			stats.PendingOrders++
		}
	}
	stats.TotalEarnings = s.rate.Mul(decimal.NewFromInt(int64(stats.TotalDeliveries)))
	stats.TodayEarnings = s.rate.Mul(decimal.NewFromInt(int64(stats.TodayDeliveries)))
	return stats, nil
}

// Profile returns the partner's account with mock vehicle details.
func (s *DeliveryService) Profile(ctx context.Context, partnerID uint) (*PartnerProfile, error) {
	user, err := s.users.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.orders.ListAssignedTo(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	delivered := 0
	for _, o := range assigned {
		if o.Status == models.StatusDelivered {
			delivered++
		}
	}
	live, err := s.profiles.Find(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return &PartnerProfile{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Phone:           user.Phone,
		IsActive:        user.IsActive,
		VehicleNumber:   "MH01AB1234",
		LicenseNumber:   "DL123456789",
		Rating:          s.rating(),
		TotalDeliveries: delivered,
		IsOnline:        live.IsOnline,
		CurrentLocation: live.CurrentLocation(),
	}, nil
}

// SetOnline records whether the partner is taking orders.
func (s *DeliveryService) SetOnline(ctx context.Context, partnerID uint, online bool) (*models.DeliveryProfile, error) {
	return s.profiles.SetOnline(ctx, partnerID, online)
}

// UpdateLocation stores the partner's last reported position.
func (s *DeliveryService) UpdateLocation(ctx context.Context, partnerID uint, loc models.Location) (*models.Location, error) {
	if loc.Lat < -90 || loc.Lat > 90 || loc.Lng < -180 || loc.Lng > 180 {
		return nil, apperrors.ErrInvalidInput
	}
	p, err := s.profiles.SetLocation(ctx, partnerID, loc, s.now())
	if err != nil {
		return nil, err
	}
	return p.CurrentLocation(), nil
}
