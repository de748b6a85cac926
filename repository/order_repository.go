package repository

import (
	"context"
	"fmt"

	"tiffin-api/apperrors"
	"tiffin-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderMutation edits a loaded order inside the update transaction. The
// returned note is recorded in the status history when the status changed.
type OrderMutation func(order *models.Order) (note string, err error)

// PartnerScope selects the orders a delivery partner may see: every order in
// ClaimableStatus plus the orders assigned to PartnerID whose status is in
// AssignedStatuses (any status when empty).
type PartnerScope struct {
	PartnerID        uint
	ClaimableStatus  models.OrderStatus
	AssignedStatuses []models.OrderStatus
}

// OrderRepository defines data access for orders and their history.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order, note string) error
	FindByID(ctx context.Context, id uint, withHistory bool) (*models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error)
	ListForPartner(ctx context.Context, scope PartnerScope) ([]models.Order, error)
	ListAssignedTo(ctx context.Context, partnerID uint) ([]models.Order, error)
	// Update loads the order, applies mutate and persists it in one
	// transaction. actorID is recorded as the author of any status change.
	Update(ctx context.Context, id uint, actorID uint, mutate OrderMutation) (*models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order, note string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ChangedBy: order.UserID,
			Note:      note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("record order history: %w", err)
		}
		return nil
	})
}

func (r *orderRepository) FindByID(ctx context.Context, id uint, withHistory bool) (*models.Order, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if withHistory {
		q = q.Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		})
	}
	var order models.Order
	if err := q.First(&order, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrOrderNotFound)
	}
	return &order, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, r.db)
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	return r.find(ctx, r.db.Where("user_id = ?", customerID))
}

func (r *orderRepository) ListForPartner(ctx context.Context, scope PartnerScope) ([]models.Order, error) {
	assigned := r.db.Where("delivery_partner_id = ?", scope.PartnerID)
	if len(scope.AssignedStatuses) > 0 {
		assigned = assigned.Where("status IN ?", scope.AssignedStatuses)
	}
	return r.find(ctx, r.db.Where("status = ?", scope.ClaimableStatus).Or(assigned))
}

func (r *orderRepository) ListAssignedTo(ctx context.Context, partnerID uint) ([]models.Order, error) {
	return r.find(ctx, r.db.Where("delivery_partner_id = ?", partnerID))
}

func (r *orderRepository) find(ctx context.Context, q *gorm.DB) ([]models.Order, error) {
	orders := []models.Order{}
	err := q.WithContext(ctx).
		Preload("Items").
		Order("id asc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) Update(ctx context.Context, id uint, actorID uint, mutate OrderMutation) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, id).Error; err != nil {
			return notFound(err, apperrors.ErrOrderNotFound)
		}

		prev := order.Status
		note, err := mutate(&order)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&order).Error; err != nil {
			return fmt.Errorf("save order %d: %w", id, err)
		}
		if order.Status == prev {
			return nil
		}

		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prev,
			ToStatus:   order.Status,
			ChangedBy:  actorID,
			Note:       note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("record order history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
