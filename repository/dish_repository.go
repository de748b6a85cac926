package repository

import (
	"context"
	"fmt"

	"tiffin-api/apperrors"
	"tiffin-api/models"

	"gorm.io/gorm"
)

// DishRepository defines read access to the catalog.
type DishRepository interface {
	ListAvailable(ctx context.Context) ([]models.Dish, error)
	FindByID(ctx context.Context, id uint) (*models.Dish, error)
	Count(ctx context.Context) (int64, error)
}

type dishRepository struct {
	db *gorm.DB
}

// NewDishRepository creates a new dish repository.
func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepository{db: db}
}

func (r *dishRepository) ListAvailable(ctx context.Context) ([]models.Dish, error) {
	dishes := []models.Dish{}
	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("id asc").
		Find(&dishes).Error
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	return dishes, nil
}

func (r *dishRepository) FindByID(ctx context.Context, id uint) (*models.Dish, error) {
	var dish models.Dish
	if err := r.db.WithContext(ctx).First(&dish, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrDishNotFound)
	}
	return &dish, nil
}

func (r *dishRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Dish{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count dishes: %w", err)
	}
	return count, nil
}
