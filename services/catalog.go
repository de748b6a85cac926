package services

import (
	"context"

	"tiffin-api/models"
	"tiffin-api/repository"
)

// CatalogService is the read-only menu.
type CatalogService struct {
	dishes repository.DishRepository
}

func NewCatalogService(dishes repository.DishRepository) *CatalogService {
	return &CatalogService{dishes: dishes}
}

// ListAvailableDishes returns available dishes in insertion order.
func (s *CatalogService) ListAvailableDishes(ctx context.Context) ([]models.Dish, error) {
	return s.dishes.ListAvailable(ctx)
}

// GetDish returns a dish by id, available or not.
func (s *CatalogService) GetDish(ctx context.Context, id uint) (*models.Dish, error) {
	return s.dishes.FindByID(ctx, id)
}
