package config

import (
	"fmt"

	"tiffin-api/auth"
	"tiffin-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SamplePassword is the password of every seeded account.
const SamplePassword = "password"

// Seed inserts the demo accounts and dishes into an empty database.
// It reports whether anything was written. Account passwords are hashed
// with hasher, the same one login verifies against.
func Seed(db *gorm.DB, hasher auth.PasswordHasher) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := hasher.Hash(SamplePassword)
	if err != nil {
		return false, fmt.Errorf("hash sample password: %w", err)
	}

	users := []models.User{
		{Name: "Test User", Email: "user@test.com", Phone: "+1234567890", PasswordHash: hash, Role: models.RoleCustomer, IsActive: true},
		{Name: "Admin User", Email: "admin@tiffin.com", Phone: "+1234567891", PasswordHash: hash, Role: models.RoleAdmin, IsActive: true},
		{Name: "John Delivery", Email: "john@delivery.com", Phone: "+1234567892", PasswordHash: hash, Role: models.RoleDeliveryPartner, IsActive: true},
	}
	dishes := []models.Dish{
		{Name: "Chicken Biryani", Description: "Aromatic basmati rice with tender chicken pieces", Price: decimal.RequireFromString("15.99"),
			Category: "MAIN_COURSE", IsAvailable: true, ImageURL: "/assets/images/dishes/chicken-biryani.jpg", PreparationTime: 25, SpiceLevel: "MEDIUM"},
		{Name: "Vegetable Curry", Description: "Mixed vegetables in rich curry sauce", Price: decimal.RequireFromString("12.99"),
			Category: "MAIN_COURSE", IsVegetarian: true, IsAvailable: true, ImageURL: "/assets/images/dishes/veg-curry.jpg", PreparationTime: 20, SpiceLevel: "MILD"},
		{Name: "Dal Tadka", Description: "Yellow lentils with tempered spices", Price: decimal.RequireFromString("8.99"),
			Category: "MAIN_COURSE", IsVegetarian: true, IsAvailable: true, ImageURL: "/assets/images/dishes/dal-tadka.jpg", PreparationTime: 15, SpiceLevel: "MILD"},
		{Name: "Masala Dosa", Description: "Crispy rice crepe with spiced potato filling", Price: decimal.RequireFromString("10.99"),
			Category: "BREAKFAST", IsVegetarian: true, IsAvailable: true, ImageURL: "/assets/images/dishes/masala-dosa.jpg", PreparationTime: 15, SpiceLevel: "MEDIUM"},
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		if err := tx.Create(&dishes).Error; err != nil {
			return fmt.Errorf("seed dishes: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
