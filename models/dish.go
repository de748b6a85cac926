package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish is an orderable catalog item.
type Dish struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"not null"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Category        string          `json:"category"`
	IsVegetarian    bool            `json:"isVegetarian" gorm:"not null"`
	IsAvailable     bool            `json:"isAvailable" gorm:"not null"`
	ImageURL        string          `json:"imageUrl"`
	PreparationTime int             `json:"preparationTime"` // minutes
	SpiceLevel      string          `json:"spiceLevel"`
	CreatedAt       time.Time       `json:"-"`
	UpdatedAt       time.Time       `json:"-"`
}
