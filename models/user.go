package models

import (
	"slices"
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer        UserRole = "CUSTOMER"
	RoleAdmin           UserRole = "ADMIN"
	RoleDeliveryPartner UserRole = "DELIVERY_PARTNER"
)

// AllRoles lists every role a session can carry.
var AllRoles = []UserRole{RoleCustomer, RoleAdmin, RoleDeliveryPartner}

// IsValid reports whether r is one of AllRoles.
func (r UserRole) IsValid() bool {
	return slices.Contains(AllRoles, r)
}

// User is an account of any role. Phone-only users created through OTP
// verification have an empty email and no password hash.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"index"`
	Phone        string    `json:"phone" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role" gorm:"not null;default:'CUSTOMER'"`
	IsActive     bool      `json:"isActive" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
