package models

import "time"

// OTPChallenge is a pending one-time code for a phone number.
type OTPChallenge struct {
	Phone     string    `json:"phone" gorm:"primaryKey"`
	Code      string    `json:"-" gorm:"not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
}

// IsExpired reports whether the challenge can no longer be used at now.
func (c *OTPChallenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
