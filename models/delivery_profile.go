package models

import "time"

// Location is a latitude/longitude pair in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DeliveryProfile is a delivery partner's live working state. A partner
// without a row is offline with no known location.
type DeliveryProfile struct {
	UserID            uint       `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	IsOnline          bool       `json:"isOnline" gorm:"not null"`
	Lat               *float64   `json:"-"`
	Lng               *float64   `json:"-"`
	LocationUpdatedAt *time.Time `json:"locationUpdatedAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// CurrentLocation returns the last reported position, nil if none.
func (p *DeliveryProfile) CurrentLocation() *Location {
	if p.Lat == nil || p.Lng == nil {
		return nil
	}
	return &Location{Lat: *p.Lat, Lng: *p.Lng}
}
