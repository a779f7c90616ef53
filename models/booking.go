package models

import "time"

// Booking represents a reservation of a listing for a date range.
type Booking struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	ListingID     uint      `gorm:"index" json:"listing_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Guests        int       `json:"guests"`
	TotalPrice    float64   `json:"total_price"`
	Status        string    `gorm:"size:16;default:'pending'" json:"status"` // pending, confirmed, cancelled
	CustomerName  string    `gorm:"size:128" json:"customer_name"`
	CustomerPhone string    `gorm:"size:32" json:"customer_phone"`
	CreatedAt     time.Time `json:"created_at"`

	User    *User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user,omitempty"`
	Listing *Listing `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"listing,omitempty"`

	// Denormalized display fields populated on list reads, never persisted.
	UserName     string `gorm:"-" json:"user_name,omitempty"`
	ListingTitle string `gorm:"-" json:"listing_title,omitempty"`
}
