package models

import "time"

// Review is a guest review left on a listing.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"index;not null" json:"listing_id"`
	UserName  string    `gorm:"size:128;index" json:"user_name"`
	Rating    int       `gorm:"default:5" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
