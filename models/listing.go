package models

import "time"

// Listing represents a rentable dacha/property advertised on the platform.
type Listing struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;index;not null" json:"title"`
	Region        string    `gorm:"size:64;index" json:"region"`
	Location      string    `gorm:"size:255" json:"location"`
	PricePerNight float64   `json:"price_per_night"`
	Rating        float64   `gorm:"default:0" json:"rating"`
	ReviewsCount  int       `gorm:"default:0" json:"reviews_count"`
	GuestsMax     int       `json:"guests_max"`
	Rooms         int       `json:"rooms"`
	Beds          int       `json:"beds"`
	Baths         int       `json:"baths"`
	Amenities     string    `gorm:"type:text" json:"amenities"` // JSON object like {"pool":true,"wifi":true}
	Images        string    `gorm:"type:text" json:"images"`    // JSON array of image URLs
	Description   string    `gorm:"type:text" json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
