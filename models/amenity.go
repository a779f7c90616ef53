package models

// Amenity is a localized amenity catalog entry (pool, wifi, sauna, ...).
type Amenity struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	NameUz string `gorm:"size:128;index" json:"name_uz"`
	NameRu string `gorm:"size:128;index" json:"name_ru"`
	NameEn string `gorm:"size:128;index" json:"name_en"`
	Icon   string `gorm:"size:255" json:"icon"` // Lucide icon name or URL
}
