package models

// Setting is a key/value override row. A row, when present, takes precedence
// over the matching environment default for the same key.
type Setting struct {
	Key   string `gorm:"primaryKey;size:64" json:"key"`
	Value string `gorm:"size:512" json:"value"`
}
