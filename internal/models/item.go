package models

import "time"

// Item is a catalog product with a bilingual display name.
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `gorm:"size:255;not null" json:"name"`
	NameMandarin string `gorm:"size:255" json:"name_mandarin,omitempty"`
}

// Unit is a unit-of-measure label offered when composing nota lines.
type Unit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}
