package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a billing party. Its Code prefixes every nota number issued for
// it, so customers are soft-deleted: removing one must not disturb numbers
// already printed on past notas.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name      string `gorm:"size:255;not null" json:"name"`
	StoreName string `gorm:"size:255" json:"store_name"`
	Address   string `gorm:"size:500" json:"address,omitempty"`
	Phone     string `gorm:"size:50" json:"phone,omitempty"`

	// Code is the short uppercase prefix of nota numbers, e.g. "GI" in "GI0007".
	// Unique among active (non-deleted) customers.
	Code string `gorm:"size:10;uniqueIndex;not null" json:"code"`

	// RequireHeader controls whether the letterhead block is printed on this
	// customer's notas. Rendering only; it never affects the lifecycle.
	RequireHeader bool `gorm:"default:true" json:"require_header"`
}
