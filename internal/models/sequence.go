package models

import "time"

// NotaSequence tracks the last nota sequence number issued per customer code.
// LastNumber is monotonically non-decreasing once the row exists; only the
// numbering service writes this table.
type NotaSequence struct {
	Code       string    `gorm:"primaryKey;size:10" json:"code"`
	LastNumber int64     `gorm:"not null;default:0" json:"last_number"`
	UpdatedAt  time.Time `json:"updated_at"`
}
