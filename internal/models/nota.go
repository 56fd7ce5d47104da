package models

import (
	"time"
)

// NotaStatus represents the lifecycle state of a nota.
type NotaStatus string

const (
	NotaStatusDraft     NotaStatus = "draft"
	NotaStatusPublished NotaStatus = "published"
)

// PaymentStatus tracks whether a nota has been paid. It is independent of the
// draft/published lifecycle.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// Nota is one invoice document. It owns its lines; the customer is referenced,
// not owned.
type Nota struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	// Number is the customer code followed by a zero-padded 4-digit sequence,
	// e.g. "GI0007". Assigned once at creation and never changed afterwards.
	Number string `gorm:"size:50;uniqueIndex;not null" json:"number"`

	NotaDate time.Time  `gorm:"not null;index" json:"nota_date"`
	DueDate  *time.Time `json:"due_date,omitempty"`

	Status        NotaStatus    `gorm:"size:20;default:'draft'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:20;default:'unpaid'" json:"payment_status"`

	// LastEditedAt records corrective edits made after publication.
	LastEditedAt *time.Time `json:"last_edited_at,omitempty"`

	Items []NotaItem `gorm:"foreignKey:NotaID" json:"items,omitempty"`
}

// IsDraft returns true while the nota can be freely edited without audit.
func (n *Nota) IsDraft() bool {
	return n.Status == NotaStatusDraft
}

// IsPublished returns true once the nota has been published.
func (n *Nota) IsPublished() bool {
	return n.Status == NotaStatusPublished
}

// Total sums the line amounts. Always derived from the lines, never stored:
// a caller-supplied total is not trusted for any decision.
func (n *Nota) Total() float64 {
	var total float64
	for _, it := range n.Items {
		total += it.Amount()
	}
	return total
}

// NotaItem is one product line. Name and NameMandarin are snapshots taken at
// composition time so later catalog edits do not rewrite printed notas.
type NotaItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	NotaID uint  `gorm:"index;not null" json:"nota_id"`
	Nota   *Nota `gorm:"foreignKey:NotaID" json:"-"`

	// Optional catalog reference; lines may also be free-form.
	ItemID *uint `gorm:"index" json:"item_id,omitempty"`
	Item   *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`

	Name         string  `gorm:"size:255;not null" json:"name"`
	NameMandarin string  `gorm:"size:255" json:"name_mandarin,omitempty"`
	Qty          float64 `gorm:"type:decimal(10,3);not null" json:"qty"`
	Unit         string  `gorm:"size:50;not null" json:"unit"`
	Price        float64 `gorm:"type:decimal(14,2);not null" json:"price"`

	// Position preserves the order lines were entered in.
	Position int `gorm:"default:0" json:"position"`
}

// Amount is the line total.
func (it *NotaItem) Amount() float64 {
	return it.Qty * it.Price
}
