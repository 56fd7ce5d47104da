package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tokoyanto/nota/internal/models"
	"github.com/tokoyanto/nota/internal/validation"
)

// LineInput is one requested nota line. Name and price are snapshotted onto
// the nota so later catalog edits do not rewrite it.
type LineInput struct {
	ItemID       *uint   `json:"item_id,omitempty"`
	Name         string  `json:"name"`
	NameMandarin string  `json:"name_mandarin,omitempty"`
	Qty          float64 `json:"qty"`
	Unit         string  `json:"unit"`
	Price        float64 `json:"price"`
}

// CreateInput describes a nota to create. Publish=true creates it directly in
// the published state, subject to the zero-total gate.
type CreateInput struct {
	CustomerID    uint                 `json:"customer_id"`
	NotaDate      time.Time            `json:"nota_date"`
	DueDate       *time.Time           `json:"due_date,omitempty"`
	PaymentStatus models.PaymentStatus `json:"payment_status,omitempty"`
	Publish       bool                 `json:"publish,omitempty"`
	Lines         []LineInput          `json:"items"`
}

// UpdateInput replaces the mutable parts of a nota. The line set is replaced
// wholesale, matching how the nota editor submits.
type UpdateInput struct {
	CustomerID    uint                 `json:"customer_id"`
	NotaDate      time.Time            `json:"nota_date"`
	DueDate       *time.Time           `json:"due_date,omitempty"`
	PaymentStatus models.PaymentStatus `json:"payment_status,omitempty"`
	Lines         []LineInput          `json:"items"`
}

// ListFilter narrows the nota listing.
type ListFilter struct {
	Page          int
	Limit         int
	Status        models.NotaStatus
	PaymentStatus models.PaymentStatus
	Date          *time.Time // matches the calendar day
	CustomerID    uint
}

// NotaService owns the nota lifecycle: creation with a freshly reserved
// number, draft/published transitions, and total recomputation.
type NotaService struct {
	db        *gorm.DB
	numbering *NumberingService
}

func NewNotaService(db *gorm.DB, numbering *NumberingService) *NotaService {
	return &NotaService{db: db, numbering: numbering}
}

func validateLines(lines []LineInput) validation.Violations {
	v := validation.Violations{}
	if len(lines) == 0 {
		v["items"] = "required"
		return v
	}
	for i, l := range lines {
		prefix := fmt.Sprintf("items[%d].", i)
		validation.Required(prefix+"name", l.Name, v)
		validation.PositiveFloat(prefix+"qty", l.Qty, v)
		validation.Required(prefix+"unit", l.Unit, v)
		validation.NonNegativeFloat(prefix+"price", l.Price, v)
	}
	return v
}

func normalizePayment(p models.PaymentStatus) models.PaymentStatus {
	if p == models.PaymentStatusPaid {
		return p
	}
	return models.PaymentStatusUnpaid
}

// customer resolves an active (non-deleted) customer or ErrNotFound.
func (s *NotaService) customer(tx *gorm.DB, id uint) (*models.Customer, error) {
	if id == 0 {
		return nil, &ValidationError{Violations: validation.Violations{"customer_id": "required"}}
	}
	var c models.Customer
	if err := tx.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

func buildItems(lines []LineInput) []models.NotaItem {
	items := make([]models.NotaItem, 0, len(lines))
	for i, l := range lines {
		items = append(items, models.NotaItem{
			ItemID:       l.ItemID,
			Name:         l.Name,
			NameMandarin: l.NameMandarin,
			Qty:          l.Qty,
			Unit:         l.Unit,
			Price:        l.Price,
			Position:     i,
		})
	}
	return items
}

func lineTotal(lines []LineInput) float64 {
	var total float64
	for _, l := range lines {
		total += l.Qty * l.Price
	}
	return total
}

// Create builds a draft (or directly published) nota with a freshly reserved
// number. The reservation and the insert share one transaction: a failed
// creation leaves no counter update behind.
func (s *NotaService) Create(in CreateInput) (*models.Nota, error) {
	if v := validateLines(in.Lines); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	if in.NotaDate.IsZero() {
		return nil, &ValidationError{Violations: validation.Violations{"nota_date": "required"}}
	}
	cust, err := s.customer(s.db, in.CustomerID)
	if err != nil {
		return nil, err
	}

	status := models.NotaStatusDraft
	if in.Publish {
		// Total is recomputed from the lines here; a caller-claimed total is
		// never consulted.
		if lineTotal(in.Lines) <= 0 {
			return nil, ErrPublishRejected
		}
		status = models.NotaStatusPublished
	}

	var created models.Nota
	err = s.numbering.Reserve(cust.Code, func(tx *gorm.DB, number string, _ int64) error {
		created = models.Nota{
			CustomerID:    cust.ID,
			Number:        number,
			NotaDate:      in.NotaDate,
			DueDate:       in.DueDate,
			Status:        status,
			PaymentStatus: normalizePayment(in.PaymentStatus),
			Items:         buildItems(in.Lines),
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Get loads a nota with its lines and customer.
func (s *NotaService) Get(id uint) (*models.Nota, error) {
	var n models.Nota
	err := s.db.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Preload("Customer").
		First(&n, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("nota %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &n, nil
}

// List returns a page of notas matching the filter, newest nota date first.
func (s *NotaService) List(f ListFilter) ([]models.Nota, int64, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 5
	}
	offset := 0
	if f.Page > 1 {
		offset = (f.Page - 1) * limit
	}

	q := s.db.Model(&models.Nota{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.Date != nil {
		start := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, f.Date.Location())
		q = q.Where("nota_date >= ? AND nota_date < ?", start, start.AddDate(0, 0, 1))
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var notas []models.Nota
	err := q.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position asc") }).
		Preload("Customer").
		Order("nota_date desc").Order("id desc").
		Limit(limit).Offset(offset).
		Find(&notas).Error
	if err != nil {
		return nil, 0, err
	}
	return notas, total, nil
}

// Update replaces a nota's fields and line set. Published notas stay editable
// for corrections, but every such edit stamps LastEditedAt.
func (s *NotaService) Update(id uint, in UpdateInput) (*models.Nota, error) {
	if v := validateLines(in.Lines); !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}
	if in.NotaDate.IsZero() {
		return nil, &ValidationError{Violations: validation.Violations{"nota_date": "required"}}
	}

	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		cust, err := s.customer(tx, in.CustomerID)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"customer_id":    cust.ID,
			"nota_date":      in.NotaDate,
			"due_date":       in.DueDate,
			"payment_status": normalizePayment(in.PaymentStatus),
		}
		if existing.IsPublished() {
			updates["last_edited_at"] = time.Now()
		}
		if err := tx.Model(&models.Nota{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		// Replace the line set wholesale.
		if err := tx.Where("nota_id = ?", id).Delete(&models.NotaItem{}).Error; err != nil {
			return err
		}
		items := buildItems(in.Lines)
		for i := range items {
			items[i].NotaID = id
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Publish transitions a draft to published. The total is recomputed from the
// stored lines; zero totals are rejected. Republishing an already-published
// nota is an idempotent success.
func (s *NotaService) Publish(id uint) (*models.Nota, error) {
	n, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if n.IsPublished() {
		return n, nil
	}
	if n.Total() <= 0 {
		return nil, ErrPublishRejected
	}
	if err := s.db.Model(n).Update("status", models.NotaStatusPublished).Error; err != nil {
		return nil, err
	}
	n.Status = models.NotaStatusPublished
	return n, nil
}

// Delete removes a nota and its lines regardless of status. Issued numbers are
// never reused: the sequence counter is untouched.
func (s *NotaService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var n models.Nota
		if err := tx.First(&n, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("nota %d: %w", id, ErrNotFound)
			}
			return err
		}
		if err := tx.Where("nota_id = ?", id).Delete(&models.NotaItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&n).Error
	})
}
