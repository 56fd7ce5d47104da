package services

import (
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tokoyanto/nota/internal/models"
	"github.com/tokoyanto/nota/internal/validation"
)

const reserveAttempts = 3

// FormatNumber renders a nota number: customer code followed by the sequence
// value zero-padded to 4 digits, e.g. ("GI", 7) -> "GI0007".
func FormatNumber(code string, n int64) string {
	return fmt.Sprintf("%s%04d", strings.ToUpper(code), n)
}

// NumberingService issues sequential nota numbers per customer code. It is the
// only writer of the nota_sequences table. Reservations for the same code are
// serialized with a per-code mutex on top of the enclosing DB transaction, so
// two concurrent creations can never be issued the same number.
type NumberingService struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewNumberingService(db *gorm.DB) *NumberingService {
	return &NumberingService{db: db, locks: map[string]*sync.Mutex{}}
}

func (s *NumberingService) lockFor(code string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[code]
	if !ok {
		l = &sync.Mutex{}
		s.locks[code] = l
	}
	return l
}

func normalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		v := validation.Violations{}
		validation.Required("code", code, v)
		return "", &ValidationError{Violations: v}
	}
	return code, nil
}

// LastNumber returns the stored counter for code, initializing a zero row when
// none exists yet. It never fails on a missing key.
func (s *NumberingService) LastNumber(code string) (int64, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return 0, err
	}
	seq := models.NotaSequence{Code: code}
	if err := s.db.Where("code = ?", code).FirstOrCreate(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastNumber, nil
}

// PeekNext previews the next nota number for code without persisting anything.
func (s *NumberingService) PeekNext(code string) (string, error) {
	last, err := s.LastNumber(code)
	if err != nil {
		return "", err
	}
	return FormatNumber(code, last+1), nil
}

// Commit overwrites the counter for code. Kept for the legacy API where the
// caller extracts the numeric suffix from a nota it already saved; new notas
// go through Reserve instead.
func (s *NumberingService) Commit(code string, value int64) error {
	code, err := normalizeCode(code)
	if err != nil {
		return err
	}
	if value < 0 {
		v := validation.Violations{"last_number": "must_not_be_negative"}
		return &ValidationError{Violations: v}
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_number": value}),
	}).Create(&models.NotaSequence{Code: code, LastNumber: value}).Error
}

// Reserve atomically increments the counter for code and runs fn inside the
// same transaction with the issued number. If fn fails the transaction rolls
// back, leaving the counter untouched: a failed nota creation never burns a
// number. Transient commit failures are retried; exhausted retries surface as
// ErrSequenceConflict.
func (s *NumberingService) Reserve(code string, fn func(tx *gorm.DB, number string, value int64) error) error {
	code, err := normalizeCode(code)
	if err != nil {
		return err
	}

	l := s.lockFor(code)
	l.Lock()
	defer l.Unlock()

	var lastErr error
	for attempt := 0; attempt < reserveAttempts; attempt++ {
		var fnErr error
		txErr := s.db.Transaction(func(tx *gorm.DB) error {
			// Same-code reservations are serialized by the mutex above, so a
			// plain read-increment-write inside the transaction is race-free.
			// (sqlite has no FOR UPDATE; the service runs as a single process.)
			seq := models.NotaSequence{Code: code}
			if err := tx.Where("code = ?", code).FirstOrCreate(&seq).Error; err != nil {
				return err
			}
			next := seq.LastNumber + 1
			if err := tx.Model(&models.NotaSequence{}).
				Where("code = ?", code).
				Update("last_number", next).Error; err != nil {
				return err
			}
			if fn != nil {
				if fnErr = fn(tx, FormatNumber(code, next), next); fnErr != nil {
					return fnErr
				}
			}
			return nil
		})
		if txErr == nil {
			return nil
		}
		if fnErr != nil {
			// Business failure inside fn: not a contention problem, do not retry.
			return fnErr
		}
		lastErr = txErr
	}
	return fmt.Errorf("%w: %v", ErrSequenceConflict, lastErr)
}
