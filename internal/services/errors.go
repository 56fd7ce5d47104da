package services

import (
	"errors"

	"github.com/tokoyanto/nota/internal/validation"
)

var (
	// ErrNotFound is returned when a referenced customer or nota does not exist.
	ErrNotFound = errors.New("not_found")

	// ErrPublishRejected is returned when a nota with a zero total is published.
	// User-actionable, not a system fault.
	ErrPublishRejected = errors.New("publish_rejected")

	// ErrSequenceConflict is returned when reserving the next nota number keeps
	// failing under contention. The caller should retry the whole creation.
	ErrSequenceConflict = errors.New("sequence_conflict")
)

// ValidationError carries the per-field violations of a structurally invalid
// input. Surfaced immediately, never silently corrected.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return "validation_failed" }

// AsValidation extracts a *ValidationError from err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
