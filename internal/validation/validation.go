// Package validation rejects malformed or out-of-range input before any
// persistence call. Bounds live here, not in the UI or the database, so the
// same guarantees hold regardless of which backend persists the record.
package validation

import (
	"fmt"
	"strings"

	"github.com/carebook/carebook/internal/daykey"
)

// FieldError is one (field path, message) pair.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the structured validation failure surfaced to callers. Its
// Error rendering joins the pairs into one human-readable string.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// OrNil returns the list as an error, or nil when no field failed.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e *FieldErrors) add(field, format string, args ...any) {
	*e = append(*e, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *FieldErrors) ownerKey(v string) {
	if v == "" {
		e.add("ownerKey", "is required")
	} else if len(v) > 64 {
		e.add("ownerKey", "must be at most 64 characters")
	}
}

func (e *FieldErrors) dayKey(field, v string) {
	if err := daykey.Assert(v); err != nil {
		e.add(field, "must be YYYY-MM-DD")
	}
}

func (e *FieldErrors) requireText(field, v string, max int) {
	if strings.TrimSpace(v) == "" {
		e.add(field, "is required")
	} else if len(v) > max {
		e.add(field, "must be at most %d characters", max)
	}
}

func (e *FieldErrors) optionalText(field, v string, max int) {
	if len(v) > max {
		e.add(field, "must be at most %d characters", max)
	}
}

func (e *FieldErrors) numberRange(field string, v, min, max float64) {
	if v < min || v > max {
		e.add(field, "must be between %v and %v", min, max)
	}
}

func (e *FieldErrors) intRange(field string, v, min, max int) {
	if v < min || v > max {
		e.add(field, "must be between %d and %d", min, max)
	}
}
