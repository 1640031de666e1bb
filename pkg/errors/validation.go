package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxNameLength bounds structure names so they stay usable as cache-key
// components and table cells.
const maxNameLength = 256

// ValidateName validates a structure name.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return Validation("name", "structure name cannot be empty")
	}

	if len(name) > maxNameLength {
		return Validation("name", "structure name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return Validation("name", "structure name contains invalid control characters")
		}
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Validation(field, "must be finite, got %v", v)
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly positive.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return Validation(field, "must be positive, got %g", v)
	}
	return nil
}

// ValidateNonNegative rejects negative counts.
func ValidateNonNegative(field string, v int) error {
	if v < 0 {
		return Validation(field, "must not be negative, got %d", v)
	}
	return nil
}
