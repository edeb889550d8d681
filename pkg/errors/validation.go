package errors

import (
	"math"
	"slices"
	"strings"
)

// ValidatePositive rejects zero and negative counts.
func ValidatePositive(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be a positive integer, got %d", name, v)
	}
	return nil
}

// ValidatePositiveFloat rejects non-positive, NaN and infinite values.
func ValidatePositiveFloat(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be a positive number, got %g", name, v)
	}
	return nil
}

// ValidateUnitRange checks that v lies in the closed interval [0, 1].
func ValidateUnitRange(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be within [0,1], got %g", name, v)
	}
	return nil
}

// ValidateOneOf checks that v is one of the allowed choices.
func ValidateOneOf(name, v string, allowed []string) error {
	if slices.Contains(allowed, v) {
		return nil
	}
	return New(ErrCodeInvalidMode, "invalid %s: %q (must be one of: %s)", name, v, strings.Join(allowed, ", "))
}
