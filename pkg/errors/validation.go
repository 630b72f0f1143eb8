package errors

import (
	"math"
)

// ValidateDimension rejects non-positive domain extents.
func ValidateDimension(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %d", name, v)
	}
	return nil
}

// ValidateCount rejects zero or negative entity counts.
func ValidateCount(name string, n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be at least 1, got %d", name, n)
	}
	return nil
}

// ValidateAtMost rejects values above limit.
func ValidateAtMost(name string, v, limit int) error {
	if v > limit {
		return New(ErrCodeInvalidConfig, "%s must be at most %d, got %d", name, limit, v)
	}
	return nil
}

// ValidateRange checks that lo <= hi and both bounds are finite.
func ValidateRange(name string, lo, hi float64) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return New(ErrCodeInvalidConfig, "%s bounds must be finite", name)
	}
	if lo > hi {
		return New(ErrCodeInvalidConfig, "%s range is inverted: [%g, %g]", name, lo, hi)
	}
	return nil
}

// ValidateNonNegative rejects negative or non-finite distances.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidConfig, "%s must be a non-negative number, got %g", name, v)
	}
	return nil
}
