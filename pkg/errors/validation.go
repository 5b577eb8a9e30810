package errors

import "github.com/autocrate/autocrate/pkg/geometry"

// Shared input checks used by the calculators. Each returns a structured
// error carrying the offending field name so CLI and API surfaces can report
// it without string matching.

// ValidatePositive checks that a dimension is meaningfully greater than zero.
func ValidatePositive(name string, v float64) error {
	if !geometry.Positive(v) {
		return New(ErrCodeInvalidDimension, "%s must be positive, got %.4f", name, v)
	}
	return nil
}

// ValidateNonNegative checks that a dimension is not meaningfully negative.
func ValidateNonNegative(name string, v float64) error {
	if geometry.Negative(v) {
		return New(ErrCodeInvalidDimension, "%s cannot be negative, got %.4f", name, v)
	}
	return nil
}

// ValidateCleatSpec checks that cleat thickness and width are both positive.
func ValidateCleatSpec(thickness, width float64) error {
	if !geometry.Positive(thickness) || !geometry.Positive(width) {
		return New(ErrCodeInvalidCleatSpec,
			"cleat dimensions must be positive, got thickness=%.4f width=%.4f", thickness, width)
	}
	return nil
}
