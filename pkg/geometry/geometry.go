// Package geometry provides the floating-point tolerance helpers shared by
// every layout calculator.
//
// All crate dimensions are inches expressed as float64. Comparing them with
// == invites spurious failures from accumulated rounding, so the calculators
// never compare raw floats: they go through ApproxEq/ApproxLE/ApproxGE with
// the single Epsilon constant defined here. Keeping one epsilon in one place
// keeps invariant checking consistent across the skid, floorboard, wall, and
// cap calculators.
package geometry

import "math"

// Epsilon is the absolute tolerance for dimension comparisons, in inches.
const Epsilon = 1e-6

// SpanEpsilon is the looser tolerance used for span-conservation checks,
// where several placements accumulate rounding error.
const SpanEpsilon = Epsilon * 10

// ApproxEq reports whether a and b are equal within Epsilon.
func ApproxEq(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// ApproxEqTol reports whether a and b are equal within tol.
func ApproxEqTol(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// ApproxLE reports whether a <= b within Epsilon.
func ApproxLE(a, b float64) bool {
	return a <= b+Epsilon
}

// ApproxGE reports whether a >= b within Epsilon.
func ApproxGE(a, b float64) bool {
	return a >= b-Epsilon
}

// Positive reports whether v is meaningfully greater than zero.
func Positive(v float64) bool {
	return v > Epsilon
}

// Negative reports whether v is meaningfully less than zero.
func Negative(v float64) bool {
	return v < -Epsilon
}

// Round4 rounds v to four decimal places, the precision carried through to
// CAD expression output.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*1e2) / 1e2
}
