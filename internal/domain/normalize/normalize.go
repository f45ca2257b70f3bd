// Package normalize holds the rules for bringing externally-sourced scores
// into the valid range. The external scorer is untrusted: finite values are
// clamped, everything else is rejected upstream of this package.
package normalize

import "math"

// Valid score bounds, inclusive.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// Clamp directions reported alongside a clamped score.
const (
	ClampNone = ""
	ClampLow  = "low"
	ClampHigh = "high"
)

// Clamp returns the score forced into [MinScore, MaxScore] and the
// direction of the adjustment, if any. The input must be finite; callers
// reject NaN/Inf before normalization.
func Clamp(score float64) (float64, string) {
	switch {
	case score < MinScore:
		return MinScore, ClampLow
	case score > MaxScore:
		return MaxScore, ClampHigh
	default:
		return score, ClampNone
	}
}

// InRange reports whether score is finite and within the valid bounds.
// The store uses this as a second line of defense behind ingestion.
func InRange(score float64) bool {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return false
	}
	return score >= MinScore && score <= MaxScore
}
