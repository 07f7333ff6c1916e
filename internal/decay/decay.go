// Package decay maps intervention delay to early-warning readiness and to
// the saturation multipliers the load and cost models scale by. Every
// function is pure and closed-form.
package decay

import "math"

// Supported delay domain in whole days, matching the UI slider bound.
// Callers are expected to reject out-of-range delays before reaching this
// package; the functions here clamp defensively.
const (
	MinDelayDays = 0
	MaxDelayDays = 30
)

// Piecewise decay slopes, points per day of delay.
const (
	linearSlope       = 8.0  // days 1-2
	acceleratedSlope  = 15.0 // days 3-4
	criticalSlope     = 20.0 // days 5-6
	catastrophicSlope = 14.0 // day 7 onward, clamps toward 0
)

// smoothingRate shapes the post-piecewise exponential smoothing term
// 2*(e^(rate*d) - 1). It is strictly increasing in delay and zero at zero,
// so it never lifts the piecewise score and preserves monotonic decrease.
const smoothingRate = 0.12

// Saturation growth constants. The hospital and cost consumers represent
// different physical phenomena (bed pressure vs. monetary loss) and were
// calibrated independently; do not unify them.
const (
	hospitalGrowthRate = 0.045 // per day, applied as e^(rate*d)
	costGrowthFactor   = 1.5   // per day, applied as factor^d
)

// ReadinessScore maps a delay in days to a 0-100 early-warning readiness
// figure. Exactly 100 at zero delay, non-increasing in delay.
func ReadinessScore(delayDays int) float64 {
	d := clamp(delayDays)

	var score float64
	switch {
	case d == 0:
		score = 100
	case d <= 2:
		score = 100 - float64(d)*linearSlope
	case d <= 4:
		score = 100 - 2*linearSlope - float64(d-2)*acceleratedSlope
	case d <= 6:
		score = 100 - 2*linearSlope - 2*acceleratedSlope - float64(d-4)*criticalSlope
	default:
		score = 100 - 2*linearSlope - 2*acceleratedSlope - 2*criticalSlope - float64(d-6)*catastrophicSlope
	}

	score -= 2 * (math.Exp(smoothingRate*float64(d)) - 1)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return round1(score)
}

// HospitalSaturation returns the bed-pressure multiplier for a delay.
// Always >= 1, grows exponentially.
func HospitalSaturation(delayDays int) float64 {
	return math.Exp(hospitalGrowthRate * float64(clamp(delayDays)))
}

// CostEscalation returns the monetary-loss multiplier for a delay.
// Always >= 1, grows geometrically at costGrowthFactor per day.
func CostEscalation(delayDays int) float64 {
	return math.Pow(costGrowthFactor, float64(clamp(delayDays)))
}

func clamp(delayDays int) int {
	if delayDays < MinDelayDays {
		return MinDelayDays
	}
	if delayDays > MaxDelayDays {
		return MaxDelayDays
	}
	return delayDays
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
