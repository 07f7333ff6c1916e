// Package cost estimates the cumulative penalty of intervention delay:
// casualty-risk increase and monetary loss, both compounding geometrically.
package cost

import (
	"math"

	"github.com/mkrell/consequence-mirror/internal/catalog"
	"github.com/mkrell/consequence-mirror/internal/decay"
	"github.com/mkrell/consequence-mirror/internal/models"
)

const (
	// baseCasualtyRiskPercent is category-independent; the category enters
	// through its hourly loss rate only.
	baseCasualtyRiskPercent = 5.0
	baseDamagePercent       = 10.0

	directDamageShare = 0.6
	indirectLossShare = 0.4

	hoursPerDay = 24.0
)

// Estimate computes the cost of delay for a category. All figures are
// non-negative and non-decreasing in delay; percentages cap at 100.
func Estimate(profile catalog.CategoryProfile, delayDays int) models.CostOfDelay {
	escalation := decay.CostEscalation(delayDays)
	elapsedHours := hoursPerDay * float64(clampNonNegative(delayDays))

	totalLoss := profile.BaseHourlyLoss * elapsedHours * escalation

	return models.CostOfDelay{
		CasualtyRiskPercent:     capPercent(round2(baseCasualtyRiskPercent * escalation)),
		DirectDamage:            math.Round(totalLoss * directDamageShare),
		IndirectLoss:            math.Round(totalLoss * indirectLossShare),
		CumulativeDamagePercent: capPercent(round2(baseDamagePercent * escalation)),
	}
}

func clampNonNegative(d int) int {
	if d < 0 {
		return 0
	}
	return d
}

func capPercent(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
