// Package hospital derives the health-system state at a checkpoint from the
// decay multipliers and the category's specialty profile.
package hospital

import (
	"math"

	"github.com/mkrell/consequence-mirror/internal/catalog"
	"github.com/mkrell/consequence-mirror/internal/decay"
	"github.com/mkrell/consequence-mirror/internal/models"
)

// maxOccupancyPercent bounds the overflow domain. Occupancy past 100 models
// overflow; past this ceiling every category is indistinguishably collapsed.
const maxOccupancyPercent = 160.0

// Supply and triage tiers derive from fixed occupancy thresholds only,
// never from any random source.
const (
	supplyDepletingAt = 60.0
	warningAt         = 90.0
	collapseAt        = 100.0
	triageEmergencyAt = 50.0
)

// BaselineOccupancy is the zero-delay bed occupancy percent at a checkpoint.
// The Day-30 figure sits below the Day-10 peak: partial recovery.
func BaselineOccupancy(phase models.Phase) float64 {
	switch phase.Day {
	case 0:
		return 20
	case 3:
		return 45
	case 10:
		return 70
	case 30:
		return 60
	}
	return 20
}

// LoadFor computes the hospital status for one category, delay, and phase.
func LoadFor(profile catalog.CategoryProfile, delayDays int, phase models.Phase) models.HospitalStatus {
	occupancy := BaselineOccupancy(phase) * decay.HospitalSaturation(delayDays)
	if occupancy > maxOccupancyPercent {
		occupancy = maxOccupancyPercent
	}
	occupancy = round1(occupancy)

	return models.HospitalStatus{
		BedOccupancyPercent: occupancy,
		CriticalSupplies:    suppliesFor(occupancy),
		TriageLevel:         triageFor(occupancy),
		SpecialtyTag:        profile.SpecialtyTag,
		SpecialtyPercent:    round1(occupancy * profile.SpecialtyMultiplier),
	}
}

func suppliesFor(occupancy float64) models.SupplyState {
	switch {
	case occupancy < supplyDepletingAt:
		return models.SupplySufficient
	case occupancy < warningAt:
		return models.SupplyDepleting
	case occupancy < collapseAt:
		return models.SupplyCriticalShortage
	default:
		return models.SupplySystemCollapse
	}
}

func triageFor(occupancy float64) models.TriageLevel {
	switch {
	case occupancy < triageEmergencyAt:
		return models.TriageStandard
	case occupancy < warningAt:
		return models.TriageEmergency
	case occupancy < collapseAt:
		return models.TriageCatastrophic
	default:
		return models.TriageSystemFailure
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
