package engine

import (
	"fmt"
	"math"

	"github.com/mkrell/consequence-mirror/internal/catalog"
	"github.com/mkrell/consequence-mirror/internal/decay"
	"github.com/mkrell/consequence-mirror/internal/hospital"
	"github.com/mkrell/consequence-mirror/internal/models"
)

// Per-checkpoint shares of the category baselines, indexed Day 0, 3, 10, 30.
// Displacement keeps growing through Day 30 (long-term displacement), while
// the economic share flattens once the bulk of direct damage has landed.
var (
	displacementShare = [models.PhaseCount]float64{0.14, 0.45, 1.05, 1.25}
	economicShare     = [models.PhaseCount]float64{0.2, 0.5, 1.0, 1.3}
)

// Delay sensitivity of the probability curves, per day.
const (
	contaminationDelayFactor = 0.08
	vectorDelayFactor        = 0.12
)

const hoursPerDay = 24.0

// Generator produces one fully populated phase record per checkpoint.
// It is a pure composition over the catalog, decay, and hospital models:
// identical inputs always yield an identical record.
type Generator struct {
	catalog *catalog.Catalog
}

func NewGenerator(c *catalog.Catalog) *Generator {
	return &Generator{catalog: c}
}

// Generate builds the record for one category, delay, and checkpoint.
func (g *Generator) Generate(category models.DisasterCategory, delayDays int, phase models.Phase) (models.PhaseRecord, error) {
	profile, err := g.catalog.Lookup(category)
	if err != nil {
		return models.PhaseRecord{}, err
	}

	idx, err := phaseIndex(phase)
	if err != nil {
		return models.PhaseRecord{}, err
	}

	d := clampDelay(delayDays)
	status := hospital.LoadFor(profile, d, phase)

	displaced := int(float64(profile.BaseDisplacement) * displacementShare[idx] * math.Exp(profile.DisplacementGrowth*float64(d)))
	contamination := capProb(round2(profile.Contamination[idx] * (1 + contaminationDelayFactor*float64(d))))
	vector := capProb(round2(profile.DiseaseVector[idx] * (1 + vectorDelayFactor*float64(d))))
	lossMillions := round2(profile.BaseHourlyLoss * hoursPerDay / 1e6 * economicShare[idx] * decay.CostEscalation(d))
	infra := infrastructureFor(profile.Hazard, d, phase)

	return models.PhaseRecord{
		Phase:                  phase,
		DisplacedHouseholds:    displaced,
		TraumaCapacityLoad:     status.BedOccupancyPercent,
		Infrastructure:         infra,
		EconomicLossMillions:   lossMillions,
		HospitalOverflowRate:   status.BedOccupancyPercent,
		WaterContaminationProb: contamination,
		DiseaseVectorRisk:      vector,
		Hospital:               status,
		ReadinessScore:         decay.ReadinessScore(d),
		ChainReactions:         profile.ChainReactions,
		Narrative: models.Narrative{
			Human:          fmt.Sprintf(profile.Templates.Human, displaced, status.BedOccupancyPercent),
			Infrastructure: fmt.Sprintf(profile.Templates.Infrastructure, infra.Power, lossMillions),
			Health:         fmt.Sprintf(profile.Templates.Health, status.BedOccupancyPercent, contamination*100),
		},
	}, nil
}

// infrastructureFor derives per-system status labels from the hazard class,
// the delay, and the checkpoint. Fixed thresholds only.
func infrastructureFor(hazard catalog.Hazard, delayDays int, phase models.Phase) models.InfrastructureStatus {
	day := phase.Day

	power := "Operational"
	switch {
	case delayDays == 0:
	case delayDays < 3:
		power = "Grid Unstable"
	case day >= 10 && hazard == catalog.HazardHydrological:
		power = "Substation Flooded"
	case day >= 10:
		power = "Grid Failure"
	default:
		power = "Grid Unstable"
	}

	comms := "Operational"
	switch {
	case delayDays == 0:
	case delayDays >= 3 && day >= 3:
		comms = "Blackout"
	default:
		comms = "Degraded"
	}

	water := "Operational"
	switch {
	case hazard == catalog.HazardHydrological && day >= 10 && delayDays >= 2:
		water = "Contamination Breach"
	case hazard == catalog.HazardHydrological && day >= 3 && delayDays >= 1:
		water = "Quality Degraded"
	case hazard == catalog.HazardClimatological && day >= 3 && delayDays >= 2:
		water = "Quality Degraded"
	case delayDays >= 5 && day >= 10:
		water = "Quality Degraded"
	}

	transport := "Operational"
	switch {
	case hazard == catalog.HazardHydrological && day >= 10 && delayDays >= 4:
		transport = "Highways Severed"
	case hazard == catalog.HazardHydrological && day >= 3 && delayDays >= 2:
		transport = "Major Routes Blocked"
	case delayDays >= 3 && day >= 3:
		transport = "Network Disrupted"
	}

	return models.InfrastructureStatus{
		Power:     power,
		Comms:     comms,
		Water:     water,
		Transport: transport,
	}
}

func phaseIndex(phase models.Phase) (int, error) {
	for i, p := range models.Phases() {
		if p.Day == phase.Day {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: day %d is not a checkpoint", ErrStructuralInvariant, phase.Day)
}

func clampDelay(d int) int {
	if d < decay.MinDelayDays {
		return decay.MinDelayDays
	}
	if d > decay.MaxDelayDays {
		return decay.MaxDelayDays
	}
	return d
}

func capProb(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
