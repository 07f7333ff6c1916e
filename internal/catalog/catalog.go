package catalog

import (
	"errors"
	"fmt"

	"github.com/mkrell/consequence-mirror/internal/models"
)

// ErrUnknownCategory is returned by Lookup for any category outside the
// fixed ten. It is a caller-correctable error, not a crash.
var ErrUnknownCategory = errors.New("unknown disaster category")

// Hazard groups categories by the infrastructure failure mode they drive.
type Hazard string

const (
	HazardHydrological   Hazard = "hydrological"
	HazardGeophysical    Hazard = "geophysical"
	HazardClimatological Hazard = "climatological"
	HazardBiological     Hazard = "biological"
	HazardHuman          Hazard = "human"
)

// Templates holds the per-layer narrative templates. Placeholders are filled
// with computed figures only; no free text is generated.
type Templates struct {
	Human          string // verbs: %d households, %.1f trauma load
	Infrastructure string // verbs: %s power status, %.2f loss millions
	Health         string // verbs: %.1f overflow, %.0f contamination percent
}

// CategoryProfile is the immutable parameter set for one disaster category.
type CategoryProfile struct {
	Category            models.DisasterCategory
	Hazard              Hazard
	BaseHourlyLoss      float64 // currency units per hour
	BaseDisplacement    int     // households at full phase share
	DisplacementGrowth  float64 // per-day exponential rate under delay
	SpecialtyTag        string
	SpecialtyMultiplier float64
	ChainReactions      []string // ordered, delay-independent
	Contamination       [models.PhaseCount]float64
	DiseaseVector       [models.PhaseCount]float64
	Templates           Templates
}

// Per-phase base curves, indexed by checkpoint position (Day 0, 3, 10, 30).
// The Day-30 entry dips below the Day-10 peak: partial recovery is permitted.
var (
	contaminationWaterborne = [models.PhaseCount]float64{0.12, 0.64, 0.89, 0.70}
	contaminationVolcanic   = [models.PhaseCount]float64{0.08, 0.45, 0.75, 0.55}
	contaminationDefault    = [models.PhaseCount]float64{0.05, 0.30, 0.60, 0.40}

	vectorWaterborne = [models.PhaseCount]float64{0.12, 0.48, 0.82, 0.66}
	vectorEpidemic   = [models.PhaseCount]float64{0.15, 0.55, 0.89, 0.74}
	vectorDefault    = [models.PhaseCount]float64{0.05, 0.25, 0.50, 0.35}
)

// Catalog is the process-wide, read-only category lookup.
type Catalog struct {
	profiles map[models.DisasterCategory]CategoryProfile
}

// New builds the catalog for the ten fixed categories.
func New() *Catalog {
	profiles := map[models.DisasterCategory]CategoryProfile{
		models.CategoryFlood: {
			Category:            models.CategoryFlood,
			Hazard:              HazardHydrological,
			BaseHourlyLoss:      150_000,
			BaseDisplacement:    6_000,
			DisplacementGrowth:  0.050,
			SpecialtyTag:        "waterborne-disease ward",
			SpecialtyMultiplier: 1.30,
			ChainReactions:      []string{"Sewage breach", "Waterborne disease outbreak", "Crop destruction"},
			Contamination:       contaminationWaterborne,
			DiseaseVector:       vectorWaterborne,
			Templates: Templates{
				Human:          "Flood waters displace %d households; trauma capacity at %.1f%% load",
				Infrastructure: "Power: %s; projected flood damage $%.2fM",
				Health:         "Hospital overflow %.1f%%; sewage-breach contamination probability %.0f%%",
			},
		},
		models.CategoryCyclone: {
			Category:            models.CategoryCyclone,
			Hazard:              HazardHydrological,
			BaseHourlyLoss:      180_000,
			BaseDisplacement:    8_000,
			DisplacementGrowth:  0.040,
			SpecialtyTag:        "emergency trauma unit",
			SpecialtyMultiplier: 1.35,
			ChainReactions:      []string{"Power grid failure", "Storm surge flooding", "Supply chain disruption"},
			Contamination:       contaminationWaterborne,
			DiseaseVector:       vectorDefault,
			Templates: Templates{
				Human:          "Wind damage displaces %d households; trauma capacity at %.1f%% load",
				Infrastructure: "Power: %s; projected wind and surge damage $%.2fM",
				Health:         "Hospital overflow %.1f%%; water contamination probability %.0f%%",
			},
		},
		models.CategoryTsunami: {
			Category:            models.CategoryTsunami,
			Hazard:              HazardHydrological,
			BaseHourlyLoss:      200_000,
			BaseDisplacement:    12_000,
			DisplacementGrowth:  0.044,
			SpecialtyTag:        "trauma surgery",
			SpecialtyMultiplier: 1.40,
			ChainReactions:      []string{"Saltwater contamination", "Debris field blockage", "Port shutdown"},
			Contamination:       contaminationWaterborne,
			DiseaseVector:       vectorWaterborne,
			Templates: Templates{
				Human:          "Inundation displaces %d households; trauma capacity at %.1f%% load",
				Infrastructure: "Power: %s; projected inundation damage $%.2fM",
				Health:         "Hospital overflow %.1f%%; saltwater contamination probability %.0f%%",
			},
		},
		models.CategoryEarthquake: {
			Category:            models.CategoryEarthquake,
			Hazard:              HazardGeophysical,
			BaseHourlyLoss:      220_000,
			BaseDisplacement:    10_000,
			DisplacementGrowth:  0.042,
			SpecialtyTag:        "orthopedic trauma",
			SpecialtyMultiplier: 1.50,
			ChainReactions:      []string{"Aftershock structural collapse", "Gas line fires", "Landslides"},
			Contamination:       contaminationDefault,
			DiseaseVector:       vectorDefault,
			Templates: Templates{
				Human:          "Structural collapse displaces %d households; trauma capacity at %.1f%% load",
				Infrastructure: "Power: %s; projected structural damage $%.2fM",
				Health:         "Hospital overflow %.1f%%; water contamination probability %.0f%%",
			},
		},
		models.CategoryWildfire: {
			Category:            models.CategoryWildfire,
			Hazard:              HazardClimatological,
			BaseHourlyLoss:      120_000,
			BaseDisplacement:    4_000,
			DisplacementGrowth:  0.038,
			SpecialtyTag:        "burn unit",
			SpecialtyMultiplier: 1.60,
			ChainReactions:      []string{"Air quality collapse", "Watershed erosion", "Preventive power shutoffs"},
			Contamination:       contaminationDefault,
			DiseaseVector:       vectorDefault,
			Templates: Templates{
				Human:          "Fire front displaces %d households; trauma capacity at %.1f%% load",
				Infrastructure: "Power: %s; projected fire damage $%.2fM",
				Health:         "Hospital overflow %.1f%%; water contamination probability %.0f%%",
			},
		},
		models.CategoryDrought: {
			Category:            models.CategoryDrought,
			Hazard:              HazardClimatological,
			BaseHourlyLoss:      100_000,
			BaseDisplacement:    15_000,
			DisplacementGrowth:  0.036,
			SpecialtyTag:        "malnutrition ward",
			SpecialtyMultiplier: 1.20,
			ChainReactions:      []string{"Crop failure", "Livestock loss", "Water rationing"},
			Contamination:       contaminationDefault,
			DiseaseVector:       vectorDefault,
			Templates: Templates{
				Human:          "Water scarcity displaces %d households; trauma capacity at %.1f%% load",
				Infrastructure: "Power: %s; projected agricultural loss $%.2fM",
				Health:         "Hospital overflow %.1f%%; water contamination probability %.0f%%",
			},
		},
		models.CategoryPandemic: {
			Category:            models.CategoryPandemic,
			Hazard:              HazardBiological,
			BaseHourlyLoss:      300_000,
			BaseDisplacement:    20_000,
			DisplacementGrowth:  0.046,
			SpecialtyTag:        "isolation ICU",
			SpecialtyMultiplier: 1.80,
			ChainReactions:      []string{"Healthcare worker attrition", "Supply hoarding", "Workforce absenteeism"},
			Contamination:       contaminationDefault,
			DiseaseVector:       vectorEpidemic,
			Templates: Templates{
				Human:          "Quarantine measures displace %d households; trauma capacity at %.1f%% load",
				Infrastructure: "Power: %s; projected economic disruption $%.2fM",
				Health:         "Hospital overflow %.1f%%; water contamination probability %.0f%%",
			},
		},
		models.CategoryTerrorism: {
			Category:            models.CategoryTerrorism,
			Hazard:              HazardHuman,
			BaseHourlyLoss:      350_000,
			BaseDisplacement:    3_000,
			DisplacementGrowth:  0.034,
			SpecialtyTag:        "surgical trauma",
			SpecialtyMultiplier: 1.55,
			ChainReactions:      []string{"Mass evacuation", "Transit shutdown", "Security cordons"},
			Contamination:       contaminationDefault,
			DiseaseVector:       vectorDefault,
			Templates: Templates{
				Human:          "Evacuation displaces %d households; trauma capacity at %.1f%% load",
				Infrastructure: "Power: %s; projected direct damage $%.2fM",
				Health:         "Hospital overflow %.1f%%; water contamination probability %.0f%%",
			},
		},
		models.CategoryNuclear: {
			Category:            models.CategoryNuclear,
			Hazard:              HazardHuman,
			BaseHourlyLoss:      400_000,
			BaseDisplacement:    50_000,
			DisplacementGrowth:  0.048,
			SpecialtyTag:        "radiation medicine ward",
			SpecialtyMultiplier: 1.90,
			ChainReactions:      []string{"Radiation plume spread", "Exclusion zone displacement", "Food chain contamination"},
			Contamination:       contaminationDefault,
			DiseaseVector:       vectorDefault,
			Templates: Templates{
				Human:          "Exclusion zone displaces %d households; trauma capacity at %.1f%% load",
				Infrastructure: "Power: %s; projected containment and loss $%.2fM",
				Health:         "Hospital overflow %.1f%%; contamination probability %.0f%%",
			},
		},
		models.CategoryVolcano: {
			Category:            models.CategoryVolcano,
			Hazard:              HazardGeophysical,
			BaseHourlyLoss:      250_000,
			BaseDisplacement:    5_000,
			DisplacementGrowth:  0.040,
			SpecialtyTag:        "respiratory ward",
			SpecialtyMultiplier: 1.45,
			ChainReactions:      []string{"Ash fall", "Respiratory admission surge", "Aviation shutdown"},
			Contamination:       contaminationVolcanic,
			DiseaseVector:       vectorDefault,
			Templates: Templates{
				Human:          "Ash fall displaces %d households; trauma capacity at %.1f%% load",
				Infrastructure: "Power: %s; projected ash and lava damage $%.2fM",
				Health:         "Hospital overflow %.1f%%; water contamination probability %.0f%%",
			},
		},
	}

	return &Catalog{profiles: profiles}
}

// Lookup returns the profile for a category, or ErrUnknownCategory. The
// returned value is a copy; the catalog is never mutated after New.
func (c *Catalog) Lookup(category models.DisasterCategory) (CategoryProfile, error) {
	p, ok := c.profiles[category]
	if !ok {
		return CategoryProfile{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	// ChainReactions is shared backing storage; hand out a copy so results
	// stay immutable even if a caller mutates its slice.
	reactions := make([]string, len(p.ChainReactions))
	copy(reactions, p.ChainReactions)
	p.ChainReactions = reactions
	return p, nil
}

// Categories returns the supported categories in canonical order.
func (c *Catalog) Categories() []models.DisasterCategory {
	return models.Categories()
}
