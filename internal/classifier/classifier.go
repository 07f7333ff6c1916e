// Package classifier scores raw sensor readings into a confidence value per
// disaster category using fixed weighted rules. It is the upstream signal
// the engine attaches opaquely to a result; it carries no temporal model.
package classifier

import (
	"math"

	"github.com/mkrell/consequence-mirror/internal/models"
)

// Reading holds raw sensor inputs. Fields irrelevant to a category are
// ignored by its rule; a nil field means the sensor reported nothing.
type Reading struct {
	Magnitude      *float64 `json:"magnitude,omitempty"`       // seismic, Richter
	WindSpeed      *float64 `json:"wind_speed,omitempty"`      // km/h
	WaterLevel     *float64 `json:"water_level,omitempty"`     // meters
	Precipitation  *float64 `json:"precipitation,omitempty"`   // mm
	SoilSaturation *float64 `json:"soil_saturation,omitempty"` // percent
}

type Band string

const (
	BandLow      Band = "Low"
	BandWatch    Band = "Watch"
	BandElevated Band = "Elevated"
	BandHigh     Band = "High"
)

// Confidence is the classifier output: a score in [0,1] and its band.
type Confidence struct {
	Score float64 `json:"score"`
	Band  Band    `json:"band"`
}

// baseConfidence applies when a category's rule has no usable sensor data.
const baseConfidence = 0.50

// Classify applies the category's weighted rule to the readings. Pure and
// deterministic; unknown categories fall back to the base confidence.
func Classify(category models.DisasterCategory, r Reading) Confidence {
	var score float64
	switch category {
	case models.CategoryEarthquake, models.CategoryTsunami:
		score = seismicScore(r)
	case models.CategoryCyclone:
		score = windScore(r)
	case models.CategoryFlood:
		score = floodScore(r)
	case models.CategoryDrought, models.CategoryWildfire:
		score = drynessScore(r)
	default:
		score = baseConfidence
	}
	score = clamp01(round2(score))
	return Confidence{Score: score, Band: bandFor(score)}
}

// Magnitude dominates; 0.6 weight against a 0.4 prior, tiered like the
// source research tables (>=7.0 magnitude maps to high confidence).
func seismicScore(r Reading) float64 {
	if r.Magnitude == nil {
		return baseConfidence
	}
	weighted := 0.6*math.Min(*r.Magnitude/10.0, 1.0) + 0.4*baseConfidence
	switch {
	case weighted >= 0.62:
		return 0.88
	case weighted >= 0.50:
		return 0.75
	case weighted >= 0.40:
		return 0.65
	case weighted >= 0.30:
		return 0.55
	default:
		return 0.15
	}
}

func windScore(r Reading) float64 {
	if r.WindSpeed == nil {
		return baseConfidence
	}
	switch v := *r.WindSpeed; {
	case v >= 180:
		return 0.90
	case v >= 120:
		return 0.78
	case v >= 90:
		return 0.62
	case v >= 60:
		return 0.45
	default:
		return 0.25
	}
}

// Flood needs both precipitation and ground state; either alone is weak.
func floodScore(r Reading) float64 {
	if r.Precipitation == nil || r.SoilSaturation == nil {
		if r.WaterLevel != nil && *r.WaterLevel >= 4.0 {
			return 0.70
		}
		return baseConfidence
	}
	p, s := *r.Precipitation, *r.SoilSaturation
	switch {
	case p > 100 && s > 80:
		return 0.88
	case p > 80 && s > 70:
		return 0.75
	case p > 60 && s > 60:
		return 0.65
	case p > 40:
		return 0.55
	default:
		return 0.40
	}
}

func drynessScore(r Reading) float64 {
	if r.SoilSaturation == nil {
		return baseConfidence
	}
	// Low saturation raises dryness-driven risk.
	dryness := 1 - clamp01(*r.SoilSaturation/100)
	return 0.3 + 0.6*dryness
}

func bandFor(score float64) Band {
	switch {
	case score >= 0.85:
		return BandHigh
	case score >= 0.60:
		return BandElevated
	case score >= 0.30:
		return BandWatch
	default:
		return BandLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
