package models

import "strings"

type DisasterCategory string

const (
	CategoryFlood      DisasterCategory = "Flood"
	CategoryCyclone    DisasterCategory = "Cyclone"
	CategoryTsunami    DisasterCategory = "Tsunami"
	CategoryEarthquake DisasterCategory = "Earthquake"
	CategoryWildfire   DisasterCategory = "Wildfire"
	CategoryDrought    DisasterCategory = "Drought"
	CategoryPandemic   DisasterCategory = "Pandemic"
	CategoryTerrorism  DisasterCategory = "Terrorism"
	CategoryNuclear    DisasterCategory = "Nuclear"
	CategoryVolcano    DisasterCategory = "Volcano"
)

// Categories returns the ten supported categories in their canonical order.
func Categories() []DisasterCategory {
	return []DisasterCategory{
		CategoryFlood,
		CategoryCyclone,
		CategoryTsunami,
		CategoryEarthquake,
		CategoryWildfire,
		CategoryDrought,
		CategoryPandemic,
		CategoryTerrorism,
		CategoryNuclear,
		CategoryVolcano,
	}
}

// ParseCategory matches a category name case-insensitively. The second
// return value reports whether the input named a supported category.
func ParseCategory(s string) (DisasterCategory, bool) {
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

func (c DisasterCategory) String() string {
	return string(c)
}
