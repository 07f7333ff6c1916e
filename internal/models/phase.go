package models

// Phase is one of the four fixed checkpoints a trajectory is sampled at.
type Phase struct {
	Day   int    `json:"day"`
	Label string `json:"label"`
}

var phases = []Phase{
	{Day: 0, Label: "Immediate"},
	{Day: 3, Label: "Acute Response"},
	{Day: 10, Label: "Secondary Effects"},
	{Day: 30, Label: "Long-Term Recovery"},
}

// Phases returns the fixed checkpoint schedule in ascending day order.
// Callers must not mutate the returned slice elements' ordering assumptions;
// a fresh slice is returned on every call.
func Phases() []Phase {
	out := make([]Phase, len(phases))
	copy(out, phases)
	return out
}

// PhaseCount is the number of checkpoints every trajectory carries.
const PhaseCount = 4

type SupplyState string

const (
	SupplySufficient       SupplyState = "Sufficient"
	SupplyDepleting        SupplyState = "Depleting"
	SupplyCriticalShortage SupplyState = "Critical Shortage"
	SupplySystemCollapse   SupplyState = "System Collapse"
)

// Rank orders supply states from least (0) to most severe (3).
func (s SupplyState) Rank() int {
	switch s {
	case SupplySufficient:
		return 0
	case SupplyDepleting:
		return 1
	case SupplyCriticalShortage:
		return 2
	case SupplySystemCollapse:
		return 3
	}
	return -1
}

type TriageLevel string

const (
	TriageStandard      TriageLevel = "Standard"
	TriageEmergency     TriageLevel = "Emergency"
	TriageCatastrophic  TriageLevel = "Catastrophic"
	TriageSystemFailure TriageLevel = "System Failure"
)

// Rank orders triage levels from least (0) to most severe (3).
func (t TriageLevel) Rank() int {
	switch t {
	case TriageStandard:
		return 0
	case TriageEmergency:
		return 1
	case TriageCatastrophic:
		return 2
	case TriageSystemFailure:
		return 3
	}
	return -1
}
