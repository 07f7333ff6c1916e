package models

// HospitalStatus is the health-system slice of a phase record. Bed occupancy
// is a percentage and may exceed 100 to express overflow.
type HospitalStatus struct {
	BedOccupancyPercent float64     `json:"bed_occupancy_percent"`
	CriticalSupplies    SupplyState `json:"critical_supplies"`
	TriageLevel         TriageLevel `json:"triage_level"`
	SpecialtyTag        string      `json:"specialty_tag"`
	SpecialtyPercent    float64     `json:"specialty_percent"`
}

// InfrastructureStatus carries per-system status labels for one checkpoint.
type InfrastructureStatus struct {
	Power     string `json:"power"`
	Comms     string `json:"comms"`
	Water     string `json:"water"`
	Transport string `json:"transport"`
}

// Narrative is the filled-template text for each impact layer. Templates live
// in the catalog; only computed figures are interpolated.
type Narrative struct {
	Human          string `json:"human"`
	Infrastructure string `json:"infrastructure"`
	Health         string `json:"health"`
}

// PhaseRecord is the fully populated state of the trajectory at one
// checkpoint. Identical inputs always produce an identical record.
type PhaseRecord struct {
	Phase                  Phase                `json:"phase"`
	DisplacedHouseholds    int                  `json:"displaced_households"`
	TraumaCapacityLoad     float64              `json:"trauma_capacity_load_percent"`
	Infrastructure         InfrastructureStatus `json:"infrastructure"`
	EconomicLossMillions   float64              `json:"economic_loss_millions"`
	HospitalOverflowRate   float64              `json:"hospital_overflow_rate"`
	WaterContaminationProb float64              `json:"water_contamination_prob"`
	DiseaseVectorRisk      float64              `json:"disease_vector_risk"`
	Hospital               HospitalStatus       `json:"hospital"`
	ReadinessScore         float64              `json:"readiness_score"`
	ChainReactions         []string             `json:"chain_reactions"`
	Narrative              Narrative            `json:"narrative"`
}

// CostOfDelay aggregates the cumulative penalty of waiting before the first
// response action. Every field is non-negative and non-decreasing in delay.
type CostOfDelay struct {
	CasualtyRiskPercent     float64 `json:"casualty_risk_percent"`
	DirectDamage            float64 `json:"direct_damage"`
	IndirectLoss            float64 `json:"indirect_loss"`
	CumulativeDamagePercent float64 `json:"cumulative_damage_percent"`
}

// ConsequenceResult is the immutable output of one simulation. The phase list
// always holds exactly PhaseCount records in ascending day order, and
// ReadinessScore is the minimum across them (worst case).
type ConsequenceResult struct {
	Category       DisasterCategory `json:"category"`
	DelayDays      int              `json:"delay_days"`
	ReadinessScore float64          `json:"readiness_score"`
	Phases         []PhaseRecord    `json:"phases"`
	CostOfDelay    CostOfDelay      `json:"cost_of_delay"`
	// Confidence is an opaque upstream signal (see classifier); nil when the
	// caller supplied none.
	Confidence *float64 `json:"confidence,omitempty"`
}
