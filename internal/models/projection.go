package models

import "time"

// ProjectionRecord is one persisted simulation outcome: enough top-line
// figures to filter on, plus the full result for replay. Records are
// write-once; history is append-only.
type ProjectionRecord struct {
	ID                  string            `json:"id"`
	Category            DisasterCategory  `json:"category"`
	DelayDays           int               `json:"delay_days"`
	ReadinessScore      float64           `json:"readiness_score"`
	CasualtyRiskPercent float64           `json:"casualty_risk_percent"`
	Result              ConsequenceResult `json:"result"`
	CreatedAt           time.Time         `json:"created_at"`
}
