package domain

// Band is the qualitative health band derived from the total score
type Band string

const (
	BandExcellent Band = "Excellent"
	BandGood      Band = "Good"
	BandModerate  Band = "Moderate"
	BandPoor      Band = "Poor"
)

// Threshold is one tier of a scoring rule: values at or above Value receive Impact
type Threshold struct {
	Value  float64 `json:"threshold"`
	Impact int     `json:"score_impact"`
}

// ScoreComponent is the contribution of a single triggered rule
type ScoreComponent struct {
	RuleName    string      `json:"rule_name"`
	Value       float64     `json:"value"`
	ScoreImpact int         `json:"score_impact"`
	Description string      `json:"description"`
	Source      string      `json:"source"`
	Thresholds  []Threshold `json:"thresholds,omitempty"`
	Narrative   string      `json:"narrative,omitempty"`
}

// ScoreResult is the output of the scoring engine.
// TotalScore == clamp(Baseline + sum(component impacts), 0, 100).
type ScoreResult struct {
	TotalScore  int                       `json:"score"`
	Band        Band                      `json:"band"`
	Baseline    int                       `json:"baseline"`
	ScoreImpact int                       `json:"score_impact"`
	Components  map[string]ScoreComponent `json:"score_components"`
	Error       string                    `json:"error,omitempty"`
}

// AdvisoryHint is an optional, untrusted health-score suggestion from an external advisor
type AdvisoryHint struct {
	HealthScore float64 `json:"health_score"`
	Narrative   string  `json:"narrative,omitempty"`
	Source      string  `json:"source"`
}
