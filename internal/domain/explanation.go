package domain

// Level is the severity tier assigned to a score component
type Level string

const (
	LevelExcellent Level = "excellent"
	LevelGood      Level = "good"
	LevelModerate  Level = "moderate"
	LevelPoor      Level = "poor"
	LevelVeryPoor  Level = "very_poor"
)

// OverallKey is the synthetic explanation key summarizing the whole score
const OverallKey = "overall"

// Explanation is the human-readable rendering of a score component (or of the overall score)
type Explanation struct {
	Title           string   `json:"title"`
	Text            string   `json:"explanation"`
	Level           Level    `json:"level,omitempty"`
	ScoreImpact     int      `json:"score_impact"`
	Value           float64  `json:"value,omitempty"`
	Recommendations []string `json:"recommendations"`
	Source          string   `json:"source,omitempty"`
	Band            Band     `json:"band,omitempty"`
	Score           int      `json:"score,omitempty"`
}

// ExplanationSet maps rule names (plus OverallKey) to explanations
type ExplanationSet map[string]Explanation

// Summary is the flattened view of a scored product consumed by single-shot callers
type Summary struct {
	Score           int      `json:"score"`
	Band            Band     `json:"band"`
	Explanations    []string `json:"explanations"`
	Recommendations []string `json:"recommendations"`
	Evidence        []string `json:"evidence"`
}
