package domain

import "time"

// Analysis is the complete result of running a product through the pipeline
type Analysis struct {
	ID           string                   `json:"id"`
	Product      *NormalizedProductRecord `json:"product"`
	Score        *ScoreResult             `json:"score"`
	Explanations ExplanationSet           `json:"explanations"`
	Summary      Summary                  `json:"summary"`
	AnalyzedAt   time.Time                `json:"analyzedAt"`
	Cached       bool                     `json:"cached,omitempty"`
}

// HistoryEntry is a stored analysis as listed by the history store
type HistoryEntry struct {
	ID               string    `json:"id"`
	ProductName      string    `json:"productName"`
	Barcode          string    `json:"barcode,omitempty"`
	Source           string    `json:"source"`
	Score            int       `json:"score"`
	Band             Band      `json:"band"`
	ScoreImpact      int       `json:"scoreImpact"`
	IngredientsCount int       `json:"ingredientsCount"`
	CreatedAt        time.Time `json:"createdAt"`
}
