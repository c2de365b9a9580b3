package usecase

import "github.com/foodscore/backend/internal/domain"

// Summarize flattens a score result and its explanations into the single-shot view.
// Components are visited in rule-table order followed by the overall entry;
// recommendations and evidence are de-duplicated, keeping first occurrence.
func Summarize(score *domain.ScoreResult, explanations domain.ExplanationSet) domain.Summary {
	summary := domain.Summary{
		Band:            domain.BandPoor,
		Explanations:    []string{},
		Recommendations: []string{},
		Evidence:        []string{},
	}
	if score != nil {
		summary.Score = score.TotalScore
		summary.Band = score.Band
	}

	seenRecommendation := map[string]bool{}
	seenEvidence := map[string]bool{}
	add := func(e domain.Explanation) {
		if e.Text != "" {
			summary.Explanations = append(summary.Explanations, e.Text)
		}
		for _, r := range e.Recommendations {
			if !seenRecommendation[r] {
				seenRecommendation[r] = true
				summary.Recommendations = append(summary.Recommendations, r)
			}
		}
		if e.Source != "" && !seenEvidence[e.Source] {
			seenEvidence[e.Source] = true
			summary.Evidence = append(summary.Evidence, e.Source)
		}
	}

	for _, name := range ruleOrder() {
		if e, ok := explanations[name]; ok {
			add(e)
		}
	}
	if overall, ok := explanations[domain.OverallKey]; ok {
		add(overall)
	}

	return summary
}
