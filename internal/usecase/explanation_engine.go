package usecase

import (
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/foodscore/backend/internal/domain"
)

// Title prefixes by sign of the score impact
const (
	titleBonus   = "✅"
	titlePenalty = "⚠️"
	titleNeutral = "ℹ️"
)

// ExplanationEngine renders score results into natural-language explanations
type ExplanationEngine struct{}

// NewExplanationEngine creates an explanation engine over the static template tables
func NewExplanationEngine() *ExplanationEngine {
	return &ExplanationEngine{}
}

// Explain produces one explanation per score component plus the overall entry.
// It never fails: on error a single overall entry describes the failure.
func (e *ExplanationEngine) Explain(score *domain.ScoreResult, product *domain.NormalizedProductRecord) (explanations domain.ExplanationSet) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("failed to generate explanations: %v", r)
			log.WithError(err).Error("explanation engine recovered from panic")
			explanations = failedExplanation(err)
		}
	}()

	if score == nil {
		return failedExplanation(fmt.Errorf("failed to generate explanations: %w: nil score result", domain.ErrMalformedInput))
	}

	explanations = make(domain.ExplanationSet, len(score.Components)+1)
	for name, component := range score.Components {
		explanations[name] = explainComponent(name, component)
	}
	explanations[domain.OverallKey] = explainOverall(score)

	return explanations
}

// LevelFor maps a component impact onto its severity tier
func LevelFor(impact int) domain.Level {
	switch {
	case impact >= 15:
		return domain.LevelExcellent
	case impact >= 5:
		return domain.LevelGood
	case impact >= -5:
		return domain.LevelModerate
	case impact >= -15:
		return domain.LevelPoor
	default:
		return domain.LevelVeryPoor
	}
}

func explainComponent(name string, component domain.ScoreComponent) domain.Explanation {
	level := LevelFor(component.ScoreImpact)

	tmpl, ok := componentTemplates[name]
	text := tmpl.texts[level]
	if !ok || text == "" {
		text = fmt.Sprintf("This component scored %d points based on the value %v.", component.ScoreImpact, component.Value)
	}
	if name == RuleAdvisoryAdjustment && component.Narrative != "" {
		text = text + " " + strings.TrimSpace(component.Narrative)
	}

	source := component.Source
	if source == "" {
		source = "Unknown"
	}

	return domain.Explanation{
		Title:           componentTitle(name, component.ScoreImpact),
		Text:            text,
		Level:           level,
		ScoreImpact:     component.ScoreImpact,
		Value:           component.Value,
		Recommendations: append([]string{}, tmpl.recommendations...),
		Source:          source,
	}
}

func componentTitle(name string, impact int) string {
	base := humanizeRuleName(name)
	if tmpl, ok := componentTemplates[name]; ok {
		base = tmpl.title
	}
	switch {
	case impact > 0:
		return titleBonus + " " + base
	case impact < 0:
		return titlePenalty + " " + base
	default:
		return titleNeutral + " " + base
	}
}

// humanizeRuleName turns "some_rule" into "Some Rule"
func humanizeRuleName(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func explainOverall(score *domain.ScoreResult) domain.Explanation {
	tmpl, ok := overallTemplates[score.Band]
	if !ok {
		tmpl = overallTemplates[BandFor(score.TotalScore)]
	}
	return domain.Explanation{
		Title:           fmt.Sprintf("Overall Health Score: %d/100 (%s)", score.TotalScore, score.Band),
		Text:            fmt.Sprintf(tmpl.text, score.TotalScore),
		ScoreImpact:     score.ScoreImpact,
		Recommendations: append([]string{}, tmpl.recommendations...),
		Band:            score.Band,
		Score:           score.TotalScore,
	}
}

func failedExplanation(err error) domain.ExplanationSet {
	return domain.ExplanationSet{
		domain.OverallKey: {
			Title:           "Explanation Error",
			Text:            err.Error(),
			ScoreImpact:     0,
			Recommendations: []string{},
		},
	}
}
