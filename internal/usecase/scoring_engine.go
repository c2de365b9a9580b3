package usecase

import (
	"fmt"
	"math"

	"github.com/apex/log"
	"github.com/foodscore/backend/internal/domain"
)

// Score bounds and the neutral baseline every product starts from
const (
	Baseline = 50
	MinScore = 0
	MaxScore = 100
)

// Advisory hint scaling: impact = round((hint - advisoryPivot) * advisoryWeight)
const (
	advisoryPivot  = 75.0
	advisoryWeight = 0.3
)

// ScoringEngine applies the static rule table to normalized products
type ScoringEngine struct {
	rules []ScoringRule
}

// NewScoringEngine creates a scoring engine over the default rule table
func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{rules: scoringRules}
}

// Score computes the deterministic score of a product
func (e *ScoringEngine) Score(product *domain.NormalizedProductRecord) *domain.ScoreResult {
	return e.ScoreWithHint(product, nil)
}

// ScoreWithHint computes the score and, when a valid advisory hint is supplied,
// merges it in as one extra component. A nil hint yields exactly Score(product).
func (e *ScoringEngine) ScoreWithHint(product *domain.NormalizedProductRecord, hint *domain.AdvisoryHint) (result *domain.ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failedScore(fmt.Errorf("scoring failed: %v", r))
			log.WithField("error", result.Error).Error("scoring engine recovered from panic")
		}
	}()

	if product == nil {
		return failedScore(fmt.Errorf("scoring failed: %w: nil product", domain.ErrMalformedInput))
	}

	components := make(map[string]domain.ScoreComponent)
	for _, rule := range e.rules {
		value := sanitizeRuleInput(rule.Name, rule.input(product))
		impact := rule.Evaluate(value)
		if impact == 0 {
			continue
		}
		components[rule.Name] = domain.ScoreComponent{
			RuleName:    rule.Name,
			Value:       value,
			ScoreImpact: impact,
			Description: rule.Description,
			Source:      rule.Source,
			Thresholds:  append([]domain.Threshold(nil), rule.Thresholds...),
		}
	}

	if component, ok := advisoryComponent(hint); ok {
		components[RuleAdvisoryAdjustment] = component
	}

	total := Baseline
	for _, c := range components {
		total += c.ScoreImpact
	}
	total = clampScore(total)

	return &domain.ScoreResult{
		TotalScore:  total,
		Band:        BandFor(total),
		Baseline:    Baseline,
		ScoreImpact: total - Baseline,
		Components:  components,
	}
}

// sanitizeRuleInput treats values that cannot be scored as 0
func sanitizeRuleInput(rule string, value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		log.WithFields(log.Fields{
			"rule":  rule,
			"value": fmt.Sprintf("%v", value),
		}).Warn("unscorable rule input treated as 0")
		return 0
	}
	return value
}

func advisoryComponent(hint *domain.AdvisoryHint) (domain.ScoreComponent, bool) {
	if hint == nil {
		return domain.ScoreComponent{}, false
	}
	h := hint.HealthScore
	if math.IsNaN(h) || h < MinScore || h > MaxScore {
		log.WithField("health_score", fmt.Sprintf("%v", h)).Warn("ignoring out-of-range advisory hint")
		return domain.ScoreComponent{}, false
	}

	impact := int(math.Round((h - advisoryPivot) * advisoryWeight))
	if impact == 0 {
		return domain.ScoreComponent{}, false
	}

	source := hint.Source
	if source == "" {
		source = "External advisory service"
	}
	return domain.ScoreComponent{
		RuleName:    RuleAdvisoryAdjustment,
		Value:       h,
		ScoreImpact: impact,
		Description: "Advisory health assessment",
		Source:      source,
		Narrative:   hint.Narrative,
	}, true
}

func failedScore(err error) *domain.ScoreResult {
	return &domain.ScoreResult{
		TotalScore:  0,
		Band:        domain.BandPoor,
		Baseline:    Baseline,
		ScoreImpact: -Baseline,
		Components:  map[string]domain.ScoreComponent{},
		Error:       err.Error(),
	}
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// BandFor maps a total score onto its health band
func BandFor(score int) domain.Band {
	switch {
	case score >= 80:
		return domain.BandExcellent
	case score >= 60:
		return domain.BandGood
	case score >= 40:
		return domain.BandModerate
	default:
		return domain.BandPoor
	}
}
