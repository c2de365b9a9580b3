package usecase

import "github.com/foodscore/backend/internal/domain"

// Rule names
const (
	RuleSugarContent         = "sugar_content"
	RuleSodiumContent        = "sodium_content"
	RuleSaturatedFat         = "saturated_fat"
	RuleTransFat             = "trans_fat"
	RuleFiberContent         = "fiber_content"
	RuleProteinContent       = "protein_content"
	RuleAdditivesCount       = "additives_count"
	RulePreservatives        = "preservatives"
	RuleArtificialColors     = "artificial_colors"
	RuleNaturalRatio         = "natural_ratio"
	RuleArtificialSweeteners = "artificial_sweeteners"

	// RuleAdvisoryAdjustment is the synthetic component built from an advisory hint
	RuleAdvisoryAdjustment = "advisory_adjustment"
)

// ScoringRule is one threshold table of the scoring engine.
// Thresholds are sorted ascending by value.
type ScoringRule struct {
	Name        string             `json:"rule_name"`
	Description string             `json:"description"`
	Source      string             `json:"source"`
	Thresholds  []domain.Threshold `json:"thresholds"`

	input func(*domain.NormalizedProductRecord) float64
}

// Evaluate returns the impact of the highest threshold the value meets or exceeds,
// or 0 when the value is below the first threshold.
func (r ScoringRule) Evaluate(value float64) int {
	impact := 0
	for _, t := range r.Thresholds {
		if value >= t.Value {
			impact = t.Impact
		} else {
			break
		}
	}
	return impact
}

func nutrientInput(name string) func(*domain.NormalizedProductRecord) float64 {
	return func(p *domain.NormalizedProductRecord) float64 {
		return p.Nutrient(name)
	}
}

// scoringRules is the process-wide rule table (WHO, FDA and FSSAI guidelines, per 100 g).
// It is never mutated after package initialization.
var scoringRules = []ScoringRule{
	{
		Name:        RuleSugarContent,
		Description: "Sugar content per 100g",
		Source:      "WHO Guidelines",
		Thresholds:  []domain.Threshold{{Value: 5, Impact: 0}, {Value: 10, Impact: -10}, {Value: 15, Impact: -20}, {Value: 20, Impact: -30}},
		input:       nutrientInput(domain.NutrientTotalSugars),
	},
	{
		Name:        RuleSodiumContent,
		Description: "Sodium content per 100g (mg)",
		Source:      "WHO Guidelines",
		Thresholds:  []domain.Threshold{{Value: 200, Impact: 0}, {Value: 400, Impact: -10}, {Value: 600, Impact: -20}, {Value: 800, Impact: -30}},
		input:       nutrientInput(domain.NutrientSodium),
	},
	{
		Name:        RuleSaturatedFat,
		Description: "Saturated fat per 100g",
		Source:      "WHO Guidelines",
		Thresholds:  []domain.Threshold{{Value: 2, Impact: 0}, {Value: 5, Impact: -10}, {Value: 10, Impact: -20}, {Value: 15, Impact: -30}},
		input:       nutrientInput(domain.NutrientSaturatedFat),
	},
	{
		Name:        RuleTransFat,
		Description: "Trans fat per 100g",
		Source:      "FDA Guidelines",
		Thresholds:  []domain.Threshold{{Value: 0.5, Impact: -10}, {Value: 1, Impact: -20}, {Value: 2, Impact: -30}},
		input:       nutrientInput(domain.NutrientTransFat),
	},
	{
		Name:        RuleFiberContent,
		Description: "Dietary fiber per 100g",
		Source:      "WHO Guidelines",
		Thresholds:  []domain.Threshold{{Value: 2, Impact: 5}, {Value: 3, Impact: 10}, {Value: 5, Impact: 15}, {Value: 8, Impact: 20}},
		input:       nutrientInput(domain.NutrientDietaryFiber),
	},
	{
		Name:        RuleProteinContent,
		Description: "Protein per 100g",
		Source:      "FSSAI Guidelines",
		Thresholds:  []domain.Threshold{{Value: 5, Impact: 5}, {Value: 10, Impact: 10}, {Value: 15, Impact: 15}, {Value: 20, Impact: 20}},
		input:       nutrientInput(domain.NutrientProtein),
	},
	{
		Name:        RuleAdditivesCount,
		Description: "Number of food additives",
		Source:      "FSSAI Guidelines",
		Thresholds:  []domain.Threshold{{Value: 3, Impact: -5}, {Value: 5, Impact: -10}, {Value: 8, Impact: -15}, {Value: 10, Impact: -20}},
		input:       func(p *domain.NormalizedProductRecord) float64 { return float64(len(p.Additives)) },
	},
	{
		Name:        RulePreservatives,
		Description: "Preservatives present",
		Source:      "FDA Guidelines",
		Thresholds:  []domain.Threshold{{Value: 1, Impact: -5}, {Value: 2, Impact: -10}, {Value: 3, Impact: -15}},
		input:       func(p *domain.NormalizedProductRecord) float64 { return float64(len(p.Preservatives)) },
	},
	{
		Name:        RuleArtificialColors,
		Description: "Artificial colors present",
		Source:      "FDA Guidelines",
		Thresholds:  []domain.Threshold{{Value: 1, Impact: -5}, {Value: 2, Impact: -10}, {Value: 3, Impact: -15}},
		input:       func(p *domain.NormalizedProductRecord) float64 { return float64(len(p.ArtificialColors)) },
	},
	{
		Name:        RuleNaturalRatio,
		Description: "Ratio of natural ingredients",
		Source:      "FSSAI Guidelines",
		Thresholds:  []domain.Threshold{{Value: 0.3, Impact: 5}, {Value: 0.5, Impact: 10}, {Value: 0.7, Impact: 15}, {Value: 0.9, Impact: 20}},
		input:       func(p *domain.NormalizedProductRecord) float64 { return p.NaturalRatio },
	},
	{
		Name:        RuleArtificialSweeteners,
		Description: "Artificial sweeteners present",
		Source:      "FDA Guidelines",
		Thresholds:  []domain.Threshold{{Value: 1, Impact: -8}, {Value: 2, Impact: -15}},
		input:       func(p *domain.NormalizedProductRecord) float64 { return float64(len(p.ArtificialSweeteners)) },
	},
}

// Rules returns a copy of the scoring rule table for display
func Rules() []ScoringRule {
	out := make([]ScoringRule, len(scoringRules))
	for i, r := range scoringRules {
		r.Thresholds = append([]domain.Threshold(nil), r.Thresholds...)
		r.input = nil
		out[i] = r
	}
	return out
}

// LookupRule returns the rule with the given name
func LookupRule(name string) (ScoringRule, bool) {
	for _, r := range scoringRules {
		if r.Name == name {
			return r, true
		}
	}
	return ScoringRule{}, false
}

// ruleOrder returns component keys in rule-table order, advisory last
func ruleOrder() []string {
	order := make([]string, 0, len(scoringRules)+1)
	for _, r := range scoringRules {
		order = append(order, r.Name)
	}
	return append(order, RuleAdvisoryAdjustment)
}
