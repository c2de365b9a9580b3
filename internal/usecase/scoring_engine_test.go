package usecase

import (
	"math"
	"testing"

	"github.com/foodscore/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// colaProduct is a typical soft drink: high sugar, half natural ingredients
func colaProduct(t *testing.T) *domain.NormalizedProductRecord {
	t.Helper()
	result := NewNormalizer(NormalizerConfig{}).Normalize(&domain.RawProductRecord{
		ProductName: "Coca-Cola Classic",
		Nutrition:   map[string]any{"sugars": 10.6, "sodium": 10, "calories": 42},
		Ingredients: domain.IngredientList{"carbonated water", "sugar", "caramel color", "phosphoric acid", "natural flavors", "caffeine"},
		Source:      "openfoodfacts",
	})
	require.False(t, result.Degraded())
	return result.Record
}

// spreadProduct is a hazelnut spread: very high sugar and saturated fat
func spreadProduct(t *testing.T) *domain.NormalizedProductRecord {
	t.Helper()
	result := NewNormalizer(NormalizerConfig{}).Normalize(&domain.RawProductRecord{
		ProductName: "Nutella",
		Nutrition: map[string]any{
			"sugars":        56.3,
			"saturated_fat": 10.6,
			"fiber":         3.4,
			"protein":       6.3,
			"calories":      539,
		},
		Ingredients: domain.IngredientList{"Sugar", "Palm Oil", "Hazelnuts", "Skim Milk", "Cocoa", "Soy Lecithin", "Vanillin"},
		Source:      "openfoodfacts",
	})
	require.False(t, result.Degraded())
	return result.Record
}

func TestScoringRule_Evaluate(t *testing.T) {
	sugar, ok := LookupRule(RuleSugarContent)
	require.True(t, ok)

	tests := []struct {
		value float64
		want  int
	}{
		{0, 0},
		{4.9, 0},
		{5, 0},
		{9.99, 0},
		{10, -10},
		{14.9, -10},
		{15, -20},
		{20, -30},
		{25, -30},
		{1000, -30},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sugar.Evaluate(tt.value), "sugar %v", tt.value)
	}

	t.Run("bonus rule below first threshold", func(t *testing.T) {
		fiber, ok := LookupRule(RuleFiberContent)
		require.True(t, ok)
		assert.Equal(t, 0, fiber.Evaluate(1.9))
		assert.Equal(t, 5, fiber.Evaluate(2))
		assert.Equal(t, 20, fiber.Evaluate(12))
	})

	t.Run("thresholds are ascending", func(t *testing.T) {
		for _, rule := range Rules() {
			for i := 1; i < len(rule.Thresholds); i++ {
				assert.Less(t, rule.Thresholds[i-1].Value, rule.Thresholds[i].Value, rule.Name)
			}
		}
	})
}

func TestRules_ReturnsCopy(t *testing.T) {
	rules := Rules()
	require.Len(t, rules, 11)

	rules[0].Thresholds[0].Impact = 99
	original, _ := LookupRule(rules[0].Name)
	assert.NotEqual(t, 99, original.Thresholds[0].Impact)

	_, ok := LookupRule("does_not_exist")
	assert.False(t, ok)
}

func TestScore_Scenarios(t *testing.T) {
	engine := NewScoringEngine()

	t.Run("soft drink", func(t *testing.T) {
		result := engine.Score(colaProduct(t))

		assert.Equal(t, 50, result.TotalScore)
		assert.Equal(t, domain.BandModerate, result.Band)
		assert.Equal(t, Baseline, result.Baseline)
		assert.Equal(t, 0, result.ScoreImpact)
		require.Len(t, result.Components, 2)
		assert.Equal(t, -10, result.Components[RuleSugarContent].ScoreImpact)
		assert.Equal(t, 10.6, result.Components[RuleSugarContent].Value)
		assert.Equal(t, "WHO Guidelines", result.Components[RuleSugarContent].Source)
		assert.Equal(t, 10, result.Components[RuleNaturalRatio].ScoreImpact)
		assert.Empty(t, result.Error)
	})

	t.Run("hazelnut spread", func(t *testing.T) {
		result := engine.Score(spreadProduct(t))

		assert.Equal(t, 25, result.TotalScore)
		assert.Equal(t, domain.BandPoor, result.Band)
		assert.Equal(t, -25, result.ScoreImpact)
		assert.Equal(t, map[string]int{
			RuleSugarContent:   -30,
			RuleSaturatedFat:   -20,
			RuleFiberContent:   10,
			RuleProteinContent: 5,
			RuleNaturalRatio:   10,
		}, componentImpacts(result))
	})
}

func TestScore_Invariants(t *testing.T) {
	engine := NewScoringEngine()

	t.Run("empty product stays at baseline with no components", func(t *testing.T) {
		result := engine.Score(&domain.NormalizedProductRecord{})
		assert.Equal(t, Baseline, result.TotalScore)
		assert.Equal(t, domain.BandModerate, result.Band)
		assert.Empty(t, result.Components)
	})

	t.Run("clamps at zero", func(t *testing.T) {
		result := engine.Score(&domain.NormalizedProductRecord{
			Nutrition: map[string]float64{
				domain.NutrientTotalSugars:  50,
				domain.NutrientSodium:       2000,
				domain.NutrientSaturatedFat: 20,
				domain.NutrientTransFat:     3,
			},
			Additives:            make([]string, 12),
			Preservatives:        make([]string, 4),
			ArtificialColors:     make([]string, 4),
			ArtificialSweeteners: make([]string, 2),
		})
		assert.Equal(t, MinScore, result.TotalScore)
		assert.Equal(t, domain.BandPoor, result.Band)
		assert.Equal(t, -Baseline, result.ScoreImpact)
	})

	t.Run("clamps at one hundred", func(t *testing.T) {
		result := engine.Score(&domain.NormalizedProductRecord{
			Nutrition: map[string]float64{
				domain.NutrientDietaryFiber: 10,
				domain.NutrientProtein:      25,
			},
			NaturalRatio: 1,
		})
		assert.Equal(t, MaxScore, result.TotalScore)
		assert.Equal(t, domain.BandExcellent, result.Band)
	})

	t.Run("no zero-impact components", func(t *testing.T) {
		result := engine.Score(spreadProduct(t))
		for name, c := range result.Components {
			assert.NotZero(t, c.ScoreImpact, name)
			assert.Equal(t, name, c.RuleName)
		}
	})

	t.Run("unscorable values are treated as zero", func(t *testing.T) {
		result := engine.Score(&domain.NormalizedProductRecord{
			Nutrition: map[string]float64{
				domain.NutrientTotalSugars: math.NaN(),
				domain.NutrientSodium:      math.Inf(1),
				domain.NutrientProtein:     -4,
			},
		})
		assert.Equal(t, Baseline, result.TotalScore)
		assert.Empty(t, result.Components)
	})

	t.Run("deterministic", func(t *testing.T) {
		product := spreadProduct(t)
		assert.Equal(t, engine.Score(product), engine.Score(product))
	})

	t.Run("nil product yields failure result", func(t *testing.T) {
		result := engine.Score(nil)
		assert.Equal(t, 0, result.TotalScore)
		assert.Equal(t, domain.BandPoor, result.Band)
		assert.Empty(t, result.Components)
		assert.Contains(t, result.Error, "scoring failed")
	})
}

func TestScoreWithHint(t *testing.T) {
	engine := NewScoringEngine()
	product := colaProduct(t)

	tests := []struct {
		name       string
		hint       *domain.AdvisoryHint
		wantImpact int
		wantScore  int
	}{
		{"nil hint", nil, 0, 50},
		{"favourable hint", &domain.AdvisoryHint{HealthScore: 95, Narrative: "Mostly water."}, 6, 56},
		{"unfavourable hint", &domain.AdvisoryHint{HealthScore: 5}, -21, 29},
		{"neutral hint is omitted", &domain.AdvisoryHint{HealthScore: 75}, 0, 50},
		{"out of range hint is ignored", &domain.AdvisoryHint{HealthScore: 150}, 0, 50},
		{"negative hint is ignored", &domain.AdvisoryHint{HealthScore: -1}, 0, 50},
		{"NaN hint is ignored", &domain.AdvisoryHint{HealthScore: math.NaN()}, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.ScoreWithHint(product, tt.hint)

			assert.Equal(t, tt.wantScore, result.TotalScore)
			component, ok := result.Components[RuleAdvisoryAdjustment]
			if tt.wantImpact == 0 {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantImpact, component.ScoreImpact)
			assert.Equal(t, tt.hint.HealthScore, component.Value)
			assert.Equal(t, "External advisory service", component.Source)
			assert.Equal(t, tt.hint.Narrative, component.Narrative)
		})
	}

	t.Run("nil hint equals plain score", func(t *testing.T) {
		assert.Equal(t, engine.Score(product), engine.ScoreWithHint(product, nil))
	})
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score int
		want  domain.Band
	}{
		{100, domain.BandExcellent},
		{80, domain.BandExcellent},
		{79, domain.BandGood},
		{60, domain.BandGood},
		{59, domain.BandModerate},
		{40, domain.BandModerate},
		{39, domain.BandPoor},
		{0, domain.BandPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.score), "score %d", tt.score)
	}
}

func componentImpacts(result *domain.ScoreResult) map[string]int {
	impacts := make(map[string]int, len(result.Components))
	for name, c := range result.Components {
		impacts[name] = c.ScoreImpact
	}
	return impacts
}
