package usda

import (
	"testing"

	"github.com/foodscore/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToRawProduct(t *testing.T) {
	tests := []struct {
		name     string
		usdaFood *domain.USDAFood
		want     *domain.RawProductRecord
	}{
		{
			name: "complete food data",
			usdaFood: &domain.USDAFood{
				FdcID:       12345,
				Description: "Whole Milk",
				DataType:    "Survey (FNDDS)",
				Nutrients: []domain.USDANutrient{
					{NutrientID: NutrientIDEnergy, NutrientName: "Energy", Value: 61.0, UnitName: "kcal"},
					{NutrientID: NutrientIDProtein, NutrientName: "Protein", Value: 3.2, UnitName: "g"},
					{NutrientID: NutrientIDCarbohydrate, NutrientName: "Carbohydrate", Value: 4.8, UnitName: "g"},
					{NutrientID: NutrientIDTotalFat, NutrientName: "Total Fat", Value: 3.3, UnitName: "g"},
					{NutrientID: NutrientIDSaturatedFat, NutrientName: "Saturated", Value: 1.9, UnitName: "g"},
					{NutrientID: NutrientIDCholesterol, NutrientName: "Cholesterol", Value: 10, UnitName: "mg"},
				},
			},
			want: &domain.RawProductRecord{
				ProductName: "Whole Milk",
				Nutrition: map[string]any{
					domain.NutrientCalories:          61.0,
					domain.NutrientProtein:           3.2,
					domain.NutrientTotalCarbohydrate: 4.8,
					domain.NutrientTotalFat:          3.3,
					domain.NutrientSaturatedFat:      1.9,
					domain.NutrientCholesterol:       10.0,
				},
				Ingredients: []string{},
				Source:      SourceName,
			},
		},
		{
			name: "branded food with ingredients",
			usdaFood: &domain.USDAFood{
				FdcID:           67890,
				Description:     "Hazelnut Spread",
				BrandOwner:      "Ferrero",
				GtinUpc:         "009800895007",
				Ingredients:     "Sugar, Palm Oil, Hazelnuts",
				ServingSize:     37,
				ServingSizeUnit: "GRM",
				Nutrients: []domain.USDANutrient{
					{NutrientID: NutrientIDSugars, Value: 56.8},
					{NutrientID: NutrientIDSodium, Value: 41},
					{NutrientID: NutrientIDTransFat, Value: 0},
				},
			},
			want: &domain.RawProductRecord{
				ProductName: "Hazelnut Spread",
				Barcode:     "009800895007",
				Brand:       "Ferrero",
				Nutrition: map[string]any{
					domain.NutrientTotalSugars: 56.8,
					domain.NutrientSodium:      41.0,
					domain.NutrientTransFat:    0.0,
				},
				Ingredients: []string{"Sugar", "Palm Oil", "Hazelnuts"},
				ServingSize: "37 grm",
				Source:      SourceName,
			},
		},
		{
			name: "unknown nutrients are skipped",
			usdaFood: &domain.USDAFood{
				Description: "Water",
				Nutrients: []domain.USDANutrient{
					{NutrientID: 1051, NutrientName: "Water", Value: 99.9},
				},
			},
			want: &domain.RawProductRecord{
				ProductName: "Water",
				Nutrition:   map[string]any{},
				Ingredients: []string{},
				Source:      SourceName,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapToRawProduct(tt.usdaFood)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("nil food", func(t *testing.T) {
		got := MapToRawProduct(nil)
		require.NotNil(t, got)
		assert.Equal(t, SourceName, got.Source)
	})

	t.Run("brand name preferred over owner", func(t *testing.T) {
		got := MapToRawProduct(&domain.USDAFood{BrandName: "Nutella", BrandOwner: "Ferrero"})
		assert.Equal(t, "Nutella", got.Brand)
	})
}

func TestBestMatch(t *testing.T) {
	assert.Nil(t, BestMatch(nil))

	foods := []domain.USDAFood{
		{FdcID: 1, Description: "generic"},
		{FdcID: 2, Description: "branded", Ingredients: "OATS"},
		{FdcID: 3, Description: "other", Ingredients: "WHEAT"},
	}
	assert.Equal(t, 2, BestMatch(foods).FdcID)
	assert.Equal(t, 1, BestMatch(foods[:1]).FdcID)
}
