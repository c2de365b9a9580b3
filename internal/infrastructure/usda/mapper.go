package usda

import (
	"strconv"
	"strings"

	"github.com/foodscore/backend/internal/domain"
)

// USDA nutrient IDs, values per 100 g
const (
	NutrientIDEnergy       = 1008 // kcal
	NutrientIDProtein      = 1003 // g
	NutrientIDTotalFat     = 1004 // g
	NutrientIDCarbohydrate = 1005 // g
	NutrientIDSugars       = 2000 // g
	NutrientIDSodium       = 1093 // mg
	NutrientIDFiber        = 1079 // g
	NutrientIDSaturatedFat = 1258 // g
	NutrientIDTransFat     = 1257 // g
	NutrientIDCholesterol  = 1253 // mg
	NutrientIDCalcium      = 1087 // mg
	NutrientIDIron         = 1089 // mg
	NutrientIDPotassium    = 1092 // mg
)

// SourceName identifies records produced by this package
const SourceName = "usda"

var nutrientKeys = map[int]string{
	NutrientIDEnergy:       domain.NutrientCalories,
	NutrientIDProtein:      domain.NutrientProtein,
	NutrientIDTotalFat:     domain.NutrientTotalFat,
	NutrientIDCarbohydrate: domain.NutrientTotalCarbohydrate,
	NutrientIDSugars:       domain.NutrientTotalSugars,
	NutrientIDSodium:       domain.NutrientSodium,
	NutrientIDFiber:        domain.NutrientDietaryFiber,
	NutrientIDSaturatedFat: domain.NutrientSaturatedFat,
	NutrientIDTransFat:     domain.NutrientTransFat,
	NutrientIDCholesterol:  domain.NutrientCholesterol,
	NutrientIDCalcium:      domain.NutrientCalcium,
	NutrientIDIron:         domain.NutrientIron,
	NutrientIDPotassium:    domain.NutrientPotassium,
}

// MapToRawProduct converts a USDA food into a raw product record for the normalizer
func MapToRawProduct(food *domain.USDAFood) *domain.RawProductRecord {
	if food == nil {
		return &domain.RawProductRecord{Source: SourceName}
	}

	brand := food.BrandName
	if brand == "" {
		brand = food.BrandOwner
	}

	return &domain.RawProductRecord{
		ProductName: food.Description,
		Barcode:     food.GtinUpc,
		Brand:       brand,
		Nutrition:   extractNutrients(food.Nutrients),
		Ingredients: domain.SplitIngredients(food.Ingredients),
		ServingSize: servingSize(food),
		Source:      SourceName,
	}
}

// BestMatch picks the search hit to analyze: the first one carrying an ingredient
// statement, otherwise the first hit
func BestMatch(foods []domain.USDAFood) *domain.USDAFood {
	if len(foods) == 0 {
		return nil
	}
	for i := range foods {
		if strings.TrimSpace(foods[i].Ingredients) != "" {
			return &foods[i]
		}
	}
	return &foods[0]
}

// extractNutrients keeps the nutrients of the scoring vocabulary, keyed canonically
func extractNutrients(usdaNutrients []domain.USDANutrient) map[string]any {
	nutrition := make(map[string]any)
	for _, n := range usdaNutrients {
		if key, ok := nutrientKeys[n.NutrientID]; ok {
			nutrition[key] = n.Value
		}
	}
	return nutrition
}

func servingSize(food *domain.USDAFood) string {
	if food.ServingSize <= 0 {
		return ""
	}
	size := strconv.FormatFloat(food.ServingSize, 'f', -1, 64)
	if unit := strings.ToLower(strings.TrimSpace(food.ServingSizeUnit)); unit != "" {
		return size + " " + unit
	}
	return size
}
