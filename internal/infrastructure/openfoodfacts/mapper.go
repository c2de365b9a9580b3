package openfoodfacts

import (
	"strconv"
	"strings"

	"github.com/foodscore/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// SourceName identifies records produced by this package
const SourceName = "openfoodfacts"

// nutrimentKeys maps per-100g nutriments onto the canonical vocabulary
var nutrimentKeys = map[string]string{
	"energy-kcal_100g":   domain.NutrientCalories,
	"proteins_100g":      domain.NutrientProtein,
	"carbohydrates_100g": domain.NutrientTotalCarbohydrate,
	"sugars_100g":        domain.NutrientTotalSugars,
	"fat_100g":           domain.NutrientTotalFat,
	"saturated-fat_100g": domain.NutrientSaturatedFat,
	"trans-fat_100g":     domain.NutrientTransFat,
	"sodium_100g":        domain.NutrientSodium,
	"fiber_100g":         domain.NutrientDietaryFiber,
	"cholesterol_100g":   domain.NutrientCholesterol,
}

// gramsToMilligrams lists nutrients reported in grams that the scoring rules expect in mg
var gramsToMilligrams = map[string]bool{
	domain.NutrientSodium:      true,
	domain.NutrientCholesterol: true,
}

var thousand = decimal.NewFromInt(1000)

// MapToRawProduct converts an Open Food Facts product into a raw product record
func MapToRawProduct(p *Product) *domain.RawProductRecord {
	if p == nil {
		return &domain.RawProductRecord{Source: SourceName}
	}

	return &domain.RawProductRecord{
		ProductName: p.ProductName,
		Barcode:     p.Code,
		Brand:       firstBrand(p.Brands),
		Categories:  p.Categories,
		Nutrition:   mapNutriments(p.Nutriments),
		Ingredients: domain.SplitIngredients(p.IngredientsText),
		ServingSize: p.ServingSize,
		Source:      SourceName,
	}
}

func mapNutriments(nutriments map[string]any) map[string]any {
	nutrition := make(map[string]any)
	for offKey, key := range nutrimentKeys {
		raw, ok := nutriments[offKey]
		if !ok || raw == nil {
			continue
		}
		if gramsToMilligrams[key] {
			if grams, ok := toDecimal(raw); ok {
				nutrition[key] = grams.Mul(thousand).InexactFloat64()
				continue
			}
		}
		nutrition[key] = raw
	}
	return nutrition
}

// toDecimal accepts the number or numeric string shapes nutriments come in
func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(f), true
	default:
		return decimal.Decimal{}, false
	}
}

// firstBrand keeps the first of a comma-separated brand list
func firstBrand(brands string) string {
	if i := strings.Index(brands, ","); i >= 0 {
		brands = brands[:i]
	}
	return strings.TrimSpace(brands)
}
