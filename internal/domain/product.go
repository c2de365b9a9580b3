package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// UnknownProduct is the name used when a raw record carries no usable product name
const UnknownProduct = "Unknown Product"

// RawProductRecord is the untrusted product record handed over by a product source
// (barcode lookup, name search, OCR extraction or a client request body).
// Every field is optional; nutrition keys and units are not guaranteed to be consistent.
type RawProductRecord struct {
	ProductName string         `json:"product_name,omitempty"`
	Barcode     string         `json:"barcode,omitempty"`
	Brand       string         `json:"brand,omitempty"`
	Categories  string         `json:"categories,omitempty"`
	Nutrition   map[string]any `json:"nutrition,omitempty"`
	Ingredients IngredientList `json:"ingredients,omitempty"`
	ServingSize string         `json:"serving_size,omitempty"`
	Source      string         `json:"source,omitempty"`
}

// IngredientList is an ordered list of free-text ingredient strings.
// It decodes from either a JSON array of strings or a single comma-separated string,
// since both shapes show up in upstream data. Non-string array members are skipped.
type IngredientList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *IngredientList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*l = SplitIngredients(text)
		return nil
	}

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// SplitIngredients splits a comma-separated ingredient statement into trimmed parts
func SplitIngredients(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizedProductRecord is the canonical product record produced by the normalizer.
// It is created once per analysis and must be treated as read-only afterwards.
type NormalizedProductRecord struct {
	ProductName          string             `json:"product_name"`
	Barcode              string             `json:"barcode,omitempty"`
	Brand                string             `json:"brand,omitempty"`
	Categories           string             `json:"categories,omitempty"`
	Nutrition            map[string]float64 `json:"nutrition"` // per 100 g/ml
	Ingredients          []string           `json:"ingredients"`
	ServingSize          string             `json:"serving_size"`
	Source               string             `json:"source"`
	Additives            []string           `json:"additives"`
	Preservatives        []string           `json:"preservatives"`
	ArtificialColors     []string           `json:"artificial_colors"`
	ArtificialSweeteners []string           `json:"artificial_sweeteners"`
	NaturalRatio         float64            `json:"natural_ratio"`
	Error                string             `json:"error,omitempty"`
}

// Nutrient returns the per-100g value of a canonical nutrient, or 0 when absent
func (p *NormalizedProductRecord) Nutrient(name string) float64 {
	if p == nil || p.Nutrition == nil {
		return 0
	}
	return p.Nutrition[name]
}

// NormalizationResult is the outcome of normalizing a raw record.
// A degraded result still carries a usable (empty) record.
type NormalizationResult struct {
	Record *NormalizedProductRecord
	Err    error
}

// Degraded reports whether normalization fell back to the empty record
func (r NormalizationResult) Degraded() bool {
	return r.Err != nil
}

// Canonical nutrient vocabulary, all values per 100 g/ml
const (
	NutrientCalories          = "calories"
	NutrientProtein           = "protein"
	NutrientTotalFat          = "total_fat"
	NutrientSaturatedFat      = "saturated_fat"
	NutrientTransFat          = "trans_fat"
	NutrientCholesterol       = "cholesterol"
	NutrientSodium            = "sodium"
	NutrientTotalCarbohydrate = "total_carbohydrate"
	NutrientDietaryFiber      = "dietary_fiber"
	NutrientTotalSugars       = "total_sugars"
	NutrientAddedSugars       = "added_sugars"
	NutrientCalcium           = "calcium"
	NutrientIron              = "iron"
	NutrientPotassium         = "potassium"
	NutrientVitaminD          = "vitamin_d"
)
