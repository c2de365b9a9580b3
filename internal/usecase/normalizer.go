package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/apex/log"
	"github.com/foodscore/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Per-serving heuristic: nutrition values above the threshold are assumed to be
// per-serving figures and divided by the divisor. This is not a unit conversion.
const (
	PerServingThreshold = 10000.0
	PerServingDivisor   = 10.0
)

var (
	productNameStripRegex = regexp.MustCompile(`[^\p{L}\p{N}\s\-&]`)
	ingredientStripRegex  = regexp.MustCompile(`[^\p{L}\p{N}\s\-]`)
	multipleSpacesRegex   = regexp.MustCompile(`\s+`)
	leadingNumberRegex    = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)`)
)

var placeholderNames = map[string]bool{
	"":                true,
	"unknown":         true,
	"unknown product": true,
	"n/a":             true,
	"na":              true,
	"none":            true,
	"null":            true,
	"-":               true,
}

var nutrientKeyReplacer = strings.NewReplacer(" ", "_", "-", "_")

// NormalizerConfig holds the tunable heuristics of the normalizer
type NormalizerConfig struct {
	PerServingThreshold float64
	PerServingDivisor   float64
}

// Normalizer turns raw product records into canonical records
type Normalizer struct {
	perServingThreshold float64
	perServingDivisor   float64
}

// NewNormalizer creates a normalizer, falling back to the default heuristics for zero values
func NewNormalizer(config NormalizerConfig) *Normalizer {
	threshold := config.PerServingThreshold
	if threshold <= 0 {
		threshold = PerServingThreshold
	}
	divisor := config.PerServingDivisor
	if divisor <= 0 {
		divisor = PerServingDivisor
	}
	return &Normalizer{
		perServingThreshold: threshold,
		perServingDivisor:   divisor,
	}
}

// Normalize canonicalizes a raw record. It never fails the pipeline: on any internal
// error the result is degraded and carries an empty record with the error attached.
func (n *Normalizer) Normalize(raw *domain.RawProductRecord) (result domain.NormalizationResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", domain.ErrNormalizationFailed, r)
			log.WithError(err).Error("normalizer recovered from panic")
			result = domain.NormalizationResult{Record: degradedRecord(raw, err), Err: err}
		}
	}()

	if raw == nil {
		err := fmt.Errorf("%w: nil product record", domain.ErrMalformedInput)
		return domain.NormalizationResult{Record: degradedRecord(nil, err), Err: err}
	}

	ingredients := normalizeIngredients(raw.Ingredients)
	record := &domain.NormalizedProductRecord{
		ProductName:          normalizeProductName(raw.ProductName),
		Barcode:              strings.TrimSpace(raw.Barcode),
		Brand:                strings.TrimSpace(raw.Brand),
		Categories:           strings.TrimSpace(raw.Categories),
		Nutrition:            n.normalizeNutrition(raw.Nutrition),
		Ingredients:          ingredients,
		ServingSize:          normalizeServingSize(raw.ServingSize),
		Source:               normalizeSource(raw.Source),
		Additives:            identifyAdditives(ingredients),
		Preservatives:        matchKeywords(ingredients, PreservativeKeywords),
		ArtificialColors:     matchKeywords(ingredients, ArtificialColorKeywords),
		ArtificialSweeteners: matchKeywords(ingredients, ArtificialSweetenerKeywords),
		NaturalRatio:         naturalRatio(ingredients),
	}

	return domain.NormalizationResult{Record: record}
}

// degradedRecord builds the empty record returned when normalization cannot complete
func degradedRecord(raw *domain.RawProductRecord, err error) *domain.NormalizedProductRecord {
	name := domain.UnknownProduct
	if raw != nil {
		if trimmed := strings.TrimSpace(raw.ProductName); trimmed != "" {
			name = trimmed
		}
	}
	return &domain.NormalizedProductRecord{
		ProductName:          name,
		Nutrition:            map[string]float64{},
		Ingredients:          []string{},
		ServingSize:          "Unknown",
		Source:               "error",
		Additives:            []string{},
		Preservatives:        []string{},
		ArtificialColors:     []string{},
		ArtificialSweeteners: []string{},
		NaturalRatio:         0,
		Error:                err.Error(),
	}
}

func normalizeProductName(name string) string {
	cleaned := strings.TrimSpace(name)
	if placeholderNames[strings.ToLower(cleaned)] {
		return domain.UnknownProduct
	}
	cleaned = multipleSpacesRegex.ReplaceAllString(cleaned, " ")
	cleaned = productNameStripRegex.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return domain.UnknownProduct
	}
	return cleaned
}

func normalizeServingSize(servingSize string) string {
	cleaned := strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(servingSize, " "))
	if cleaned == "" || strings.EqualFold(cleaned, "unknown") {
		return "Unknown"
	}
	return cleaned
}

func normalizeSource(source string) string {
	if s := strings.TrimSpace(source); s != "" {
		return s
	}
	return "unknown"
}

// normalizeNutrition maps raw keys onto the canonical vocabulary and rounds values.
// Keys are visited in sorted order so aliases resolve deterministically; an exact
// canonical key always wins over an alias.
func (n *Normalizer) normalizeNutrition(raw map[string]any) map[string]float64 {
	nutrition := make(map[string]float64, len(raw))
	exact := make(map[string]bool, len(raw))

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		cleanedKey := cleanNutrientKey(key)
		canonical, ok := nutrientAliases[cleanedKey]
		if !ok {
			log.WithField("nutrient", key).Debug("dropping nutrient outside vocabulary")
			continue
		}

		value, ok := coerceNumber(raw[key])
		if !ok {
			log.WithFields(log.Fields{
				"nutrient": key,
				"value":    fmt.Sprintf("%v", raw[key]),
			}).Warn("dropping malformed nutrient value")
			continue
		}

		isExact := cleanedKey == canonical
		if _, seen := nutrition[canonical]; seen && (exact[canonical] || !isExact) {
			continue
		}

		if value > n.perServingThreshold {
			value = value / n.perServingDivisor
		}
		nutrition[canonical] = round2(value)
		exact[canonical] = isExact
	}

	return nutrition
}

func cleanNutrientKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = nutrientKeyReplacer.Replace(k)
	return strings.TrimSuffix(k, "_100g")
}

// coerceNumber accepts JSON numbers, Go numeric types and numeric strings with an
// optional unit suffix. Negative, NaN and infinite values are rejected.
func coerceNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		match := leadingNumberRegex.FindStringSubmatch(n)
		if match == nil {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// normalizeIngredients cleans, canonicalizes and de-duplicates ingredients, keeping first-seen order
func normalizeIngredients(raw []string) []string {
	ingredients := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, item := range raw {
		cleaned := cleanIngredient(item)
		if utf8.RuneCountInString(cleaned) < 2 {
			continue
		}
		canonical := canonicalIngredient(cleaned)
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		ingredients = append(ingredients, canonical)
	}

	return ingredients
}

func cleanIngredient(s string) string {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	cleaned = ingredientStripRegex.ReplaceAllString(cleaned, "")
	cleaned = multipleSpacesRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

func canonicalIngredient(cleaned string) string {
	if canonical, ok := IngredientSynonyms[cleaned]; ok {
		return canonical
	}
	return cleaned
}

func identifyAdditives(ingredients []string) []string {
	additives := make([]string, 0)
	for _, ingredient := range ingredients {
		lower := strings.ToLower(ingredient)
		if ENumberPattern.MatchString(lower) || containsAny(lower, AdditiveKeywords) {
			additives = append(additives, ingredient)
		}
	}
	return additives
}

func matchKeywords(ingredients []string, keywords []string) []string {
	matched := make([]string, 0)
	for _, ingredient := range ingredients {
		if containsAny(strings.ToLower(ingredient), keywords) {
			matched = append(matched, ingredient)
		}
	}
	return matched
}

// naturalRatio is the share of ingredients containing a natural keyword; 0 for no ingredients
func naturalRatio(ingredients []string) float64 {
	if len(ingredients) == 0 {
		return 0.0
	}
	natural := 0
	for _, ingredient := range ingredients {
		if containsAny(strings.ToLower(ingredient), NaturalKeywords) {
			natural++
		}
	}
	ratio := decimal.NewFromInt(int64(natural)).Div(decimal.NewFromInt(int64(len(ingredients))))
	return ratio.Round(2).InexactFloat64()
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
