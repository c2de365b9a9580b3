package usecase

import (
	"regexp"
	"strings"

	"github.com/apex/log"
)

// maxQueryLength keeps product search queries within what upstream search APIs accept
const maxQueryLength = 100

var (
	// "128 fl oz", "12 oz", "1.5 liter", "2 lb", "500 ml", "100 grams"
	sizeQuantityPattern = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:fl\s*oz|oz|ounces?|lbs?|pounds?|ml|liters?|litres?|l|gallons?|gal|quarts?|qt|pints?|pt|kg|grams?|g)\b`)

	// "12 pack", "6-pack", "pack of 6", "24 count", "6 ct", "4 bottles"
	packCountPattern = regexp.MustCompile(`(?i)\b\d+[-\s]*(?:pack|pk|count|ct)\b|\bpack\s*of\s*\d+\b|\b\d+\s*(?:cans?|bottles?|pouches?|bars?|pieces?)\b`)

	orphanedPunctuationPattern = regexp.MustCompile(`\s+[,;:\-]+\s+|^[\s,;:\-]+|[\s,;:\-]+$`)
)

// queryNoiseWords are marketing, size and packaging terms that do not identify a food
var queryNoiseWords = map[string]bool{
	"value": true, "family": true, "bonus": true, "new": true, "improved": true,
	"premium": true, "select": true, "choice": true, "quality": true, "best": true,
	"great": true, "delicious": true, "tasty": true, "favorite": true, "special": true,
	"size": true, "large": true, "medium": true, "small": true, "mini": true,
	"jumbo": true, "giant": true, "big": true, "single": true,
	"package": true, "box": true, "bag": true, "bottle": true, "can": true,
	"jar": true, "tub": true, "carton": true, "pouch": true,
	"item": true, "product": true,
}

// QueryPreprocessor cleans product names typed by users or scraped from retail pages
// before they are sent to a product search API
type QueryPreprocessor struct {
	enableDebugLogging bool
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(enableDebugLogging bool) *QueryPreprocessor {
	return &QueryPreprocessor{enableDebugLogging: enableDebugLogging}
}

// PreprocessQuery strips sizes, pack counts and noise words from a product name
// and prepends the brand when it is not already part of the name
func (p *QueryPreprocessor) PreprocessQuery(productName, brand string) string {
	if strings.TrimSpace(productName) == "" {
		return ""
	}

	cleaned := sizeQuantityPattern.ReplaceAllString(productName, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = removeNoiseWords(cleaned)
	cleaned = orphanedPunctuationPattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(cleaned, " "))

	if brand = strings.TrimSpace(brand); brand != "" && cleaned != "" {
		if !strings.Contains(strings.ToLower(cleaned), strings.ToLower(brand)) {
			cleaned = brand + " " + cleaned
		}
	}

	if len(cleaned) > maxQueryLength {
		cleaned = cleaned[:maxQueryLength]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	if p.enableDebugLogging {
		log.WithFields(log.Fields{"input": productName, "query": cleaned}).Debug("preprocessed search query")
	}

	return cleaned
}

func removeNoiseWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	kept := words[:0]
	for _, word := range words {
		if !queryNoiseWords[strings.Trim(word, ",.!?;:-'\"")] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
