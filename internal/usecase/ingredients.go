package usecase

import "regexp"

// IngredientSynonyms collapses spelling and brand variants into canonical ingredient names.
// Every value is a fixed point: it either maps to itself or is not a key.
var IngredientSynonyms = map[string]string{
	// Sugars
	"sugar":                    "sugar",
	"cane sugar":               "sugar",
	"brown sugar":              "sugar",
	"white sugar":              "sugar",
	"fructose":                 "sugar",
	"glucose":                  "sugar",
	"sucrose":                  "sugar",
	"high fructose corn syrup": "sugar",
	"hfcs":                     "sugar",
	"corn syrup":               "sugar",
	"glucose syrup":            "sugar",
	"glucose-fructose syrup":   "sugar",
	"honey":                    "sugar",
	"maple syrup":              "sugar",
	"agave":                    "sugar",
	"maltose":                  "sugar",
	"dextrose":                 "sugar",

	// Fats
	"palm oil":               "palm oil",
	"palm kernel oil":        "palm oil",
	"vegetable oil":          "vegetable oil",
	"canola oil":             "canola oil",
	"rapeseed oil":           "canola oil",
	"sunflower oil":          "sunflower oil",
	"coconut oil":            "coconut oil",
	"olive oil":              "olive oil",
	"extra virgin olive oil": "olive oil",
	"butter":                 "butter",
	"lard":                   "lard",
	"shortening":             "shortening",

	// Preservatives
	"sodium benzoate":    "preservative",
	"potassium sorbate":  "preservative",
	"calcium propionate": "preservative",
	"bht":                "preservative",
	"bha":                "preservative",
	"sodium nitrite":     "preservative",
	"sodium nitrate":     "preservative",
	"e211":               "preservative",
	"e202":               "preservative",
	"e282":               "preservative",
	"e250":               "preservative",

	// Artificial colors
	"red 40":        "artificial color",
	"yellow 5":      "artificial color",
	"yellow 6":      "artificial color",
	"blue 1":        "artificial color",
	"blue 2":        "artificial color",
	"green 3":       "artificial color",
	"red 3":         "artificial color",
	"tartrazine":    "artificial color",
	"sunset yellow": "artificial color",
	"allura red":    "artificial color",
	"e102":          "artificial color",
	"e110":          "artificial color",
	"e129":          "artificial color",

	// Flavor enhancers
	"monosodium glutamate": "msg",
	"msg":                  "msg",
	"e621":                 "msg",
	"disodium inosinate":   "flavor enhancer",
	"disodium guanylate":   "flavor enhancer",

	// Sweeteners
	"aspartame":    "artificial sweetener",
	"sucralose":    "artificial sweetener",
	"saccharin":    "artificial sweetener",
	"acesulfame k": "artificial sweetener",
	"e951":         "artificial sweetener",
	"e955":         "artificial sweetener",
	"stevia":       "natural sweetener",
	"xylitol":      "sugar alcohol",
	"sorbitol":     "sugar alcohol",
	"mannitol":     "sugar alcohol",

	// Staples
	"water":             "water",
	"salt":              "salt",
	"sea salt":          "salt",
	"kosher salt":       "salt",
	"flour":             "flour",
	"wheat flour":       "flour",
	"whole wheat flour": "whole grain",
	"rice flour":        "flour",
	"corn flour":        "flour",
	"milk":              "milk",
	"whole milk":        "milk",
	"skim milk":         "milk",
	"eggs":              "eggs",
	"egg whites":        "eggs",
	"egg yolks":         "eggs",
}

// ENumberPattern detects E-number style additive codes (e.g. "e330", "e150d")
var ENumberPattern = regexp.MustCompile(`e\d{3}[a-z]?`)

// AdditiveKeywords flag an ingredient as a food additive when contained in its canonical name
var AdditiveKeywords = []string{
	"preservative", "artificial", "synthetic", "stabilizer", "emulsifier",
	"thickener", "gelling agent", "anti-caking agent", "flavor enhancer",
	"msg", "monosodium glutamate", "bht", "bha", "sodium benzoate",
	"potassium sorbate", "calcium propionate", "sodium nitrite",
	"sodium nitrate", "tartrazine", "sunset yellow", "allura red",
	"aspartame", "sucralose", "saccharin", "acesulfame",
}

// PreservativeKeywords identify preservatives
var PreservativeKeywords = []string{
	"preservative",
	"sodium benzoate", "potassium sorbate", "calcium propionate",
	"bht", "bha", "sodium nitrite", "sodium nitrate",
	"sodium sulfite", "sodium bisulfite", "sodium metabisulfite",
	"calcium sorbate", "sorbic acid", "benzoic acid",
}

// ArtificialColorKeywords identify artificial colors
var ArtificialColorKeywords = []string{
	"artificial color",
	"red 40", "yellow 5", "yellow 6", "blue 1", "blue 2",
	"green 3", "red 3", "tartrazine", "sunset yellow",
	"allura red", "brilliant blue", "indigo carmine",
	"fdc", "lake",
}

// ArtificialSweetenerKeywords identify artificial sweeteners
var ArtificialSweetenerKeywords = []string{
	"artificial sweetener",
	"aspartame", "sucralose", "saccharin", "acesulfame k",
	"acesulfame potassium", "neotame", "advantame",
}

// NaturalKeywords mark an ingredient as natural for the natural ratio
var NaturalKeywords = []string{
	"water", "salt", "flour", "milk", "egg", "butter", "oil",
	"sugar", "honey", "vanilla", "cocoa", "chocolate", "fruit",
	"vegetable", "herb", "spice", "natural", "organic",
}

// nutrientAliases maps cleaned raw nutrition keys onto the canonical vocabulary
var nutrientAliases = map[string]string{
	"calories":            "calories",
	"calorie":             "calories",
	"energy":              "calories",
	"energy_kcal":         "calories",
	"kcal":                "calories",
	"protein":             "protein",
	"proteins":            "protein",
	"total_fat":           "total_fat",
	"fat":                 "total_fat",
	"fats":                "total_fat",
	"saturated_fat":       "saturated_fat",
	"saturated_fats":      "saturated_fat",
	"sat_fat":             "saturated_fat",
	"saturates":           "saturated_fat",
	"trans_fat":           "trans_fat",
	"trans_fats":          "trans_fat",
	"cholesterol":         "cholesterol",
	"sodium":              "sodium",
	"total_carbohydrate":  "total_carbohydrate",
	"total_carbohydrates": "total_carbohydrate",
	"carbohydrate":        "total_carbohydrate",
	"carbohydrates":       "total_carbohydrate",
	"carbs":               "total_carbohydrate",
	"total_carbs":         "total_carbohydrate",
	"dietary_fiber":       "dietary_fiber",
	"dietary_fibre":       "dietary_fiber",
	"fiber":               "dietary_fiber",
	"fibre":               "dietary_fiber",
	"total_sugars":        "total_sugars",
	"total_sugar":         "total_sugars",
	"sugars":              "total_sugars",
	"sugar":               "total_sugars",
	"added_sugars":        "added_sugars",
	"added_sugar":         "added_sugars",
	"calcium":             "calcium",
	"iron":                "iron",
	"potassium":           "potassium",
	"vitamin_d":           "vitamin_d",
}
