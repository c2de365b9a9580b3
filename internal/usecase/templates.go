package usecase

import "github.com/foodscore/backend/internal/domain"

// componentCopy is the static explanation copy of a single rule
type componentCopy struct {
	title           string
	texts           map[domain.Level]string
	recommendations []string
}

var componentTemplates = map[string]componentCopy{
	RuleSugarContent: {
		title: "Sugar Content",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! This product has very low sugar content, well within WHO recommendations.",
			domain.LevelGood:      "Good sugar content. This product is within healthy limits for sugar intake.",
			domain.LevelModerate:  "Moderate sugar content. Consider this when planning your daily sugar intake.",
			domain.LevelPoor:      "High sugar content! This exceeds WHO recommendations for daily sugar intake.",
			domain.LevelVeryPoor:  "Very high sugar content! This product contains excessive amounts of sugar.",
		},
		recommendations: []string{
			"Choose products with less than 10g sugar per 100g",
			"Look for products sweetened with natural ingredients",
			"Consider fresh fruits instead of sugary snacks",
		},
	},
	RuleSodiumContent: {
		title: "Sodium Content",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! Very low sodium content, great for heart health.",
			domain.LevelGood:      "Good sodium levels. This product is within healthy limits.",
			domain.LevelModerate:  "Moderate sodium content. Monitor your daily sodium intake.",
			domain.LevelPoor:      "High sodium content! This exceeds WHO recommendations for daily sodium intake.",
			domain.LevelVeryPoor:  "Very high sodium content! This product contains excessive sodium.",
		},
		recommendations: []string{
			"Choose products with less than 400mg sodium per 100g",
			"Look for low-sodium or no-salt-added versions",
			"Season food with herbs and spices instead of salt",
		},
	},
	RuleSaturatedFat: {
		title: "Saturated Fat",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! Very low saturated fat content, great for cardiovascular health.",
			domain.LevelGood:      "Good saturated fat levels. This product is within healthy limits.",
			domain.LevelModerate:  "Moderate saturated fat content. Consider this in your daily fat intake.",
			domain.LevelPoor:      "High saturated fat content! This exceeds WHO recommendations.",
			domain.LevelVeryPoor:  "Very high saturated fat content! This product contains excessive saturated fat.",
		},
		recommendations: []string{
			"Choose products with less than 5g saturated fat per 100g",
			"Look for products with healthy fats like olive oil",
			"Consider plant-based alternatives",
		},
	},
	RuleTransFat: {
		title: "Trans Fat",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! No trans fats detected, which is ideal for health.",
			domain.LevelGood:      "Good! Minimal trans fat content.",
			domain.LevelModerate:  "Contains some trans fats. Consider limiting consumption.",
			domain.LevelPoor:      "High trans fat content! This is concerning for heart health.",
			domain.LevelVeryPoor:  "Very high trans fat content! This product contains dangerous levels of trans fats.",
		},
		recommendations: []string{
			"Avoid products with trans fats completely",
			"Check ingredient lists for 'partially hydrogenated oils'",
			"Choose products with natural fats",
		},
	},
	RuleFiberContent: {
		title: "Fiber Content",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! High fiber content, great for digestive health and satiety.",
			domain.LevelGood:      "Good fiber content. This contributes positively to your daily fiber intake.",
			domain.LevelModerate:  "Moderate fiber content. Every bit helps with daily fiber goals.",
			domain.LevelPoor:      "Low fiber content. Consider adding more fiber-rich foods to your diet.",
			domain.LevelVeryPoor:  "Very low fiber content. This product provides minimal fiber benefits.",
		},
		recommendations: []string{
			"Choose whole grain products when possible",
			"Look for products with added fiber",
			"Include fresh vegetables and fruits in your diet",
		},
	},
	RuleProteinContent: {
		title: "Protein Content",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! High protein content, great for muscle health and satiety.",
			domain.LevelGood:      "Good protein content. This contributes well to your daily protein needs.",
			domain.LevelModerate:  "Moderate protein content. A decent source of protein.",
			domain.LevelPoor:      "Low protein content. Consider other protein sources for your daily needs.",
			domain.LevelVeryPoor:  "Very low protein content. This product provides minimal protein.",
		},
		recommendations: []string{
			"Choose products with at least 10g protein per 100g",
			"Look for complete protein sources",
			"Consider plant-based protein options",
		},
	},
	RuleAdditivesCount: {
		title: "Food Additives",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! Very few additives, indicating a more natural product.",
			domain.LevelGood:      "Good! Minimal use of food additives.",
			domain.LevelModerate:  "Moderate number of additives. Generally acceptable for processed foods.",
			domain.LevelPoor:      "High number of additives. Consider choosing products with fewer additives.",
			domain.LevelVeryPoor:  "Very high number of additives! This product contains many artificial ingredients.",
		},
		recommendations: []string{
			"Choose products with fewer ingredients",
			"Look for organic or natural versions",
			"Prepare fresh foods when possible",
		},
	},
	RulePreservatives: {
		title: "Preservatives",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! No preservatives detected, indicating a fresher product.",
			domain.LevelGood:      "Good! Minimal use of preservatives.",
			domain.LevelModerate:  "Contains some preservatives, which is common in packaged foods.",
			domain.LevelPoor:      "High preservative content. Consider fresher alternatives when possible.",
			domain.LevelVeryPoor:  "Very high preservative content! This product contains many preservatives.",
		},
		recommendations: []string{
			"Choose fresh or minimally processed foods",
			"Look for products with natural preservatives",
			"Check expiration dates and consume quickly",
		},
	},
	RuleArtificialColors: {
		title: "Artificial Colors",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! No artificial colors detected, indicating natural coloring.",
			domain.LevelGood:      "Good! Minimal use of artificial colors.",
			domain.LevelModerate:  "Contains some artificial colors, which is common in processed foods.",
			domain.LevelPoor:      "High artificial color content. Consider more natural alternatives.",
			domain.LevelVeryPoor:  "Very high artificial color content! This product contains many artificial colors.",
		},
		recommendations: []string{
			"Choose products with natural coloring",
			"Look for organic or natural versions",
			"Avoid products with many artificial colors",
		},
	},
	RuleNaturalRatio: {
		title: "Natural Ingredients",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! High ratio of natural ingredients, indicating a wholesome product.",
			domain.LevelGood:      "Good! Mostly natural ingredients with minimal processing.",
			domain.LevelModerate:  "Moderate natural ingredient ratio. A mix of natural and processed ingredients.",
			domain.LevelPoor:      "Low natural ingredient ratio. This product is heavily processed.",
			domain.LevelVeryPoor:  "Very low natural ingredient ratio! This product is highly processed.",
		},
		recommendations: []string{
			"Choose products with recognizable ingredients",
			"Look for organic or natural versions",
			"Prepare foods from scratch when possible",
		},
	},
	RuleArtificialSweeteners: {
		title: "Artificial Sweeteners",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "Excellent! No artificial sweeteners detected, using natural sweeteners only.",
			domain.LevelGood:      "Good! Minimal use of artificial sweeteners.",
			domain.LevelModerate:  "Contains some artificial sweeteners, which is common in diet products.",
			domain.LevelPoor:      "High artificial sweetener content. Consider natural sweetener alternatives.",
			domain.LevelVeryPoor:  "Very high artificial sweetener content! This product contains many artificial sweeteners.",
		},
		recommendations: []string{
			"Choose products with natural sweeteners",
			"Look for unsweetened versions",
			"Use natural sweeteners like honey or maple syrup",
		},
	},
	RuleAdvisoryAdjustment: {
		title: "Advisory Assessment",
		texts: map[domain.Level]string{
			domain.LevelExcellent: "The advisory assessment rates this product very favourably.",
			domain.LevelGood:      "The advisory assessment rates this product favourably.",
			domain.LevelModerate:  "The advisory assessment only slightly adjusts this product's score.",
			domain.LevelPoor:      "The advisory assessment raises some health concerns about this product.",
			domain.LevelVeryPoor:  "The advisory assessment raises serious health concerns about this product.",
		},
		recommendations: []string{
			"Treat the advisory assessment as a supplement to the nutrition label",
			"Discuss specific dietary needs with a healthcare professional",
		},
	},
}

// overallCopy is the band-specific copy of the synthetic overall explanation.
// Text is a format string taking the numeric score.
type overallCopy struct {
	text            string
	recommendations []string
}

var overallTemplates = map[domain.Band]overallCopy{
	domain.BandExcellent: {
		text: "This product scores %d/100, which is excellent! It meets most health guidelines and contains beneficial nutrients with minimal harmful components.",
		recommendations: []string{
			"This is a great choice for regular consumption",
			"Consider this product as part of a balanced diet",
			"Share this healthy option with family and friends",
		},
	},
	domain.BandGood: {
		text: "This product scores %d/100, which is good. It meets many health guidelines, with a few components worth keeping an eye on.",
		recommendations: []string{
			"A reasonable choice for regular consumption",
			"Check the flagged components against your own dietary needs",
			"Pair with fresh, unprocessed foods",
		},
	},
	domain.BandModerate: {
		text: "This product scores %d/100, which is moderate. It has some positive aspects but also areas for improvement. Consider your overall diet when consuming this product.",
		recommendations: []string{
			"Enjoy in moderation as part of a balanced diet",
			"Consider healthier alternatives when possible",
			"Balance with other nutritious foods",
		},
	},
	domain.BandPoor: {
		text: "This product scores %d/100, which is poor. It contains several components that exceed health recommendations. Consider limiting consumption or finding healthier alternatives.",
		recommendations: []string{
			"Limit consumption of this product",
			"Look for healthier alternatives",
			"Consider making homemade versions with better ingredients",
			"Use this product sparingly in your diet",
		},
	},
}
