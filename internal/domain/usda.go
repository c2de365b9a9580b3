package domain

// USDAFood represents a food item from the USDA FoodData Central API
type USDAFood struct {
	FdcID           int            `json:"fdcId"`
	Description     string         `json:"description"`
	DataType        string         `json:"dataType"`
	BrandOwner      string         `json:"brandOwner,omitempty"`
	BrandName       string         `json:"brandName,omitempty"`
	GtinUpc         string         `json:"gtinUpc,omitempty"`
	Ingredients     string         `json:"ingredients,omitempty"`
	ServingSize     float64        `json:"servingSize,omitempty"`
	ServingSizeUnit string         `json:"servingSizeUnit,omitempty"`
	Nutrients       []USDANutrient `json:"foodNutrients"`
}

// USDANutrient represents a single nutrient from USDA search results
type USDANutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// USDASearchResponse represents the response from USDA search API
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}
