package models

// Macros are grams per serving.
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Meal is a catalog meal copied into the meal plan.
type Meal struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Image       string   `json:"image,omitempty"`
	Calories    float64  `json:"calories"`
	Macros      Macros   `json:"macros"`
	PrepTimeMin int      `json:"prepTimeMin,omitempty"`
	CookTimeMin int      `json:"cookTimeMin,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Steps       []string `json:"steps,omitempty"`
	Description string   `json:"description,omitempty"`
}

// MacroTotals is the summed nutrition of a meal plan.
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
