package ai

import "google.golang.org/genai"

// WeeklyPlanSchema is the structured response schema handed to the
// schema-enforcing provider for meal-plan generation. It mirrors the JSON
// shape the other providers are instructed to produce so the normalizer
// sees the same canonical layout either way.
func WeeklyPlanSchema() *genai.Schema {
	meal := &genai.Schema{
		Type:        "object",
		Description: "A single meal.",
		Properties: map[string]*genai.Schema{
			"name":     {Type: "string", Description: "Name of the meal"},
			"calories": {Type: "integer", Description: "Calorie count for the meal"},
			"protein":  {Type: "string", Description: "Protein amount with unit suffix, e.g. 25g"},
			"carbs":    {Type: "string", Description: "Carbohydrate amount with unit suffix, e.g. 40g"},
			"fat":      {Type: "string", Description: "Fat amount with unit suffix, e.g. 15g"},
			"ingredients": {
				Type:        "array",
				Description: "Ingredients, each with an explicit quantity and unit",
				Items:       &genai.Schema{Type: "string"},
			},
			"instructions": {Type: "string", Description: "Short preparation instructions"},
		},
		Required: []string{"name", "calories", "protein", "carbs", "fat", "ingredients", "instructions"},
	}

	day := &genai.Schema{
		Type:        "object",
		Description: "One day of the meal plan.",
		Properties: map[string]*genai.Schema{
			"day":       {Type: "string", Description: "Day label, Monday through Sunday"},
			"breakfast": meal,
			"lunch":     meal,
			"dinner":    meal,
			"snacks": {
				Type:        "array",
				Description: "Snack meals for the day, may be empty",
				Items:       meal,
			},
			"totalCalories": {Type: "integer", Description: "Total calories across all meals of the day"},
			"summary":       {Type: "string", Description: "One-sentence summary of the day"},
		},
		Required: []string{"day", "snacks", "totalCalories", "summary"},
	}

	return &genai.Schema{
		Type:        "object",
		Description: "A seven-day meal plan.",
		Properties: map[string]*genai.Schema{
			"plan": {
				Type:        "array",
				Description: "The seven days of the plan, Monday through Sunday.",
				Items:       day,
			},
		},
		Required: []string{"plan"},
	}
}
