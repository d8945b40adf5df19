package testutil

import (
	"github.com/lib/pq"
	"github.com/nutripraxis/nutripraxis-api/internal/models"
	"gorm.io/gorm"
)

// TestClientRecord creates a client record with realistic intake fields.
func TestClientRecord() *models.ClientRecord {
	return &models.ClientRecord{
		Model:          gorm.Model{ID: 1},
		UserID:         1,
		FullName:       "Maria Souza",
		Email:          "maria@example.com",
		Age:            34,
		Gender:         "female",
		Weight:         72.5,
		Height:         165,
		Goal:           "lose weight",
		ActivityLevel:  "moderate",
		Allergies:      "lactose",
		Preferences:    "no red meat",
		MedicalHistory: "hypothyroidism",
		Medications:    "levothyroxine 50mcg",
		Tags:           pq.StringArray{"weight-loss", "priority"},
	}
}

// TestGenerationParams creates meal generation parameters matching
// TestClientRecord.
func TestGenerationParams() models.MealGenerationParams {
	return models.MealGenerationParams{
		Age:           34,
		Gender:        "female",
		Weight:        72.5,
		Height:        165,
		Goal:          "lose weight",
		ActivityLevel: "moderate",
		Allergies:     "lactose",
		Preferences:   "no red meat",
	}
}

// dayJSON builds one canonical day object as raw JSON.
func dayJSON(day string) string {
	return `{
		"day": "` + day + `",
		"breakfast": {"name": "Oatmeal with banana", "calories": 320, "protein": "12g", "carbs": "58g", "fat": "6g", "ingredients": ["oats", "banana", "milk"], "instructions": "Cook oats, slice banana on top."},
		"lunch": {"name": "Grilled chicken salad", "calories": 450, "protein": "38g", "carbs": "22g", "fat": "18g", "ingredients": ["chicken breast", "lettuce", "tomato", "olive oil"], "instructions": "Grill chicken, toss with greens."},
		"dinner": {"name": "Baked salmon with rice", "calories": 520, "protein": "34g", "carbs": "48g", "fat": "20g", "ingredients": ["salmon", "brown rice", "broccoli"], "instructions": "Bake salmon at 200C for 15 minutes."},
		"snacks": [{"name": "Apple with peanut butter", "calories": 190, "protein": "5g", "carbs": "24g", "fat": "9g", "ingredients": ["apple", "peanut butter"], "instructions": "Slice and spread."}],
		"totalCalories": 1480,
		"summary": "Balanced day focused on lean protein."
	}`
}

// weekDays is the canonical seven-day ordering used by fixtures.
var weekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeeklyPlanWrapperJSON returns a full seven-day provider response in the
// wrapper form {"plan": [...]}.
func WeeklyPlanWrapperJSON() string {
	return `{"plan": ` + WeeklyPlanArrayJSON() + `}`
}

// WeeklyPlanArrayJSON returns a full seven-day provider response as a bare
// top-level array.
func WeeklyPlanArrayJSON() string {
	out := "["
	for i, day := range weekDays {
		if i > 0 {
			out += ","
		}
		out += dayJSON(day)
	}
	return out + "]"
}

// ExtractedRecordsJSON returns a canned document-analysis response.
func ExtractedRecordsJSON() string {
	return `{
		"medicalHistory": "Hypothyroidism diagnosed 2019.",
		"allergies": "Lactose intolerance.",
		"medications": "Levothyroxine 50mcg daily.",
		"dietaryHistory": "Low-carb diet attempted in 2022.",
		"socialBackground": "Office worker, sedentary weekdays."
	}`
}
