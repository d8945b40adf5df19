package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MealSlot identifies one of the four meal positions in a day.
type MealSlot string

// MealSlot enum values. MealSlotNone means no slot is excluded.
const (
	MealSlotNone      MealSlot = ""
	MealSlotBreakfast MealSlot = "breakfast"
	MealSlotLunch     MealSlot = "lunch"
	MealSlotDinner    MealSlot = "dinner"
	MealSlotSnacks    MealSlot = "snacks"
)

// Valid reports whether s is a known slot name or empty.
func (s MealSlot) Valid() bool {
	switch s {
	case MealSlotNone, MealSlotBreakfast, MealSlotLunch, MealSlotDinner, MealSlotSnacks:
		return true
	}
	return false
}

// Meal is a single meal in a daily plan. Meals are value objects: edits
// produce a new Meal rather than mutating one in place.
type Meal struct {
	Name         string         `json:"name"`
	Calories     int            `json:"calories"`
	Protein      string         `json:"protein"`
	Carbs        string         `json:"carbs"`
	Fat          string         `json:"fat"`
	Ingredients  pq.StringArray `json:"ingredients" gorm:"type:text[]"`
	Instructions string         `json:"instructions"`
}

// DailyPlan is one day of a weekly meal plan. Breakfast, lunch, and dinner
// may be nil when the corresponding slot was excluded from generation.
type DailyPlan struct {
	Day           string `json:"day"`
	Breakfast     *Meal  `json:"breakfast"`
	Lunch         *Meal  `json:"lunch"`
	Dinner        *Meal  `json:"dinner"`
	Snacks        []Meal `json:"snacks"`
	TotalCalories int    `json:"totalCalories"`
	Summary       string `json:"summary"`
}

// Meals returns the present meals of the day, named slots first, then snacks.
func (d *DailyPlan) Meals() []Meal {
	var meals []Meal
	for _, m := range []*Meal{d.Breakfast, d.Lunch, d.Dinner} {
		if m != nil {
			meals = append(meals, *m)
		}
	}
	meals = append(meals, d.Snacks...)
	return meals
}

// WeeklyPlan is the canonical seven-day plan, Monday through Sunday.
// This is a workaround for GORM to embed a slice of structs into a JSONB field.
type WeeklyPlan []DailyPlan

// Scan is a GORM hook that scans jsonb into a WeeklyPlan.
func (p *WeeklyPlan) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := WeeklyPlan{}
	err := json.Unmarshal(bytes, &result)
	*p = result

	return err
}

// Value is a GORM hook that returns the json value of a WeeklyPlan.
func (p WeeklyPlan) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// MealGenerationParams carries all client attributes embedded into a
// meal-plan generation prompt. ExcludedMeal applies uniformly to all
// seven days; at most one slot may be excluded per request.
type MealGenerationParams struct {
	Age                int      `json:"age"`
	Gender             string   `json:"gender"`
	Weight             float64  `json:"weight"`
	Height             float64  `json:"height"`
	Goal               string   `json:"goal"`
	ActivityLevel      string   `json:"activityLevel"`
	Allergies          string   `json:"allergies"`
	Preferences        string   `json:"preferences"`
	MedicalHistory     string   `json:"medicalHistory"`
	Medications        string   `json:"medications"`
	DietaryHistory     string   `json:"dietaryHistory"`
	SocialBackground   string   `json:"socialBackground"`
	CustomInstructions string   `json:"customInstructions"`
	Base64Image        string   `json:"base64Image"`
	ImageMimeType      string   `json:"imageMimeType"`
	ExcludedMeal       MealSlot `json:"excludeMeal"`
}

// ExtractedRecords is the structured output of medical document analysis.
type ExtractedRecords struct {
	MedicalHistory   string `json:"medicalHistory"`
	Allergies        string `json:"allergies"`
	Medications      string `json:"medications"`
	DietaryHistory   string `json:"dietaryHistory"`
	SocialBackground string `json:"socialBackground"`
}

// MealPlanRecord is the persisted form of a generated weekly plan.
type MealPlanRecord struct {
	gorm.Model
	ClientID  uint          `gorm:"index" json:"client_id"`
	Client    *ClientRecord `gorm:"foreignKey:ClientID" json:"-"`
	CreatedBy uint          `gorm:"index" json:"created_by"`
	Provider  string        `gorm:"type:text" json:"provider"`
	Plan      WeeklyPlan    `gorm:"type:jsonb" json:"plan"`
}
