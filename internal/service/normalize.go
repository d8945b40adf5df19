package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nutripraxis/nutripraxis-api/internal/models"
)

// NormalizationError is a typed error for provider output that cannot be
// reshaped into the canonical weekly plan. It is fatal for the request:
// retrying the same malformed response is pointless.
type NormalizationError struct {
	Message string
}

// Error returns the error message.
func (e *NormalizationError) Error() string {
	return e.Message
}

// flexInt tolerates providers that return numbers as JSON strings.
type flexInt int

// UnmarshalJSON accepts a JSON number, a numeric string, or null.
func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", string(data))
	}
	*f = flexInt(int(v))
	return nil
}

// rawMeal is the tolerant parse target for a single meal.
type rawMeal struct {
	Name         string   `json:"name"`
	Calories     flexInt  `json:"calories"`
	Protein      string   `json:"protein"`
	Carbs        string   `json:"carbs"`
	Fat          string   `json:"fat"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// rawDay is the tolerant parse target for one day. Providers return either
// named slots (breakfast/lunch/dinner/snacks) or a flat meals array; both
// variants are accepted and classified before transformation.
type rawDay struct {
	Day           string    `json:"day"`
	Breakfast     *rawMeal  `json:"breakfast"`
	Lunch         *rawMeal  `json:"lunch"`
	Dinner        *rawMeal  `json:"dinner"`
	Snacks        []rawMeal `json:"snacks"`
	Meals         []rawMeal `json:"meals"`
	TotalCalories flexInt   `json:"totalCalories"`
	Summary       string    `json:"summary"`
}

// NormalizeWeeklyPlan parses raw provider text and reshapes it into the
// canonical daily plan sequence. The excluded slot is forced empty on every
// day regardless of what the model returned, and day totals are recomputed
// when absent or nonsensical. Days are returned in the order provided: a
// short plan is the caller's concern, never padded here.
func NormalizeWeeklyPlan(raw string, excluded models.MealSlot) ([]models.DailyPlan, error) {
	text := stripCodeFences(raw)

	rawDays, err := parseTopLevel(text)
	if err != nil {
		return nil, err
	}

	days := make([]models.DailyPlan, len(rawDays))
	for i, rd := range rawDays {
		days[i] = normalizeDay(rd, excluded)
	}
	return days, nil
}

// parseTopLevel classifies the raw JSON into one of the two accepted
// top-level shapes: {"plan": [...]} or a bare array of days.
func parseTopLevel(text string) ([]rawDay, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &NormalizationError{Message: "provider returned an empty response"}
	}

	switch trimmed[0] {
	case '{':
		var wrapper struct {
			Plan []rawDay `json:"plan"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapper); err != nil {
			return nil, &NormalizationError{Message: "provider response is not valid JSON: " + err.Error()}
		}
		if wrapper.Plan == nil {
			return nil, &NormalizationError{Message: "response structure did not match expected schema"}
		}
		return wrapper.Plan, nil
	case '[':
		var days []rawDay
		if err := json.Unmarshal([]byte(trimmed), &days); err != nil {
			return nil, &NormalizationError{Message: "provider response is not valid JSON: " + err.Error()}
		}
		return days, nil
	default:
		return nil, &NormalizationError{Message: "provider response is not valid JSON"}
	}
}

// normalizeDay maps one raw day through the transform for its variant,
// applies the exclusion, and reconciles the calorie total.
func normalizeDay(rd rawDay, excluded models.MealSlot) models.DailyPlan {
	var day models.DailyPlan
	if len(rd.Meals) > 0 && rd.Breakfast == nil && rd.Lunch == nil && rd.Dinner == nil {
		day = dayFromMealsArray(rd, excluded)
	} else {
		day = dayFromNamedSlots(rd)
	}

	day.Day = rd.Day
	day.Summary = rd.Summary
	day.TotalCalories = int(rd.TotalCalories)

	// The excluded slot wins over whatever the model produced.
	switch excluded {
	case models.MealSlotBreakfast:
		day.Breakfast = nil
	case models.MealSlotLunch:
		day.Lunch = nil
	case models.MealSlotDinner:
		day.Dinner = nil
	case models.MealSlotSnacks:
		day.Snacks = []models.Meal{}
	}
	if day.Snacks == nil {
		day.Snacks = []models.Meal{}
	}

	// An active exclusion invalidates the model's own total (it may count
	// the removed meal), so recompute in that case as well as when the
	// total is absent or nonsensical.
	if day.TotalCalories <= 0 || excluded != models.MealSlotNone {
		day.TotalCalories = sumCalories(&day)
	}

	return day
}

// dayFromNamedSlots transforms the named-slot variant.
func dayFromNamedSlots(rd rawDay) models.DailyPlan {
	day := models.DailyPlan{
		Breakfast: toMeal(rd.Breakfast),
		Lunch:     toMeal(rd.Lunch),
		Dinner:    toMeal(rd.Dinner),
	}
	for _, m := range rd.Snacks {
		day.Snacks = append(day.Snacks, *toMeal(&m))
	}
	return day
}

// dayFromMealsArray transforms the flat-array variant: array elements fill
// the named slots in breakfast/lunch/dinner order with the excluded slot
// removed, so the assignment index shifts correctly around the gap.
// Whatever remains past the named slots becomes snacks.
func dayFromMealsArray(rd rawDay, excluded models.MealSlot) models.DailyPlan {
	var day models.DailyPlan

	type target struct {
		slot models.MealSlot
		set  func(*models.Meal)
	}
	targets := []target{
		{models.MealSlotBreakfast, func(m *models.Meal) { day.Breakfast = m }},
		{models.MealSlotLunch, func(m *models.Meal) { day.Lunch = m }},
		{models.MealSlotDinner, func(m *models.Meal) { day.Dinner = m }},
	}

	idx := 0
	for _, t := range targets {
		if t.slot == excluded {
			continue
		}
		if idx < len(rd.Meals) {
			t.set(toMeal(&rd.Meals[idx]))
			idx++
		}
	}

	if excluded != models.MealSlotSnacks {
		for ; idx < len(rd.Meals); idx++ {
			day.Snacks = append(day.Snacks, *toMeal(&rd.Meals[idx]))
		}
	}

	return day
}

// toMeal converts a raw meal into the canonical value object.
func toMeal(rm *rawMeal) *models.Meal {
	if rm == nil {
		return nil
	}
	return &models.Meal{
		Name:         rm.Name,
		Calories:     int(rm.Calories),
		Protein:      rm.Protein,
		Carbs:        rm.Carbs,
		Fat:          rm.Fat,
		Ingredients:  rm.Ingredients,
		Instructions: rm.Instructions,
	}
}

// sumCalories totals the calories of all present meals in a day.
func sumCalories(day *models.DailyPlan) int {
	total := 0
	for _, m := range day.Meals() {
		total += m.Calories
	}
	return total
}

// stripCodeFences removes a surrounding markdown code fence, which models
// add around JSON despite instructions not to.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
