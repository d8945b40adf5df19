package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/nutripraxis/nutripraxis-api/internal/models"
)

const namedDay = `{
	"day": "Monday",
	"breakfast": {"name": "Oatmeal", "calories": 300, "protein": "10g", "carbs": "50g", "fat": "5g", "ingredients": ["oats", "milk"], "instructions": "Cook oats."},
	"lunch": {"name": "Chicken salad", "calories": 450, "protein": "35g", "carbs": "20g", "fat": "15g", "ingredients": ["chicken", "lettuce"], "instructions": "Grill and toss."},
	"dinner": {"name": "Salmon and rice", "calories": 500, "protein": "30g", "carbs": "45g", "fat": "18g", "ingredients": ["salmon", "rice"], "instructions": "Bake salmon."},
	"snacks": [{"name": "Apple", "calories": 80, "protein": "0g", "carbs": "21g", "fat": "0g", "ingredients": ["apple"], "instructions": "Eat raw."}],
	"totalCalories": 1330,
	"summary": "Lean protein day."
}`

const mealsArrayDay = `{
	"day": "Tuesday",
	"meals": [
		{"name": "Eggs on toast", "calories": 350},
		{"name": "Lentil soup", "calories": 400},
		{"name": "Beef stir fry", "calories": 550},
		{"name": "Yogurt", "calories": 120},
		{"name": "Almonds", "calories": 160}
	],
	"totalCalories": 1580
}`

func TestNormalizeWeeklyPlanWrapperShape(t *testing.T) {
	raw := `{"plan": [` + namedDay + `]}`

	days, err := NormalizeWeeklyPlan(raw, models.MealSlotNone)
	if err != nil {
		t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}

	day := days[0]
	if day.Day != "Monday" {
		t.Errorf("expected day Monday, got %q", day.Day)
	}
	if day.Breakfast == nil || day.Breakfast.Name != "Oatmeal" {
		t.Errorf("breakfast not mapped: %+v", day.Breakfast)
	}
	if day.Lunch == nil || day.Lunch.Calories != 450 {
		t.Errorf("lunch not mapped: %+v", day.Lunch)
	}
	if day.Dinner == nil || day.Dinner.Name != "Salmon and rice" {
		t.Errorf("dinner not mapped: %+v", day.Dinner)
	}
	if len(day.Snacks) != 1 || day.Snacks[0].Name != "Apple" {
		t.Errorf("snacks not mapped: %+v", day.Snacks)
	}
	if day.TotalCalories != 1330 {
		t.Errorf("expected model total 1330 preserved, got %d", day.TotalCalories)
	}
	if day.Summary != "Lean protein day." {
		t.Errorf("summary not mapped: %q", day.Summary)
	}
}

func TestNormalizeWeeklyPlanBareArrayShape(t *testing.T) {
	raw := `[` + namedDay + `]`

	days, err := NormalizeWeeklyPlan(raw, models.MealSlotNone)
	if err != nil {
		t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].Breakfast == nil || days[0].Breakfast.Name != "Oatmeal" {
		t.Errorf("bare array variant not normalized: %+v", days[0].Breakfast)
	}
}

func TestNormalizeWeeklyPlanStripsCodeFences(t *testing.T) {
	raw := "```json\n" + `{"plan": [` + namedDay + `]}` + "\n```"

	days, err := NormalizeWeeklyPlan(raw, models.MealSlotNone)
	if err != nil {
		t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
}

func TestNormalizeWeeklyPlanExclusionForcedEmpty(t *testing.T) {
	tests := []struct {
		name     string
		excluded models.MealSlot
		check    func(t *testing.T, day models.DailyPlan)
	}{
		{"breakfast", models.MealSlotBreakfast, func(t *testing.T, day models.DailyPlan) {
			if day.Breakfast != nil {
				t.Errorf("excluded breakfast still present: %+v", day.Breakfast)
			}
		}},
		{"lunch", models.MealSlotLunch, func(t *testing.T, day models.DailyPlan) {
			if day.Lunch != nil {
				t.Errorf("excluded lunch still present: %+v", day.Lunch)
			}
		}},
		{"dinner", models.MealSlotDinner, func(t *testing.T, day models.DailyPlan) {
			if day.Dinner != nil {
				t.Errorf("excluded dinner still present: %+v", day.Dinner)
			}
		}},
		{"snacks", models.MealSlotSnacks, func(t *testing.T, day models.DailyPlan) {
			if len(day.Snacks) != 0 {
				t.Errorf("excluded snacks still present: %+v", day.Snacks)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The model returned all four slots populated; exclusion wins.
			days, err := NormalizeWeeklyPlan(`{"plan": [`+namedDay+`]}`, tt.excluded)
			if err != nil {
				t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
			}
			tt.check(t, days[0])
		})
	}
}

func TestNormalizeWeeklyPlanRecomputesTotalOnExclusion(t *testing.T) {
	days, err := NormalizeWeeklyPlan(`{"plan": [`+namedDay+`]}`, models.MealSlotDinner)
	if err != nil {
		t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
	}

	// 300 + 450 + 80: the removed dinner must not count.
	if got := days[0].TotalCalories; got != 830 {
		t.Errorf("expected recomputed total 830, got %d", got)
	}
}

func TestNormalizeWeeklyPlanRecomputesMissingTotal(t *testing.T) {
	day := strings.Replace(namedDay, `"totalCalories": 1330,`, "", 1)

	days, err := NormalizeWeeklyPlan(`{"plan": [`+day+`]}`, models.MealSlotNone)
	if err != nil {
		t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
	}
	if got := days[0].TotalCalories; got != 1330 {
		t.Errorf("expected total summed to 1330, got %d", got)
	}
}

func TestNormalizeWeeklyPlanMealsArrayRedistribution(t *testing.T) {
	days, err := NormalizeWeeklyPlan(`{"plan": [`+mealsArrayDay+`]}`, models.MealSlotNone)
	if err != nil {
		t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
	}

	day := days[0]
	if day.Breakfast == nil || day.Breakfast.Name != "Eggs on toast" {
		t.Errorf("expected first element as breakfast, got %+v", day.Breakfast)
	}
	if day.Lunch == nil || day.Lunch.Name != "Lentil soup" {
		t.Errorf("expected second element as lunch, got %+v", day.Lunch)
	}
	if day.Dinner == nil || day.Dinner.Name != "Beef stir fry" {
		t.Errorf("expected third element as dinner, got %+v", day.Dinner)
	}
	if len(day.Snacks) != 2 || day.Snacks[0].Name != "Yogurt" || day.Snacks[1].Name != "Almonds" {
		t.Errorf("expected leftovers as snacks, got %+v", day.Snacks)
	}
}

func TestNormalizeWeeklyPlanMealsArrayExclusionShiftsIndex(t *testing.T) {
	// With lunch excluded the second element must land on dinner, not lunch.
	days, err := NormalizeWeeklyPlan(`{"plan": [`+mealsArrayDay+`]}`, models.MealSlotLunch)
	if err != nil {
		t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
	}

	day := days[0]
	if day.Breakfast == nil || day.Breakfast.Name != "Eggs on toast" {
		t.Errorf("expected first element as breakfast, got %+v", day.Breakfast)
	}
	if day.Lunch != nil {
		t.Errorf("excluded lunch was filled: %+v", day.Lunch)
	}
	if day.Dinner == nil || day.Dinner.Name != "Lentil soup" {
		t.Errorf("expected second element shifted to dinner, got %+v", day.Dinner)
	}
	if len(day.Snacks) != 3 || day.Snacks[0].Name != "Beef stir fry" {
		t.Errorf("expected remaining elements as snacks, got %+v", day.Snacks)
	}
}

func TestNormalizeWeeklyPlanMealsArraySnacksExcluded(t *testing.T) {
	days, err := NormalizeWeeklyPlan(`{"plan": [`+mealsArrayDay+`]}`, models.MealSlotSnacks)
	if err != nil {
		t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
	}

	day := days[0]
	if day.Breakfast == nil || day.Lunch == nil || day.Dinner == nil {
		t.Fatalf("named slots should still fill: %+v", day)
	}
	if len(day.Snacks) != 0 {
		t.Errorf("excluded snacks should drop leftovers, got %+v", day.Snacks)
	}
	// 350 + 400 + 550 without the dropped array tail.
	if day.TotalCalories != 1300 {
		t.Errorf("expected recomputed total 1300, got %d", day.TotalCalories)
	}
}

func TestNormalizeWeeklyPlanStringCalories(t *testing.T) {
	day := strings.Replace(namedDay, `"calories": 300`, `"calories": "300"`, 1)

	days, err := NormalizeWeeklyPlan(`{"plan": [`+day+`]}`, models.MealSlotNone)
	if err != nil {
		t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
	}
	if days[0].Breakfast.Calories != 300 {
		t.Errorf("string calories not parsed, got %d", days[0].Breakfast.Calories)
	}
}

func TestNormalizeWeeklyPlanMalformedInputs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "not json"},
		{"empty", ""},
		{"truncated object", `{"plan": [`},
		{"truncated array", `[{"day": "Monday"`},
		{"wrong shape", `{"days": []}`},
		{"scalar", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeWeeklyPlan(tt.raw, models.MealSlotNone)
			if err == nil {
				t.Fatal("expected error for malformed input")
			}
			var normErr *NormalizationError
			if !errors.As(err, &normErr) {
				t.Errorf("expected NormalizationError, got %T", err)
			}
		})
	}
}

func TestNormalizeWeeklyPlanPreservesDayOrder(t *testing.T) {
	second := strings.Replace(namedDay, "Monday", "Tuesday", 1)
	raw := `{"plan": [` + namedDay + `,` + second + `]}`

	days, err := NormalizeWeeklyPlan(raw, models.MealSlotNone)
	if err != nil {
		t.Fatalf("NormalizeWeeklyPlan returned error: %v", err)
	}
	if len(days) != 2 || days[0].Day != "Monday" || days[1].Day != "Tuesday" {
		t.Errorf("day order not preserved: %+v", days)
	}
}
