// Package mutator applies single, all-or-nothing edits to a plan.
package mutator

import (
	"regexp"
	"strings"

	"fitlife-bot/internal/models"
)

type UpdateMealIngredientArgs struct {
	Day           string `json:"day"`
	MealName      string `json:"mealName"`
	OldIngredient string `json:"oldIngredient"`
	NewIngredient string `json:"newIngredient"`
	NewMealName   string `json:"newMealName,omitempty"`
}

// UpdateMealIngredient swaps one ingredient of one meal.
//
// The day and meal are matched case-insensitively by their full label, the
// ingredient by the first entry containing OldIngredient. The matched entry is
// replaced by NewIngredient and every occurrence of its text in the recipe
// steps is rewritten. The meal name becomes NewMealName when given, otherwise
// it gets the same rewrite.
//
// On any failed lookup the original plan is returned with false.
func UpdateMealIngredient(plan *models.Plan, args UpdateMealIngredientArgs) (*models.Plan, bool) {
	if plan == nil {
		return plan, false
	}

	out := plan.Clone()

	day := findDay(out, args.Day)
	if day == nil {
		return plan, false
	}
	meal := findMeal(day, args.MealName)
	if meal == nil {
		return plan, false
	}

	idx := findIngredient(meal.Ingredients, args.OldIngredient)
	if idx < 0 {
		return plan, false
	}

	matched := meal.Ingredients[idx]
	meal.Ingredients[idx] = args.NewIngredient

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(matched))
	replacement := escapeReplacement(args.NewIngredient)
	for i, step := range meal.Recipe {
		meal.Recipe[i] = re.ReplaceAllString(step, replacement)
	}

	if args.NewMealName != "" {
		meal.Name = args.NewMealName
	} else {
		meal.Name = re.ReplaceAllString(meal.Name, replacement)
	}

	return out, true
}

func findDay(plan *models.Plan, label string) *models.DailyNutrition {
	for i := range plan.NutritionPlan.DailyPlans {
		if strings.EqualFold(plan.NutritionPlan.DailyPlans[i].Day, label) {
			return &plan.NutritionPlan.DailyPlans[i]
		}
	}
	return nil
}

func findMeal(day *models.DailyNutrition, name string) *models.Meal {
	for i := range day.Meals {
		if strings.EqualFold(day.Meals[i].Name, name) {
			return &day.Meals[i]
		}
	}
	return nil
}

func findIngredient(ingredients []string, needle string) int {
	if needle == "" {
		return -1
	}
	needle = strings.ToLower(needle)
	for i, ing := range ingredients {
		if strings.Contains(strings.ToLower(ing), needle) {
			return i
		}
	}
	return -1
}

// escapeReplacement stops ReplaceAllString from expanding $ in the new text.
func escapeReplacement(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
