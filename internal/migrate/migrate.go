// Package migrate keeps stored and freshly generated plans in the shape the rest
// of the bot relies on: every day, meal and exercise carries an id and no
// sequence is nil.
package migrate

import (
	"github.com/google/uuid"

	"fitlife-bot/internal/models"
)

// Report describes what Normalize changed.
type Report struct {
	WorkoutIDs  int
	ExerciseIDs int
	MealIDs     int
}

// Changed reports whether any id was assigned.
func (r Report) Changed() bool {
	return r.WorkoutIDs+r.ExerciseIDs+r.MealIDs > 0
}

// Normalize assigns ids to the entities that lack one. Existing ids are kept
// as is and nothing is reordered or dropped, so calling it twice gives the same
// plan. The input is never modified.
func Normalize(plan *models.Plan) (*models.Plan, Report) {
	var r Report
	if plan == nil {
		return nil, r
	}
	out := plan.Clone()

	for i := range out.WorkoutPlan.Schedule {
		day := &out.WorkoutPlan.Schedule[i]
		if day.ID == "" {
			day.ID = uuid.NewString()
			r.WorkoutIDs++
		}
		if day.Exercises == nil {
			day.Exercises = []models.Exercise{}
		}
		for j := range day.Exercises {
			if day.Exercises[j].ID == "" {
				day.Exercises[j].ID = uuid.NewString()
				r.ExerciseIDs++
			}
		}
	}

	for i := range out.NutritionPlan.DailyPlans {
		day := &out.NutritionPlan.DailyPlans[i]
		if day.Meals == nil {
			day.Meals = []models.Meal{}
		}
		for j := range day.Meals {
			if day.Meals[j].ID == "" {
				day.Meals[j].ID = uuid.NewString()
				r.MealIDs++
			}
		}
	}

	return out, r
}

// Reassign gives every day, exercise and meal of a freshly generated plan a new
// id. Generated ids cannot be trusted to be unique across the schedule.
func Reassign(plan *models.Plan) *models.Plan {
	if plan == nil {
		return nil
	}
	out := plan.Clone()

	for i := range out.WorkoutPlan.Schedule {
		day := &out.WorkoutPlan.Schedule[i]
		day.ID = uuid.NewString()
		if day.Exercises == nil {
			day.Exercises = []models.Exercise{}
		}
		for j := range day.Exercises {
			day.Exercises[j].ID = uuid.NewString()
		}
	}

	for i := range out.NutritionPlan.DailyPlans {
		day := &out.NutritionPlan.DailyPlans[i]
		if day.Meals == nil {
			day.Meals = []models.Meal{}
		}
		for j := range day.Meals {
			day.Meals[j].ID = uuid.NewString()
		}
	}

	return out
}
