package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_LenientDecoding(t *testing.T) {
	raw := `{
		"nutritionPlan": {"summary": "s", "dailyPlans": [
			{"day": "Monday", "totalCalories": 2000, "meals": "oops"},
			{"day": "Tuesday"}
		]},
		"workoutPlan": {"summary": "w", "schedule": [
			{"id": "d1", "day": "Monday", "focus": "Push", "exercises": {"not": "an array"}},
			{"id": "d2", "day": "Friday", "exercises": [{"id": "e1", "name": "Squat", "sets": "3-4"}]}
		]}
	}`

	var p Plan
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	require.Len(t, p.NutritionPlan.DailyPlans, 2)
	assert.Equal(t, "Monday", p.NutritionPlan.DailyPlans[0].Day)
	assert.Equal(t, 2000.0, p.NutritionPlan.DailyPlans[0].TotalCalories)
	assert.Empty(t, p.NutritionPlan.DailyPlans[0].Meals)
	assert.Empty(t, p.NutritionPlan.DailyPlans[1].Meals)

	require.Len(t, p.WorkoutPlan.Schedule, 2)
	assert.Equal(t, "Push", p.WorkoutPlan.Schedule[0].Focus)
	assert.Empty(t, p.WorkoutPlan.Schedule[0].Exercises)
	require.Len(t, p.WorkoutPlan.Schedule[1].Exercises, 1)
	assert.Equal(t, "Squat", p.WorkoutPlan.Schedule[1].Exercises[0].Name)
}

func TestPlan_Clone(t *testing.T) {
	p := &Plan{
		NutritionPlan: NutritionPlan{DailyPlans: []DailyNutrition{{
			Day:   "Monday",
			Meals: []Meal{{ID: "m1", Name: "Oats", Ingredients: []string{"oats"}, Recipe: []string{"cook oats"}}},
		}}},
		WorkoutPlan: WorkoutPlan{Schedule: []DailyWorkout{{
			ID: "d1", Exercises: []Exercise{{ID: "e1", Name: "Squat"}},
		}}},
	}

	c := p.Clone()
	c.NutritionPlan.DailyPlans[0].Meals[0].Ingredients[0] = "rice"
	c.NutritionPlan.DailyPlans[0].Meals[0].Recipe[0] = "cook rice"
	c.WorkoutPlan.Schedule[0].Exercises[0].Name = "Lunge"

	assert.Equal(t, "oats", p.NutritionPlan.DailyPlans[0].Meals[0].Ingredients[0])
	assert.Equal(t, "cook oats", p.NutritionPlan.DailyPlans[0].Meals[0].Recipe[0])
	assert.Equal(t, "Squat", p.WorkoutPlan.Schedule[0].Exercises[0].Name)

	var nilPlan *Plan
	assert.Nil(t, nilPlan.Clone())
}

func TestActiveWorkoutSession_Clone(t *testing.T) {
	end := int64(10)
	s := &ActiveWorkoutSession{ID: "s", EndTime: &end, ExerciseLogs: map[string][]SetLog{"e1": {{Reps: 5, Completed: true}}}}

	c := s.Clone()
	c.ExerciseLogs["e1"][0].Reps = 8
	*c.EndTime = 20

	assert.Equal(t, 5, s.ExerciseLogs["e1"][0].Reps)
	assert.Equal(t, int64(10), *s.EndTime)
}

func TestFeedback_Valid(t *testing.T) {
	assert.True(t, FeedbackIdeal.Valid())
	assert.False(t, Feedback("meh").Valid())
}

func TestPlan_MistypedElementKeepsList(t *testing.T) {
	raw := `{
		"nutritionPlan": {"dailyPlans": [
			{"day": "Mon", "meals": [
				{"id": "m1", "name": "Oats", "calories": "450", "protein": 20, "ingredients": ["oats", 2]},
				{"id": "m2", "name": "Rice", "calories": 600, "recipe": "boil"},
				"not an object"
			]}
		]},
		"workoutPlan": {"schedule": [
			{"id": "d1", "day": "Mon", "exercises": [
				{"id": "e1", "name": "Squat", "sets": 3, "reps": "10"},
				{"id": "e2", "name": "Row", "sets": "3-4"}
			]}
		]}
	}`

	var p Plan
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	meals := p.NutritionPlan.DailyPlans[0].Meals
	require.Len(t, meals, 3)
	assert.Equal(t, "Oats", meals[0].Name)
	assert.Equal(t, 450.0, meals[0].Calories)
	assert.Equal(t, []string{"oats", "2"}, meals[0].Ingredients)
	assert.Equal(t, "m2", meals[1].ID)
	assert.Equal(t, []string{"boil"}, meals[1].Recipe)
	assert.Equal(t, Meal{}, meals[2])

	exercises := p.WorkoutPlan.Schedule[0].Exercises
	require.Len(t, exercises, 2)
	assert.Equal(t, "3", exercises[0].Sets)
	assert.Equal(t, "e2", exercises[1].ID)
	assert.Equal(t, "3-4", exercises[1].Sets)
}
